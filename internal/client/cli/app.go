package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/client"
	"github.com/dmitrijs2005/portfolio/internal/client/config"
	"github.com/dmitrijs2005/portfolio/internal/client/datamanager"
	"github.com/dmitrijs2005/portfolio/internal/client/repositories/cache"
	"github.com/dmitrijs2005/portfolio/internal/client/resumes"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
	ModeLocal   Mode = "local"
)

// dataService is the part of the data manager the commands use.
type dataService interface {
	GetPortfolioData(ctx context.Context) *models.PortfolioData
	UpdatePortfolioSection(ctx context.Context, section models.Section, value any) bool
	ResetToDefaults(ctx context.Context) bool
	ExportData(ctx context.Context, dir string) string
	ImportData(ctx context.Context, r io.Reader) bool
	Subscribe(fn func(datamanager.Event)) (unsubscribe func())
}

type resumeService interface {
	Upload(ctx context.Context, in resumes.FileInput, name, description string, preferCloud bool) (*models.Resume, error)
	Download(ctx context.Context, r *models.Resume, dir string) (string, error)
	Delete(ctx context.Context, r *models.Resume) bool
	Update(ctx context.Context, id string, upd resumes.ResumeUpdate) bool
	GetAll(ctx context.Context) []models.Resume
	GetByID(ctx context.Context, id string) (*models.Resume, bool)
	MigrateToCloud(ctx context.Context) resumes.MigrationResult
	SyncCloudFiles(ctx context.Context) (int, error)
}

type authService interface {
	Login(ctx context.Context, password string) (time.Time, error)
	Authenticated() bool
	Logout()
}

type certService interface {
	UploadCertificate(ctx context.Context, name, contentType string, data []byte) (models.UploadResult, error)
	DeleteCertificate(ctx context.Context, fileName string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type cacheInfo interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

type App struct {
	config  *config.Config
	log     logging.Logger
	data    dataService
	resumes resumeService
	cache   cacheInfo

	// nil in local mode
	auth   authService
	certs  certService
	health pinger

	modeMu sync.RWMutex
	mode   Mode

	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer
}

// NewApp opens the local cache and builds the managers on top of the
// backend selected by c.Backend.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	repo := cache.NewSQLiteRepository(db)

	a := &App{
		config:  c,
		log:     log,
		cache:   repo,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []io.Closer{db},
	}

	var (
		remote datamanager.RemoteStore
		blobs  resumes.BlobGateway
	)

	switch c.Backend {
	case config.BackendLocal:
		local := client.NewLocalBackend()
		remote, blobs = local, local
		a.mode = ModeLocal

	case config.BackendRemote:
		api := client.NewAPIClient(c.ServerURL, c.RequestTimeout)
		hc, err := client.NewHealthClient(c.HealthEndpointAddr)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		remote, blobs = api, api
		a.auth, a.certs, a.health = api, api, hc
		a.closers = append(a.closers, hc)
		a.mode = ModeOffline

	default:
		_ = db.Close()
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}

	dm := datamanager.NewManager(remote, repo, log)
	a.data = dm
	a.resumes = resumes.NewManager(dm, blobs, log)
	return a, nil
}

func (a *App) getMode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth != nil && a.auth.Authenticated()
}

func (a *App) getStatus() string {
	s := string(a.getMode())
	if a.isLoggedIn() {
		s = "admin " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// Run starts the status watcher, prints change notifications and blocks in
// the REPL until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to the portfolio admin CLI (type 'help' for commands)")

	unsubscribe := a.data.Subscribe(a.printEvent)
	defer unsubscribe()

	if a.health != nil {
		a.checkOnline(ctx)
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) printEvent(e datamanager.Event) {
	ts := e.Timestamp.Local().Format(time.TimeOnly)
	if e.Section == "" {
		fmt.Fprintf(a.out, "[%s] portfolio data replaced\n", ts)
		return
	}
	fmt.Fprintf(a.out, "[%s] section %s updated\n", ts, e.Section)
}

// StartOnlineStatusWatcher probes the health endpoint every interval and
// switches between online and offline mode until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.health.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// Status prints the backend, connectivity and cache state.
func (a *App) Status(ctx context.Context, _ []string) error {
	fmt.Fprintf(a.out, "Mode:       %s\n", a.getMode())
	fmt.Fprintf(a.out, "Backend:    %s\n", a.config.Backend)
	if a.config.Backend == config.BackendRemote {
		fmt.Fprintf(a.out, "Server:     %s\n", a.config.ServerURL)
		fmt.Fprintf(a.out, "Logged in:  %t\n", a.isLoggedIn())
	}

	at, ok, err := a.cache.UpdatedAt(ctx, datamanager.CacheKey)
	switch {
	case err != nil:
		fmt.Fprintf(a.out, "Cache:      unreadable (%v)\n", err)
	case !ok:
		fmt.Fprintln(a.out, "Cache:      empty")
	default:
		fmt.Fprintf(a.out, "Cache:      written %s\n", humanTime(at))
	}
	return nil
}
