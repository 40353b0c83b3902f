// Package server wires the portfolio backend: PostgreSQL sections, S3
// buckets, the JSON API and the gRPC health service, with graceful
// shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/blobstore"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/services"

	gs "github.com/dmitrijs2005/portfolio/internal/server/grpc"
	hs "github.com/dmitrijs2005/portfolio/internal/server/http"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  *logging.ZapLogger
	db      *sql.DB
	handler *hs.Handler
	health  *gs.GRPCServer
}

// blobSettings maps the S3 part of the config onto one bucket.
func blobSettings(c *config.Config, bucket string) blobstore.Settings {
	return blobstore.Settings{
		Region:        c.S3Region,
		AccessKey:     c.S3RootUser,
		SecretKey:     c.S3RootPassword,
		BaseEndpoint:  c.S3BaseEndpoint,
		PublicBaseURL: c.PublicBaseURL(),
		Bucket:        bucket,
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.NewProductionZapLogger(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := dbx.Open(ctx, repomanager.DriverName, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	resumes, err := blobstore.NewS3Store(ctx, blobSettings(c, c.S3ResumeBucket))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("resume storage init error: %w", err)
	}
	certificates, err := blobstore.NewS3Store(ctx, blobSettings(c, c.S3CertificateBucket))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("certificate storage init error: %w", err)
	}

	handler := &hs.Handler{
		Portfolio: services.NewPortfolioService(db, rm, logger),
		Assets:    services.NewAssetService(db, rm, resumes, certificates, logger),
		Auth:      services.NewAuthService(c),
		DB:        db,
		Log:       logger.With("module", "http"),
	}

	health := gs.NewGRPCServer(c.EndpointAddrGRPC, c.HealthCheckInterval, logger,
		gs.Probe{Name: "postgres", Check: db.PingContext},
		gs.Probe{Name: resumes.Name(), Check: resumes.Check},
	)

	if c.AdminPasswordHash == "" {
		logger.Warn(ctx, "admin password hash is not configured, logins will be refused")
	}

	return &App{config: c, logger: logger, db: db, handler: handler, health: health}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           hs.NewRouter(app.handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives or ctx is cancelled, then releases the
// database and flushes the logger.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	_ = app.logger.Sync()
}
