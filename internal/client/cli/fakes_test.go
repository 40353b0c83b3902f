package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/config"
	"github.com/dmitrijs2005/portfolio/internal/client/datamanager"
	"github.com/dmitrijs2005/portfolio/internal/client/resumes"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

type fakeData struct {
	doc *models.PortfolioData

	updateOK  bool
	updated   map[models.Section]json.RawMessage
	resetOK   bool
	resets    int
	exportOut string
	exportDir string
	importOK  bool
	imported  string
	subs      []func(datamanager.Event)
}

func newFakeData() *fakeData {
	return &fakeData{
		doc:      datamanager.GetDefaultData(),
		updateOK: true,
		resetOK:  true,
		importOK: true,
		updated:  map[models.Section]json.RawMessage{},
	}
}

func (f *fakeData) GetPortfolioData(context.Context) *models.PortfolioData {
	b, _ := json.Marshal(f.doc)
	var out models.PortfolioData
	_ = json.Unmarshal(b, &out)
	return &out
}

func (f *fakeData) UpdatePortfolioSection(_ context.Context, s models.Section, value any) bool {
	if !f.updateOK {
		return false
	}
	raw, _ := json.Marshal(value)
	f.updated[s] = raw
	_ = f.doc.SetSection(s, raw)
	for _, fn := range f.subs {
		fn(datamanager.Event{Section: s, Timestamp: time.Now()})
	}
	return true
}

func (f *fakeData) ResetToDefaults(context.Context) bool {
	f.resets++
	return f.resetOK
}

func (f *fakeData) ExportData(_ context.Context, dir string) string {
	f.exportDir = dir
	return f.exportOut
}

func (f *fakeData) ImportData(_ context.Context, r io.Reader) bool {
	b, _ := io.ReadAll(r)
	f.imported = string(b)
	return f.importOK
}

func (f *fakeData) Subscribe(fn func(datamanager.Event)) func() {
	f.subs = append(f.subs, fn)
	return func() { f.subs = nil }
}

type fakeResumes struct {
	list []models.Resume

	uploadIn    resumes.FileInput
	uploadName  string
	uploadDesc  string
	uploadCloud bool
	uploadErr   error

	downloadDir string
	downloadErr error

	deleted  []string
	deleteOK bool

	updatedID string
	update    resumes.ResumeUpdate
	updateOK  bool

	migrated int
	synced   int
	syncErr  error
}

func (f *fakeResumes) Upload(_ context.Context, in resumes.FileInput, name, desc string, cloud bool) (*models.Resume, error) {
	f.uploadIn, f.uploadName, f.uploadDesc, f.uploadCloud = in, name, desc, cloud
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &models.Resume{ID: "new", FileSize: "10 B", StorageType: models.StorageCloud}, nil
}

func (f *fakeResumes) Download(_ context.Context, r *models.Resume, dir string) (string, error) {
	f.downloadDir = dir
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return dir + "/" + r.FileName, nil
}

func (f *fakeResumes) Delete(_ context.Context, r *models.Resume) bool {
	f.deleted = append(f.deleted, r.ID)
	return f.deleteOK
}

func (f *fakeResumes) Update(_ context.Context, id string, upd resumes.ResumeUpdate) bool {
	f.updatedID, f.update = id, upd
	return f.updateOK
}

func (f *fakeResumes) GetAll(context.Context) []models.Resume {
	return append([]models.Resume{}, f.list...)
}

func (f *fakeResumes) GetByID(_ context.Context, id string) (*models.Resume, bool) {
	for _, r := range f.list {
		if r.ID == id {
			return &r, true
		}
	}
	return nil, false
}

func (f *fakeResumes) MigrateToCloud(context.Context) resumes.MigrationResult {
	f.migrated++
	return resumes.MigrationResult{SuccessCount: 2, FailedCount: 1}
}

func (f *fakeResumes) SyncCloudFiles(context.Context) (int, error) {
	f.synced++
	return 3, f.syncErr
}

type fakeAuth struct {
	password string
	expires  time.Time
	err      error
	loggedIn bool
}

func (f *fakeAuth) Login(_ context.Context, pw string) (time.Time, error) {
	f.password = pw
	if f.err != nil {
		return time.Time{}, f.err
	}
	f.loggedIn = true
	return f.expires, nil
}

func (f *fakeAuth) Authenticated() bool { return f.loggedIn }
func (f *fakeAuth) Logout()             { f.loggedIn = false }

type fakeCerts struct {
	uploadedName string
	uploadedType string
	deleted      string
	err          error
}

func (f *fakeCerts) UploadCertificate(_ context.Context, name, ct string, _ []byte) (models.UploadResult, error) {
	f.uploadedName, f.uploadedType = name, ct
	if f.err != nil {
		return models.UploadResult{}, f.err
	}
	return models.UploadResult{ObjectKey: "obj_" + name, PublicURL: "http://cdn/obj_" + name}, nil
}

func (f *fakeCerts) DeleteCertificate(_ context.Context, name string) error {
	f.deleted = name
	return f.err
}

type fakePinger struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakePinger) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakePinger) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeCache struct {
	at  time.Time
	ok  bool
	err error
}

func (f fakeCache) UpdatedAt(context.Context, string) (time.Time, bool, error) {
	return f.at, f.ok, f.err
}

type testApp struct {
	*App
	data    *fakeData
	resumes *fakeResumes
	auth    *fakeAuth
	certs   *fakeCerts
	out     *bytes.Buffer
}

// newTestApp builds a remote-mode App on fakes; input is what the user
// types at prompts.
func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()
	var out bytes.Buffer
	ta := &testApp{
		data:    newFakeData(),
		resumes: &fakeResumes{deleteOK: true, updateOK: true},
		auth:    &fakeAuth{},
		certs:   &fakeCerts{},
		out:     &out,
	}
	ta.App = &App{
		config:  &config.Config{Backend: config.BackendRemote, ServerURL: "http://portfolio.test"},
		log:     newDiscardLogger(),
		data:    ta.data,
		resumes: ta.resumes,
		cache:   fakeCache{},
		auth:    ta.auth,
		certs:   ta.certs,
		mode:    ModeOnline,
		reader:  bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:     &out,
	}
	return ta
}

func newDiscardLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func tempDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cache.db")
}

func (ta *testApp) localMode() {
	ta.App.mode = ModeLocal
	ta.App.auth = nil
	ta.App.certs = nil
	ta.App.config.Backend = config.BackendLocal
}
