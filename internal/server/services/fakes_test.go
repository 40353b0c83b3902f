package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/sections"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- helpers ---

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newObservedLogger() (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.NewZapLogger(zap.New(core)), logs
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// memSections is an in-memory sections.Repository.
type memSections struct {
	rows      map[models.Section]*models.SectionRecord
	upserts   []models.Section
	upsertErr error
	selectErr error
	getErr    error
}

func newMemSections() *memSections {
	return &memSections{rows: map[models.Section]*models.SectionRecord{}}
}

func (m *memSections) Upsert(ctx context.Context, section models.Section, data json.RawMessage, updatedAt time.Time) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, section)
	m.rows[section] = &models.SectionRecord{Section: section, Data: data, UpdatedAt: updatedAt}
	return nil
}

func (m *memSections) SelectAll(ctx context.Context) ([]*models.SectionRecord, error) {
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	var out []*models.SectionRecord
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Section < out[j].Section })
	return out, nil
}

func (m *memSections) Get(ctx context.Context, section models.Section) (*models.SectionRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.rows[section]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r, nil
}

func (m *memSections) put(section models.Section, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.rows[section] = &models.SectionRecord{Section: section, Data: b, UpdatedAt: fixedNow}
}

type memRepoManager struct {
	s *memSections
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Sections(db dbx.DBTX) sections.Repository  { return m.s }

// fakeBlob is an in-memory BlobStore.
type fakeBlob struct {
	objects   map[string][]byte
	types     map[string]string
	putCalls  int
	putErr    error
	deleteErr error
	listOut   []models.CloudFile
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBlob) Put(ctx context.Context, key, contentType string, data []byte) (models.UploadResult, error) {
	f.putCalls++
	if f.putErr != nil {
		return models.UploadResult{}, f.putErr
	}
	f.objects[key] = data
	f.types[key] = contentType
	return models.UploadResult{ObjectKey: key, PublicURL: "http://blob/" + key}, nil
}

func (f *fakeBlob) Get(ctx context.Context, key string) ([]byte, string, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, "", common.ErrorNotFound
	}
	return b, f.types[key], nil
}

func (f *fakeBlob) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlob) List(ctx context.Context, prefix string) ([]models.CloudFile, error) {
	if f.listOut == nil {
		return nil, errors.New("list failed")
	}
	return f.listOut, nil
}
