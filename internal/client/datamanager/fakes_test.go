package datamanager

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// fakeRemote behaves like the server: section writes replace one section,
// bulk writes replace every section except resumes.
type fakeRemote struct {
	mu  sync.Mutex
	doc *models.PortfolioData

	fetchErr error
	saveErr  error

	fetchCalls   int
	saveCalls    int
	saveAllCalls int
}

func clone(t testing.TB, d *models.PortfolioData) *models.PortfolioData {
	t.Helper()
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out models.PortfolioData
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &out
}

func (f *fakeRemote) FetchPortfolio(context.Context) (*models.PortfolioData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.doc == nil {
		return nil, common.ErrEmptyPortfolio
	}
	b, _ := json.Marshal(f.doc)
	var out models.PortfolioData
	_ = json.Unmarshal(b, &out)
	return &out, nil
}

func (f *fakeRemote) SaveSection(_ context.Context, section models.Section, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.doc == nil {
		f.doc = &models.PortfolioData{Resumes: []models.Resume{}}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return f.doc.SetSection(section, raw)
}

func (f *fakeRemote) SaveAll(_ context.Context, data *models.PortfolioData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveAllCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	var resumes []models.Resume
	if f.doc != nil {
		resumes = f.doc.Resumes
	}
	b, _ := json.Marshal(data)
	var next models.PortfolioData
	_ = json.Unmarshal(b, &next)
	next.Resumes = resumes
	if next.Resumes == nil {
		next.Resumes = []models.Resume{}
	}
	f.doc = &next
	return nil
}

type memCache struct {
	mu     sync.Mutex
	m      map[string][]byte
	getErr error
	setErr error
}

func newMemCache() *memCache { return &memCache{m: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.m[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.m[key] = append([]byte(nil), value...)
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func (c *memCache) UpdatedAt(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

func (c *memCache) List(context.Context) (map[string][]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]byte, len(c.m))
	for k, v := range c.m {
		out[k] = v
	}
	return out, nil
}

func (c *memCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = map[string][]byte{}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[key]
	return ok
}

func (c *memCache) doc(t *testing.T) *models.PortfolioData {
	t.Helper()
	c.mu.Lock()
	raw := c.m[CacheKey]
	c.mu.Unlock()
	if raw == nil {
		t.Fatalf("cache has no %s entry", CacheKey)
	}
	d, err := decodeDocument(raw)
	if err != nil {
		t.Fatalf("cached document: %v", err)
	}
	return d
}

func newTestManager(t *testing.T, remote RemoteStore, c *memCache) (*Manager, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	m := NewManager(remote, c, logging.NewTextLogger(&buf, slog.LevelDebug))
	m.now = func() time.Time { return fixedNow }
	return m, &buf
}

func newDiscardLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
