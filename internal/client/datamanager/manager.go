package datamanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/repositories/cache"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// CacheKey is the cache entry holding the last known portfolio document.
const CacheKey = "portfolio_data"

// RemoteStore is the structured data store behind the manager: the server
// API, or a local-only stand-in.
type RemoteStore interface {
	FetchPortfolio(ctx context.Context) (*models.PortfolioData, error)
	SaveSection(ctx context.Context, section models.Section, value any) error
	SaveAll(ctx context.Context, data *models.PortfolioData) error
}

type Manager struct {
	remote RemoteStore
	cache  cache.Repository
	log    logging.Logger
	now    func() time.Time

	// cacheMu serializes read-modify-write cycles on the cached document.
	cacheMu sync.Mutex

	subMu  sync.RWMutex
	subs   map[uint64]func(Event)
	nextID uint64
}

func NewManager(remote RemoteStore, repo cache.Repository, log logging.Logger) *Manager {
	return &Manager{
		remote: remote,
		cache:  repo,
		log:    log.With("module", "datamanager"),
		now:    time.Now,
		subs:   make(map[uint64]func(Event)),
	}
}

// GetDefaultData is a convenience wrapper around the package function.
func (m *Manager) GetDefaultData() *models.PortfolioData {
	return defaultData(m.now())
}

type tier struct {
	name string
	read func(ctx context.Context) (*models.PortfolioData, error)
}

// GetPortfolioData reads the document from the first tier that has one:
// remote store, then cache, then the seeded defaults. It never fails.
func (m *Manager) GetPortfolioData(ctx context.Context) *models.PortfolioData {
	tiers := []tier{
		{name: "remote", read: m.readRemote},
		{name: "cache", read: m.readCache},
	}

	for _, t := range tiers {
		data, err := t.read(ctx)
		if err != nil {
			m.log.Warn(ctx, "portfolio tier unavailable", "tier", t.name, "error", err)
			continue
		}
		if data == nil || data.IsEmpty() {
			continue
		}
		m.log.Info(ctx, "portfolio loaded", "tier", t.name)
		return data
	}

	m.log.Warn(ctx, "using default portfolio data")
	return m.GetDefaultData()
}

// GetPortfolioDataSync reads only the local cache and falls back to
// defaults when it is absent or corrupt.
func (m *Manager) GetPortfolioDataSync(ctx context.Context) *models.PortfolioData {
	data, err := m.readCache(ctx)
	if err != nil {
		m.log.Warn(ctx, "cached portfolio unreadable", "error", err)
	}
	if data == nil {
		return m.GetDefaultData()
	}
	return data
}

func (m *Manager) readRemote(ctx context.Context) (*models.PortfolioData, error) {
	data, err := m.remote.FetchPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil || data.IsEmpty() {
		return nil, nil
	}
	normalize(data)

	m.cacheMu.Lock()
	err = m.writeCache(ctx, data)
	m.cacheMu.Unlock()
	if err != nil {
		m.log.Warn(ctx, "cache backup update failed", "error", err)
	}
	return data, nil
}

func (m *Manager) readCache(ctx context.Context) (*models.PortfolioData, error) {
	raw, err := m.cache.Get(ctx, CacheKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return decodeDocument(raw)
}

func (m *Manager) writeCache(ctx context.Context, data *models.PortfolioData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return m.cache.Set(ctx, CacheKey, raw)
}

// UpdatePortfolioSection writes one section to the remote store. Only on
// success is the cached copy updated and subscribers notified.
func (m *Manager) UpdatePortfolioSection(ctx context.Context, section models.Section, value any) bool {
	if _, err := models.ParseSection(string(section)); err != nil {
		m.log.Error(ctx, "section update rejected", "section", section, "error", err)
		return false
	}

	if err := m.remote.SaveSection(ctx, section, value); err != nil {
		m.log.Error(ctx, "failed to update section", "section", section, "error", err)
		return false
	}

	if err := m.mirrorSection(ctx, section, value); err != nil {
		m.log.Warn(ctx, "cache backup update failed", "section", section, "error", err)
	}

	m.notify(Event{Section: section, Timestamp: m.now().UTC()})
	m.log.Info(ctx, "section updated", "section", section)
	return true
}

// mirrorSection replaces section in the cached document. A missing or
// corrupt cache is seeded with defaults first.
func (m *Manager) mirrorSection(ctx context.Context, section models.Section, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode section: %w", err)
	}

	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	doc, err := m.readCache(ctx)
	if err != nil || doc == nil {
		doc = m.GetDefaultData()
	}
	if err := doc.SetSection(section, raw); err != nil {
		return err
	}
	doc.LastUpdated = m.now().UTC()

	return m.writeCache(ctx, doc)
}

// ResetToDefaults overwrites the remote document with the seeded defaults
// and drops the cached copy.
func (m *Manager) ResetToDefaults(ctx context.Context) bool {
	if err := m.remote.SaveAll(ctx, m.GetDefaultData()); err != nil {
		m.log.Error(ctx, "reset to defaults failed", "error", err)
		return false
	}

	m.cacheMu.Lock()
	err := m.cache.Delete(ctx, CacheKey)
	m.cacheMu.Unlock()
	if err != nil {
		m.log.Warn(ctx, "failed to clear cached portfolio", "error", err)
	}

	m.notify(Event{Timestamp: m.now().UTC()})
	return true
}

// decodeDocument parses a cached or imported document section by section,
// so resumes in the legacy wrapped shape are accepted. Unknown keys are
// ignored.
func decodeDocument(raw []byte) (*models.PortfolioData, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode portfolio: %w", err)
	}
	if fields == nil {
		return nil, errors.New("decode portfolio: not an object")
	}

	data := &models.PortfolioData{}
	for key, value := range fields {
		if key == "lastUpdated" {
			_ = json.Unmarshal(value, &data.LastUpdated)
			continue
		}
		section, err := models.ParseSection(key)
		if err != nil {
			continue
		}
		if err := data.SetSection(section, value); err != nil {
			return nil, err
		}
	}
	normalize(data)
	return data, nil
}

func normalize(data *models.PortfolioData) {
	if data.Resumes == nil {
		data.Resumes = []models.Resume{}
	}
}
