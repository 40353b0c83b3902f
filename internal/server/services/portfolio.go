// Package services contains server-side business logic: portfolio sections,
// uploaded assets and admin authentication.
package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
)

// PortfolioService reads and writes portfolio sections.
type PortfolioService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewPortfolioService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *PortfolioService {
	return &PortfolioService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "portfolio"),
		now:         time.Now,
	}
}

// GetData assembles the stored sections into PortfolioData. It returns
// common.ErrEmptyPortfolio when nothing has been stored yet. Rows that
// cannot be decoded are logged and skipped.
func (s *PortfolioService) GetData(ctx context.Context) (*models.PortfolioData, error) {
	records, err := s.repomanager.Sections(s.db).SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error selecting sections: %w", err)
	}
	if len(records) == 0 {
		return nil, common.ErrEmptyPortfolio
	}

	data, err := models.FromRecords(records)
	if err != nil {
		s.log.Warn(ctx, "some sections could not be decoded", "error", err)
	}
	return data, nil
}

// SaveSection replaces one section. The payload is decoded into the typed
// model first, so malformed input is rejected with common.ErrValidation and
// nothing is written.
func (s *PortfolioService) SaveSection(ctx context.Context, section models.Section, raw json.RawMessage) error {
	data, err := canonicalSection(section, raw)
	if err != nil {
		return err
	}

	if err := s.repomanager.Sections(s.db).Upsert(ctx, section, data, s.now().UTC()); err != nil {
		return fmt.Errorf("error saving section %s: %w", section, err)
	}
	s.log.Info(ctx, "section saved", "section", section, "bytes", len(data))
	return nil
}

// SaveAll writes every bulk section present in the document in a single
// transaction and returns how many were written. Missing and null sections
// are left untouched; resumes are never bulk-written.
func (s *PortfolioService) SaveAll(ctx context.Context, document map[string]json.RawMessage) (int, error) {
	type pending struct {
		section models.Section
		data    json.RawMessage
	}

	var updates []pending
	for _, section := range models.BulkSections() {
		raw, ok := document[string(section)]
		if !ok || isNull(raw) {
			continue
		}
		data, err := canonicalSection(section, raw)
		if err != nil {
			return 0, err
		}
		updates = append(updates, pending{section: section, data: data})
	}
	if len(updates) == 0 {
		return 0, nil
	}

	updatedAt := s.now().UTC()
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sections(tx)
		for _, u := range updates {
			if err := repo.Upsert(ctx, u.section, u.data, updatedAt); err != nil {
				return fmt.Errorf("error saving section %s: %w", u.section, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "portfolio saved", "sections", len(updates))
	return len(updates), nil
}

// canonicalSection validates raw against the typed model and re-encodes it.
func canonicalSection(section models.Section, raw json.RawMessage) (json.RawMessage, error) {
	if section == models.SectionResumes {
		if _, err := models.DecodeResumes(raw); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
		}
	}

	var p models.PortfolioData
	if err := p.SetSection(section, raw); err != nil {
		if errors.Is(err, common.ErrUnknownSection) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	if err := p.ValidateIdentifiers(); err != nil {
		return nil, err
	}
	return p.SectionJSON(section)
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
