// Package sections stores portfolio sections, one row per section name.
package sections

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

type Repository interface {
	// Upsert writes data for section, replacing any previous value.
	Upsert(ctx context.Context, section models.Section, data json.RawMessage, updatedAt time.Time) error
	// SelectAll returns every stored section ordered by name.
	SelectAll(ctx context.Context) ([]*models.SectionRecord, error)
	// Get returns one section or common.ErrorNotFound.
	Get(ctx context.Context, section models.Section) (*models.SectionRecord, error)
}
