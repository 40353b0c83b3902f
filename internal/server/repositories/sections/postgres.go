package sections

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or overwrites the row keyed by section. Last write wins;
// no version check is made.
func (r *PostgresRepository) Upsert(ctx context.Context, section models.Section, data json.RawMessage, updatedAt time.Time) error {
	query := `
		INSERT INTO portfolio_sections (section, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (section)
		DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at;
	`
	res, err := r.db.ExecContext(ctx, query, string(section), []byte(data), updatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.SectionRecord, error) {
	query := `SELECT section, data, updated_at FROM portfolio_sections ORDER BY section`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select sections: %w", err)
	}
	defer rows.Close()

	var result []*models.SectionRecord
	for rows.Next() {
		var (
			item models.SectionRecord
			name string
			data []byte
		)
		if err := rows.Scan(&name, &data, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.Section = models.Section(name)
		item.Data = json.RawMessage(data)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, section models.Section) (*models.SectionRecord, error) {
	query := `SELECT data, updated_at FROM portfolio_sections WHERE section = $1`

	var data []byte
	result := &models.SectionRecord{Section: section}
	err := r.db.QueryRowContext(ctx, query, string(section)).Scan(&data, &result.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select section %s: %w", section, err)
	}
	result.Data = json.RawMessage(data)
	return result, nil
}
