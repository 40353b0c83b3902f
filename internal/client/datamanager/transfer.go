package datamanager

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/filex"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var backupSchema []byte

// maxImportSize bounds the backup file read by ImportData.
const maxImportSize = 32 << 20

var schemaLoader = gojsonschema.NewBytesLoader(backupSchema)

// BackupFileName is the export file name for the given day.
func BackupFileName(day string) string {
	return fmt.Sprintf("portfolio_backup_%s.json", day)
}

// ExportData writes the current document as indented JSON into dir and
// returns the file path, or "" when the export failed.
func (m *Manager) ExportData(ctx context.Context, dir string) string {
	data := m.GetPortfolioData(ctx)

	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		m.log.Error(ctx, "export failed", "error", err)
		return ""
	}

	path, err := filex.WriteInto(dir, BackupFileName(m.now().Format("2006-01-02")), body)
	if err != nil {
		m.log.Error(ctx, "export failed", "error", err)
		return ""
	}

	m.log.Info(ctx, "portfolio exported", "path", path)
	return path
}

// ImportData replaces the remote document with the backup read from r. The
// backup is schema-checked first; the cache is updated only after the
// remote write succeeded.
func (m *Manager) ImportData(ctx context.Context, r io.Reader) bool {
	raw, err := io.ReadAll(io.LimitReader(r, maxImportSize))
	if err != nil {
		m.log.Error(ctx, "import failed", "error", err)
		return false
	}

	if err := validateBackup(raw); err != nil {
		m.log.Error(ctx, "import failed", "error", err)
		return false
	}

	data, err := decodeDocument(raw)
	if err == nil {
		err = data.ValidateIdentifiers()
	}
	if err != nil {
		m.log.Error(ctx, "import failed", "error", err)
		return false
	}

	if err := m.remote.SaveAll(ctx, data); err != nil {
		m.log.Error(ctx, "import failed", "error", err)
		return false
	}

	m.cacheMu.Lock()
	err = m.writeCache(ctx, data)
	m.cacheMu.Unlock()
	if err != nil {
		m.log.Warn(ctx, "cache backup update failed", "error", err)
	}

	m.notify(Event{Timestamp: m.now().UTC()})
	m.log.Info(ctx, "portfolio imported")
	return true
}

func validateBackup(raw []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: schema validation failed: %s", common.ErrValidation, strings.Join(msgs, "; "))
}
