package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dustin/go-humanize"
)

var (
	errNotSaved     = errors.New("changes were not saved")
	errExportFailed = errors.New("export failed, see log for details")
	errImportFailed = errors.New("backup rejected, see log for details")
	errCancelled    = errors.New("cancelled")
)

func usage(text string) error {
	return fmt.Errorf("usage: %s", text)
}

func humanTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// Show prints one section as indented JSON, or a one-line summary of every
// section when no name is given.
func (a *App) Show(ctx context.Context, args []string) error {
	data := a.data.GetPortfolioData(ctx)

	if len(args) == 0 {
		fmt.Fprintf(a.out, "%s, %s (updated %s)\n", data.PersonalInfo.Name, data.PersonalInfo.Title, humanTime(data.LastUpdated))
		for _, s := range models.Sections()[1:] {
			v, _ := data.SectionValue(s)
			fmt.Fprintf(a.out, "  %-16s %d\n", s, itemCount(v))
		}
		return nil
	}

	s, err := models.ParseSection(args[0])
	if err != nil {
		return err
	}
	v, err := data.SectionValue(s)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}

func itemCount(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len()
	}
	return 1
}

// Edit replaces a whole section. Quick facts are entered as name=value
// lines, every other section as JSON. Resumes have their own commands.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("edit <section>")
	}
	s, err := models.ParseSection(args[0])
	if err != nil {
		return err
	}
	if s == models.SectionResumes {
		return errors.New("resumes are changed with upload, rename and delete")
	}

	var value any
	if s == models.SectionQuickFacts {
		facts, err := GetKeyValues(a.reader, a.out)
		if err != nil {
			return err
		}
		value = facts
	} else {
		text, err := GetMultiline(a.reader, fmt.Sprintf("Enter the new %s as JSON", s), a.out)
		if err != nil {
			return err
		}
		if text == "" {
			return errCancelled
		}
		raw := json.RawMessage(text)
		var probe models.PortfolioData
		if err := probe.SetSection(s, raw); err != nil {
			return err
		}
		value = raw
	}

	if !a.data.UpdatePortfolioSection(ctx, s, value) {
		return errNotSaved
	}
	return nil
}

// Export writes a dated backup into the given directory (default ".").
func (a *App) Export(ctx context.Context, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	path := a.data.ExportData(ctx, dir)
	if path == "" {
		return errExportFailed
	}
	fmt.Fprintf(a.out, "Exported to %s\n", path)
	return nil
}

// Import replaces every section with the contents of a backup file.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("import <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if !confirm(a.reader, "This replaces all portfolio data. Continue?", a.out) {
		return errCancelled
	}
	if !a.data.ImportData(ctx, f) {
		return errImportFailed
	}
	fmt.Fprintln(a.out, "Import complete")
	return nil
}

// Reset restores the built-in defaults after confirmation.
func (a *App) Reset(ctx context.Context, _ []string) error {
	if !confirm(a.reader, "Reset all portfolio data to defaults?", a.out) {
		return errCancelled
	}
	if !a.data.ResetToDefaults(ctx) {
		return errNotSaved
	}
	fmt.Fprintln(a.out, "Portfolio data reset to defaults")
	return nil
}
