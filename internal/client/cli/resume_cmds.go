package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dmitrijs2005/portfolio/internal/client/client"
	"github.com/dmitrijs2005/portfolio/internal/client/resumes"
	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// Resumes lists the resume records.
func (a *App) Resumes(ctx context.Context, _ []string) error {
	list := a.resumes.GetAll(ctx)
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No resumes")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFILE\tSIZE\tSTORAGE\tUPLOADED")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.FileName, r.FileSize, r.StorageType, humanTime(r.UploadDate))
	}
	return tw.Flush()
}

// Upload reads a file from disk and stores it as a new resume. Cloud storage
// is tried unless the CLI runs in local mode.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("upload <path>")
	}
	path := args[0]

	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.Size() > common.MaxResumeSize {
		return fmt.Errorf("%w: %w", common.ErrValidation, common.ErrFileTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Display name (empty for the file name)", a.out)
	if err != nil {
		return err
	}
	desc, err := getSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}

	in := resumes.FileInput{Name: filepath.Base(path), Data: data}
	r, err := a.resumes.Upload(ctx, in, name, desc, a.getMode() != ModeLocal)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %s (%s, %s storage)\n", r.ID, r.FileSize, r.StorageType)
	return nil
}

func (a *App) lookupResume(ctx context.Context, id string) (*models.Resume, error) {
	r, ok := a.resumes.GetByID(ctx, id)
	if !ok {
		return nil, fmt.Errorf("resume %s: %w", id, common.ErrResumeNotFound)
	}
	return r, nil
}

// Download saves a resume's file into dir (default ".").
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("download <id> [dir]")
	}
	r, err := a.lookupResume(ctx, args[0])
	if err != nil {
		return err
	}
	dir := "."
	if len(args) == 2 {
		dir = args[1]
	}

	path, err := a.resumes.Download(ctx, r, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <id>")
	}
	r, err := a.lookupResume(ctx, args[0])
	if err != nil {
		return err
	}
	if !confirm(a.reader, fmt.Sprintf("Delete %q?", r.Name), a.out) {
		return errCancelled
	}
	if !a.resumes.Delete(ctx, r) {
		return errNotSaved
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// Rename changes the name and description; an empty answer keeps the
// current value.
func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("rename <id>")
	}
	r, err := a.lookupResume(ctx, args[0])
	if err != nil {
		return err
	}

	var upd resumes.ResumeUpdate
	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", r.Name), a.out)
	if err != nil {
		return err
	}
	if name != "" {
		upd.Name = &name
	}
	desc, err := getSimpleText(a.reader, fmt.Sprintf("Description [%s]", r.Description), a.out)
	if err != nil {
		return err
	}
	if desc != "" {
		upd.Description = &desc
	}
	if upd.Name == nil && upd.Description == nil {
		return nil
	}

	if !a.resumes.Update(ctx, r.ID, upd) {
		return errNotSaved
	}
	return nil
}

func (a *App) Migrate(ctx context.Context, _ []string) error {
	if a.getMode() == ModeLocal {
		return fmt.Errorf("migrate: %w", client.ErrLocalMode)
	}
	res := a.resumes.MigrateToCloud(ctx)
	fmt.Fprintf(a.out, "Migrated %d, failed %d\n", res.SuccessCount, res.FailedCount)
	return nil
}

func (a *App) SyncCloud(ctx context.Context, _ []string) error {
	if a.getMode() == ModeLocal {
		return fmt.Errorf("synccloud: %w", client.ErrLocalMode)
	}
	n, err := a.resumes.SyncCloudFiles(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d file(s) from cloud storage\n", n)
	return nil
}
