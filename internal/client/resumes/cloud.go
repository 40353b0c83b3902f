package resumes

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/filex"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// importedDescription marks records created from a bucket listing.
const importedDescription = "Imported from cloud storage"

// MigrateToCloud re-uploads every local record that carries inline content
// and rewrites it as a cloud record. Each record is migrated and persisted
// on its own; failures are counted and skipped.
func (m *Manager) MigrateToCloud(ctx context.Context) MigrationResult {
	var res MigrationResult

	all := m.GetAll(ctx)
	for i := range all {
		r := all[i]
		if r.StorageType != models.StorageLocal || r.FileData == "" {
			continue
		}

		if err := m.migrate(ctx, all, i); err != nil {
			m.log.Error(ctx, "failed to migrate resume", "id", r.ID, "error", err)
			all[i] = r
			res.FailedCount++
			continue
		}
		res.SuccessCount++
	}

	m.log.Info(ctx, "migration finished", "migrated", res.SuccessCount, "failed", res.FailedCount)
	return res
}

func (m *Manager) migrate(ctx context.Context, all []models.Resume, i int) error {
	r := &all[i]

	mime, data, err := models.DecodeDataURL(r.FileData)
	if err != nil {
		return err
	}
	contentType := r.FileType
	if contentType == "" {
		contentType = mime
	}

	up, err := m.blobs.UploadResume(ctx, r.FileName, contentType, data)
	if err != nil {
		return err
	}

	r.StorageType = models.StorageCloud
	r.CloudFileName = up.ObjectKey
	r.CloudURL = up.PublicURL
	r.FileData = ""

	if !m.data.UpdatePortfolioSection(ctx, models.SectionResumes, all) {
		m.log.Warn(ctx, "uploaded object has no record", "key", up.ObjectKey)
		return ErrNotSaved
	}
	return nil
}

// UploadFromCloud records an object that already exists in the bucket,
// using only its listing metadata.
func (m *Manager) UploadFromCloud(ctx context.Context, f models.CloudFile) (*models.Resume, error) {
	r := m.fromCloudFile(f)

	list := append(m.GetAll(ctx), r)
	if !m.data.UpdatePortfolioSection(ctx, models.SectionResumes, list) {
		return nil, fmt.Errorf("import %s: %w", f.Name, ErrNotSaved)
	}
	return &r, nil
}

// SyncCloudFiles imports every listed object that no record references
// yet, by object key or public URL. It returns the number imported.
func (m *Manager) SyncCloudFiles(ctx context.Context) (int, error) {
	files, err := m.blobs.ListResumes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list cloud files: %w", err)
	}

	all := m.GetAll(ctx)
	known := make(map[string]struct{}, 2*len(all))
	for _, r := range all {
		if r.CloudFileName != "" {
			known[r.CloudFileName] = struct{}{}
		}
		if r.CloudURL != "" {
			known[r.CloudURL] = struct{}{}
		}
	}

	added := 0
	for _, f := range files {
		_, byName := known[f.Name]
		_, byURL := known[f.PublicURL]
		if byName || (f.PublicURL != "" && byURL) {
			continue
		}
		all = append(all, m.fromCloudFile(f))
		known[f.Name] = struct{}{}
		added++
	}
	if added == 0 {
		return 0, nil
	}

	if !m.data.UpdatePortfolioSection(ctx, models.SectionResumes, all) {
		return 0, fmt.Errorf("sync cloud files: %w", ErrNotSaved)
	}
	m.log.Info(ctx, "cloud files imported", "count", added)
	return added, nil
}

func (m *Manager) fromCloudFile(f models.CloudFile) models.Resume {
	uploaded := f.CreatedAt
	if uploaded.IsZero() {
		uploaded = m.now()
	}
	fileType := filex.BaseType(f.MimeType)
	if fileType == "" {
		fileType = filex.TypeByExtension(f.Name)
	}

	return models.Resume{
		ID:          m.newID(),
		Name:        strings.TrimSuffix(f.Name, filepath.Ext(f.Name)),
		Description: importedDescription,
		FileName:    f.Name,
		FileSize:    FormatFileSize(f.Size),
		FileType:    fileType,
		UploadDate:  uploaded.UTC(),
		StorageType: models.StorageCloud,
		CloudURL:    f.PublicURL,
	}
}
