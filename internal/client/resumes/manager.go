// Package resumes manages resume records across the blob store and the
// resumes section of the portfolio document.
//
// A record is created either in the cloud (bytes in the blob store,
// referenced by object key or public URL) or locally (bytes inlined as a
// data URL). Local records may later be migrated to the cloud; there is no
// way back.
package resumes

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/filex"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/google/uuid"
)

// ErrNotSaved is returned when the updated resumes list could not be
// persisted.
var ErrNotSaved = errors.New("resume list could not be saved")

// DataStore is the part of the data manager the resume manager needs.
type DataStore interface {
	GetPortfolioData(ctx context.Context) *models.PortfolioData
	UpdatePortfolioSection(ctx context.Context, section models.Section, value any) bool
}

// BlobGateway reaches the resumes bucket, normally through the server.
type BlobGateway interface {
	UploadResume(ctx context.Context, name, contentType string, data []byte) (models.UploadResult, error)
	DownloadResume(ctx context.Context, key string) ([]byte, string, error)
	FetchURL(ctx context.Context, url string) ([]byte, string, error)
	DeleteResume(ctx context.Context, id, cloudFileName string) error
	ListResumes(ctx context.Context) ([]models.CloudFile, error)
}

// FileInput is a file picked for upload. An empty ContentType is guessed
// from the name and, failing that, sniffed from the content.
type FileInput struct {
	Name        string
	ContentType string
	Data        []byte
}

// ResumeUpdate carries metadata changes; nil fields are left unchanged.
type ResumeUpdate struct {
	Name        *string
	Description *string
}

type MigrationResult struct {
	SuccessCount int
	FailedCount  int
}

type Manager struct {
	data  DataStore
	blobs BlobGateway
	log   logging.Logger
	now   func() time.Time
	newID func() string
}

func NewManager(data DataStore, blobs BlobGateway, log logging.Logger) *Manager {
	return &Manager{
		data:  data,
		blobs: blobs,
		log:   log.With("module", "resumes"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// FormatFileSize renders a byte count the way records store it.
func FormatFileSize(n int64) string {
	return filex.FormatSize(n)
}

// Upload validates the file, stores it in the cloud when preferCloud is set
// (falling back to an inline local copy when that fails) and appends the
// new record to the resumes section. Invalid files are rejected with
// common.ErrValidation before anything is sent anywhere.
func (m *Manager) Upload(ctx context.Context, in FileInput, name, description string, preferCloud bool) (*models.Resume, error) {
	contentType := resolveContentType(in)
	if err := filex.ResumePolicy.Check(in.Name, contentType, int64(len(in.Data))); err != nil {
		return nil, err
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(in.Name), filepath.Ext(in.Name))
	}

	r := models.Resume{
		ID:          m.newID(),
		Name:        name,
		Description: description,
		FileName:    filepath.Base(in.Name),
		FileSize:    FormatFileSize(int64(len(in.Data))),
		FileType:    contentType,
		UploadDate:  m.now().UTC(),
	}

	if preferCloud {
		res, err := m.blobs.UploadResume(ctx, r.FileName, contentType, in.Data)
		if err == nil {
			r.StorageType = models.StorageCloud
			r.CloudFileName = res.ObjectKey
			r.CloudURL = res.PublicURL
		} else {
			m.log.Warn(ctx, "cloud upload failed, storing resume locally", "file", r.FileName, "error", err)
		}
	}
	if r.StorageType == "" {
		r.StorageType = models.StorageLocal
		r.FileData = models.EncodeDataURL(contentType, in.Data)
	}

	list := append(m.GetAll(ctx), r)
	if !m.data.UpdatePortfolioSection(ctx, models.SectionResumes, list) {
		if r.StorageType == models.StorageCloud {
			m.log.Warn(ctx, "uploaded object has no record", "key", r.CloudFileName)
		}
		return nil, fmt.Errorf("upload %s: %w", r.FileName, ErrNotSaved)
	}

	m.log.Info(ctx, "resume uploaded", "id", r.ID, "storage", r.StorageType)
	return &r, nil
}

func resolveContentType(in FileInput) string {
	ct := filex.BaseType(in.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = filex.TypeByExtension(in.Name)
	}
	if ct == "application/octet-stream" {
		ct = filex.DetectContentType(in.Data)
	}
	return ct
}

// Download resolves the record's content and writes it into dir under the
// original file name. It returns the written path.
func (m *Manager) Download(ctx context.Context, r *models.Resume, dir string) (string, error) {
	data, err := m.content(ctx, r)
	if err != nil {
		return "", err
	}

	name := r.FileName
	if name == "" {
		name = r.ID
	}
	return filex.WriteInto(dir, name, data)
}

// content picks the first available source: object key, public URL, then
// inline data.
func (m *Manager) content(ctx context.Context, r *models.Resume) ([]byte, error) {
	switch ref := r.CloudRef().(type) {
	case models.ByKey:
		data, _, err := m.blobs.DownloadResume(ctx, ref.Key)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", ref.Key, err)
		}
		return data, nil
	case models.ByURL:
		data, _, err := m.blobs.FetchURL(ctx, ref.URL)
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	if r.FileData != "" {
		_, data, err := models.DecodeDataURL(r.FileData)
		if err != nil {
			return nil, fmt.Errorf("resume %s: %w", r.ID, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("resume %s: %w", r.ID, common.ErrNoContentReference)
}

// Delete removes the resume through the server (object and record). When
// the server cannot be reached only the record is removed; a cloud object
// is then left behind.
func (m *Manager) Delete(ctx context.Context, r *models.Resume) bool {
	err := m.blobs.DeleteResume(ctx, r.ID, r.CloudFileName)
	if err == nil {
		// refresh the cached copy from the server
		m.data.GetPortfolioData(ctx)
		m.log.Info(ctx, "resume deleted", "id", r.ID)
		return true
	}

	m.log.Warn(ctx, "server delete failed, removing record only", "id", r.ID, "error", err)
	if r.StorageType == models.StorageCloud {
		m.log.Warn(ctx, "cloud object may be orphaned", "id", r.ID, "key", r.CloudFileName, "url", r.CloudURL)
	}

	all := m.GetAll(ctx)
	kept := make([]models.Resume, 0, len(all))
	for _, x := range all {
		if x.ID != r.ID {
			kept = append(kept, x)
		}
	}
	if !m.data.UpdatePortfolioSection(ctx, models.SectionResumes, kept) {
		m.log.Error(ctx, "failed to delete resume", "id", r.ID)
		return false
	}
	return true
}

// Update changes the name or description of the record with the given id.
func (m *Manager) Update(ctx context.Context, id string, upd ResumeUpdate) bool {
	all := m.GetAll(ctx)
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if upd.Name != nil {
			all[i].Name = *upd.Name
		}
		if upd.Description != nil {
			all[i].Description = *upd.Description
		}
		return m.data.UpdatePortfolioSection(ctx, models.SectionResumes, all)
	}

	m.log.Warn(ctx, "resume not found", "id", id)
	return false
}

// GetAll returns the current records. The result is never nil.
func (m *Manager) GetAll(ctx context.Context) []models.Resume {
	data := m.data.GetPortfolioData(ctx)
	if data == nil || len(data.Resumes) == 0 {
		return []models.Resume{}
	}
	out := make([]models.Resume, len(data.Resumes))
	copy(out, data.Resumes)
	return out
}

func (m *Manager) GetByID(ctx context.Context, id string) (*models.Resume, bool) {
	for _, r := range m.GetAll(ctx) {
		if r.ID == id {
			return &r, true
		}
	}
	return nil, false
}
