package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/filex"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
)

// FileUpload is a file received from the admin client.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// AssetService manages uploaded resumes and certificate attachments.
type AssetService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	resumes      BlobStore
	certificates BlobStore
	log          logging.Logger
	now          func() time.Time
}

func NewAssetService(db *sql.DB, m repomanager.RepositoryManager, resumes, certificates BlobStore, log logging.Logger) *AssetService {
	return &AssetService{
		db:           db,
		repomanager:  m,
		resumes:      resumes,
		certificates: certificates,
		log:          log.With("module", "assets"),
		now:          time.Now,
	}
}

// UploadResume validates f and stores it under a unique object name.
func (s *AssetService) UploadResume(ctx context.Context, f FileUpload) (models.UploadResult, error) {
	return s.upload(ctx, s.resumes, filex.ResumePolicy, f)
}

// UploadCertificate validates f and stores it in the certificates bucket.
func (s *AssetService) UploadCertificate(ctx context.Context, f FileUpload) (models.UploadResult, error) {
	return s.upload(ctx, s.certificates, filex.CertificatePolicy, f)
}

func (s *AssetService) upload(ctx context.Context, store BlobStore, policy filex.Policy, f FileUpload) (models.UploadResult, error) {
	contentType := filex.BaseType(f.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = filex.DetectContentType(f.Data)
	}

	if err := policy.Check(f.Name, contentType, int64(len(f.Data))); err != nil {
		return models.UploadResult{}, err
	}

	key := filex.UniqueObjectName(f.Name, s.now())
	res, err := store.Put(ctx, key, contentType, f.Data)
	if err != nil {
		return models.UploadResult{}, err
	}
	s.log.Info(ctx, "file uploaded", "key", key, "size", filex.FormatSize(int64(len(f.Data))))
	return res, nil
}

// DownloadResume returns the bytes and content type of a stored resume.
func (s *AssetService) DownloadResume(ctx context.Context, name string) ([]byte, string, error) {
	if name == "" {
		return nil, "", fmt.Errorf("%w: file name is required", common.ErrValidation)
	}
	data, contentType, err := s.resumes.Get(ctx, name)
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = filex.TypeByExtension(name)
	}
	return data, contentType, nil
}

// ListResumes lists the resumes bucket.
func (s *AssetService) ListResumes(ctx context.Context) ([]models.CloudFile, error) {
	return s.resumes.List(ctx, "")
}

// DeleteResume removes the stored object (when cloudFileName is given) and
// drops the record with the given id from the resumes section. A failed
// object removal is logged and the record cleanup still happens.
func (s *AssetService) DeleteResume(ctx context.Context, id, cloudFileName string) error {
	if id == "" {
		return fmt.Errorf("%w: resume id is required", common.ErrValidation)
	}

	if cloudFileName != "" {
		if err := s.resumes.Delete(ctx, cloudFileName); err != nil {
			s.log.Warn(ctx, "failed to remove storage object", "key", cloudFileName, "error", err)
		}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sections(tx)

		current := []models.Resume{}
		rec, err := repo.Get(ctx, models.SectionResumes)
		switch {
		case errors.Is(err, common.ErrorNotFound):
		case err != nil:
			return fmt.Errorf("error loading resumes: %w", err)
		default:
			current = models.NormalizeResumes(rec.Data)
		}

		kept := make([]models.Resume, 0, len(current))
		for _, r := range current {
			if r.ID != id {
				kept = append(kept, r)
			}
		}

		data, err := json.Marshal(kept)
		if err != nil {
			return err
		}
		if err := repo.Upsert(ctx, models.SectionResumes, data, s.now().UTC()); err != nil {
			return fmt.Errorf("error saving resumes: %w", err)
		}
		s.log.Info(ctx, "resume deleted", "id", id, "removed", len(current)-len(kept))
		return nil
	})
}

// DeleteCertificate removes a certificate attachment.
func (s *AssetService) DeleteCertificate(ctx context.Context, fileName string) error {
	if fileName == "" {
		return fmt.Errorf("%w: fileName is required", common.ErrValidation)
	}
	return s.certificates.Delete(ctx, fileName)
}
