package services

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

// BlobStore is the bucket API the services depend on. *blobstore.Store
// implements it.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (models.UploadResult, error)
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]models.CloudFile, error)
}
