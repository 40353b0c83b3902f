package client

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// LocalBackend stands in for the server when the CLI runs in local mode.
// Section writes succeed without leaving the process so that the local
// cache becomes the only store; reads report an empty remote so callers
// fall back to the cache. Blob operations fail with ErrLocalMode.
type LocalBackend struct{}

func NewLocalBackend() *LocalBackend {
	return &LocalBackend{}
}

func (LocalBackend) FetchPortfolio(context.Context) (*models.PortfolioData, error) {
	return nil, common.ErrEmptyPortfolio
}

func (LocalBackend) SaveSection(context.Context, models.Section, any) error { return nil }

func (LocalBackend) SaveAll(context.Context, *models.PortfolioData) error { return nil }

func (LocalBackend) UploadResume(context.Context, string, string, []byte) (models.UploadResult, error) {
	return models.UploadResult{}, ErrLocalMode
}

func (LocalBackend) DownloadResume(context.Context, string) ([]byte, string, error) {
	return nil, "", ErrLocalMode
}

func (LocalBackend) FetchURL(context.Context, string) ([]byte, string, error) {
	return nil, "", ErrLocalMode
}

func (LocalBackend) DeleteResume(context.Context, string, string) error { return ErrLocalMode }

func (LocalBackend) ListResumes(context.Context) ([]models.CloudFile, error) {
	return nil, ErrLocalMode
}
