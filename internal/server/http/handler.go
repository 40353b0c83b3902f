// Package http exposes the portfolio services over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

// PortfolioService is the section storage used by the handlers.
type PortfolioService interface {
	GetData(ctx context.Context) (*models.PortfolioData, error)
	SaveSection(ctx context.Context, section models.Section, raw json.RawMessage) error
	SaveAll(ctx context.Context, document map[string]json.RawMessage) (int, error)
}

// AssetService handles resume and certificate files.
type AssetService interface {
	UploadResume(ctx context.Context, f services.FileUpload) (models.UploadResult, error)
	UploadCertificate(ctx context.Context, f services.FileUpload) (models.UploadResult, error)
	DownloadResume(ctx context.Context, name string) ([]byte, string, error)
	ListResumes(ctx context.Context) ([]models.CloudFile, error)
	DeleteResume(ctx context.Context, id, cloudFileName string) error
	DeleteCertificate(ctx context.Context, fileName string) error
}

// AuthService checks the admin password and session tokens.
type AuthService interface {
	Login(ctx context.Context, password string) (*services.Session, error)
	Verify(token string) (*auth.Claims, error)
}

// Pinger reports database reachability; *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the JSON API.
type Handler struct {
	Portfolio PortfolioService
	Assets    AssetService
	Auth      AuthService
	DB        Pinger
	Log       logging.Logger
}

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"success": false, "error": msg})
}

// fail logs err and writes the matching status code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Log.Error(r.Context(), msg, "path", r.URL.Path, "error", err)
		writeError(w, status, msg)
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrUnknownSection):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrEmptyPortfolio):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Health answers with 200 while the database is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		h.Log.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{"status": "ok"})
}
