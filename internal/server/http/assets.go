package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

// multipartOverhead is allowed on top of the file size limit for form
// boundaries and headers.
const multipartOverhead = 1 << 20

// readUpload extracts the "file" part of a multipart request.
func readUpload(w http.ResponseWriter, r *http.Request, maxSize int64) (services.FileUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.FileUpload{}, fmt.Errorf("%w: %w", common.ErrValidation, common.ErrFileTooLarge)
		}
		return services.FileUpload{}, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return services.FileUpload{}, fmt.Errorf("%w: No file provided", common.ErrValidation)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.FileUpload{}, err
	}
	return services.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// UploadResume handles POST /api/resumes/upload.
func (h *Handler) UploadResume(w http.ResponseWriter, r *http.Request) {
	f, err := readUpload(w, r, common.MaxResumeSize)
	if err != nil {
		h.fail(w, r, err, "Upload failed")
		return
	}
	res, err := h.Assets.UploadResume(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "Upload failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":   true,
		"objectKey": res.ObjectKey,
		"publicUrl": res.PublicURL,
	})
}

// DownloadResume handles GET /api/resumes/download?name=.
func (h *Handler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	data, contentType, err := h.Assets.DownloadResume(r.Context(), name)
	if err != nil {
		h.fail(w, r, err, "Download failed")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListResumes handles GET /api/resumes/list.
func (h *Handler) ListResumes(w http.ResponseWriter, r *http.Request) {
	files, err := h.Assets.ListResumes(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list files")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "files": files, "total": len(files)})
}

type deleteResumeRequest struct {
	ID            string `json:"id"`
	CloudFileName string `json:"cloudFileName"`
}

// DeleteResume handles POST /api/resumes/delete.
func (h *Handler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	var req deleteResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Missing resume id")
		return
	}
	if err := h.Assets.DeleteResume(r.Context(), req.ID, req.CloudFileName); err != nil {
		h.fail(w, r, err, "Delete failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}

// UploadCertificate handles POST /api/upload/certificate.
func (h *Handler) UploadCertificate(w http.ResponseWriter, r *http.Request) {
	f, err := readUpload(w, r, common.MaxCertificateSize)
	if err != nil {
		h.fail(w, r, err, "Upload failed")
		return
	}
	res, err := h.Assets.UploadCertificate(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "Upload failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":   true,
		"fileName":  res.ObjectKey,
		"publicUrl": res.PublicURL,
	})
}

type deleteCertificateRequest struct {
	FileName string `json:"fileName"`
}

// DeleteCertificate handles POST /api/upload/certificate/delete.
func (h *Handler) DeleteCertificate(w http.ResponseWriter, r *http.Request) {
	var req deleteCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "fileName is required")
		return
	}
	if err := h.Assets.DeleteCertificate(r.Context(), req.FileName); err != nil {
		h.fail(w, r, err, "Delete failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}
