package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

// maxSectionSize caps the JSON body of a write to any section but resumes.
const maxSectionSize = 8 << 20

// maxInlineResumes is how many full-size resumes embedded as base64 data
// URLs a resumes section write must still fit.
const maxInlineResumes = 4

// maxResumesSize caps writes that may carry the resumes section. Inline
// files grow by 4/3 when base64 encoded; multipartOverhead covers the
// record metadata around them.
const maxResumesSize = maxInlineResumes*((common.MaxResumeSize+2)/3*4) + multipartOverhead

var errBodyTooLarge = errors.New("request body too large")

func sectionLimit(s models.Section) int64 {
	if s == models.SectionResumes {
		return maxResumesSize
	}
	return maxSectionSize
}

// readBody reads at most limit bytes of the request body and answers 413
// itself when the body is longer.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge.Error())
			return nil, errBodyTooLarge
		}
		writeError(w, http.StatusBadRequest, "invalid request")
		return nil, err
	}
	return body, nil
}

// GetPortfolioData handles GET /api/portfolio/data.
func (h *Handler) GetPortfolioData(w http.ResponseWriter, r *http.Request) {
	data, err := h.Portfolio.GetData(r.Context())
	if errors.Is(err, common.ErrEmptyPortfolio) {
		writeError(w, http.StatusNotFound, "No portfolio data found")
		return
	}
	if err != nil {
		h.fail(w, r, err, "Failed to fetch portfolio data")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "data": data})
}

type saveRequest struct {
	Section string          `json:"section,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// SavePortfolioData handles POST /api/portfolio/data. With a section field
// only that section is written; otherwise every bulk section in data is.
func (h *Handler) SavePortfolioData(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxResumesSize)
	if err != nil {
		return
	}
	var req saveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	if req.Section != "" {
		section, err := models.ParseSection(req.Section)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if int64(len(body)) > sectionLimit(section) {
			writeError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge.Error())
			return
		}
		if err := h.Portfolio.SaveSection(r.Context(), section, req.Data); err != nil {
			h.fail(w, r, err, "Failed to update portfolio section")
			return
		}
		writeJSON(w, http.StatusOK, envelope{"success": true})
		return
	}

	var document map[string]json.RawMessage
	if err := json.Unmarshal(req.Data, &document); err != nil {
		writeError(w, http.StatusBadRequest, "data must be an object")
		return
	}
	n, err := h.Portfolio.SaveAll(r.Context(), document)
	if err != nil {
		h.fail(w, r, err, "Failed to update portfolio data")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "updated": n})
}

// SaveSection handles POST /api/portfolio/sections?section=X. The body is
// the section value itself.
func (h *Handler) SaveSection(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("section")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Section parameter is required")
		return
	}
	section, err := models.ParseSection(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := readBody(w, r, sectionLimit(section))
	if err != nil {
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Portfolio.SaveSection(r.Context(), section, body); err != nil {
		h.fail(w, r, err, "Failed to update portfolio section")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}
