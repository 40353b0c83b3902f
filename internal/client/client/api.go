package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/dmitrijs2005/portfolio/internal/netx"
)

// APIClient talks to the portfolio server's JSON API. It keeps the admin
// session token obtained by Login and attaches it to every admin call.
type APIClient struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// apiResponse is the union of the server's response envelopes.
type apiResponse struct {
	Success   bool               `json:"success"`
	Error     string             `json:"error,omitempty"`
	Data      json.RawMessage    `json:"data,omitempty"`
	Token     string             `json:"token,omitempty"`
	ExpiresAt time.Time          `json:"expiresAt,omitempty"`
	ObjectKey string             `json:"objectKey,omitempty"`
	FileName  string             `json:"fileName,omitempty"`
	PublicURL string             `json:"publicUrl,omitempty"`
	Files     []models.CloudFile `json:"files,omitempty"`
	Updated   int                `json:"updated,omitempty"`
}

// Login exchanges the admin password for a session token.
func (c *APIClient) Login(ctx context.Context, password string) (time.Time, error) {
	var resp apiResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth", map[string]string{"password": password}, &resp); err != nil {
		return time.Time{}, err
	}
	if resp.Token == "" {
		return time.Time{}, fmt.Errorf("login: empty token in response")
	}

	c.mu.Lock()
	c.accessToken = resp.Token
	c.expiresAt = resp.ExpiresAt
	c.mu.Unlock()

	return resp.ExpiresAt, nil
}

// Authenticated reports whether a non-expired session token is held.
func (c *APIClient) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != "" && (c.expiresAt.IsZero() || time.Now().Before(c.expiresAt))
}

func (c *APIClient) Logout() {
	c.mu.Lock()
	c.accessToken = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

// FetchPortfolio returns the stored document. An empty store yields
// common.ErrEmptyPortfolio.
func (c *APIClient) FetchPortfolio(ctx context.Context) (*models.PortfolioData, error) {
	var resp apiResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/portfolio/data", nil, &resp)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrEmptyPortfolio
	}
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, common.ErrEmptyPortfolio
	}

	var data models.PortfolioData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("decode portfolio: %w", err)
	}
	if data.Resumes == nil {
		data.Resumes = []models.Resume{}
	}
	return &data, nil
}

// SaveSection upserts a single section.
func (c *APIClient) SaveSection(ctx context.Context, section models.Section, value any) error {
	path := "/api/portfolio/sections?" + url.Values{"section": {string(section)}}.Encode()
	return c.doJSON(ctx, http.MethodPost, path, value, nil)
}

// SaveAll writes every bulk section of data in one request.
func (c *APIClient) SaveAll(ctx context.Context, data *models.PortfolioData) error {
	return c.doJSON(ctx, http.MethodPost, "/api/portfolio/data", map[string]any{"data": data}, nil)
}

// UploadResume stores a resume file in the cloud bucket.
func (c *APIClient) UploadResume(ctx context.Context, name, contentType string, data []byte) (models.UploadResult, error) {
	var resp apiResponse
	if err := c.doMultipart(ctx, "/api/resumes/upload", name, contentType, data, &resp); err != nil {
		return models.UploadResult{}, err
	}
	if resp.ObjectKey == "" {
		return models.UploadResult{}, fmt.Errorf("upload: empty object key in response")
	}
	return models.UploadResult{ObjectKey: resp.ObjectKey, PublicURL: resp.PublicURL}, nil
}

// DownloadResume fetches a stored resume object by key.
func (c *APIClient) DownloadResume(ctx context.Context, key string) ([]byte, string, error) {
	path := "/api/resumes/download?" + url.Values{"name": {key}}.Encode()

	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, common.MaxResumeSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(data) > common.MaxResumeSize {
		return nil, "", fmt.Errorf("download %s: %w", key, netx.ErrTooLarge)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// FetchURL downloads a public object URL directly from the blob store.
func (c *APIClient) FetchURL(ctx context.Context, rawURL string) ([]byte, string, error) {
	data, ct, err := netx.Download(ctx, c.http, rawURL, common.MaxResumeSize)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return data, ct, nil
}

// DeleteResume removes the cloud object and the matching record server-side.
func (c *APIClient) DeleteResume(ctx context.Context, id, cloudFileName string) error {
	body := map[string]string{"id": id, "cloudFileName": cloudFileName}
	return c.doJSON(ctx, http.MethodPost, "/api/resumes/delete", body, nil)
}

// ListResumes lists the objects of the resumes bucket.
func (c *APIClient) ListResumes(ctx context.Context) ([]models.CloudFile, error) {
	var resp apiResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/resumes/list", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Files == nil {
		return []models.CloudFile{}, nil
	}
	return resp.Files, nil
}

// UploadCertificate stores a certificate attachment.
func (c *APIClient) UploadCertificate(ctx context.Context, name, contentType string, data []byte) (models.UploadResult, error) {
	var resp apiResponse
	if err := c.doMultipart(ctx, "/api/upload/certificate", name, contentType, data, &resp); err != nil {
		return models.UploadResult{}, err
	}
	return models.UploadResult{ObjectKey: resp.FileName, PublicURL: resp.PublicURL}, nil
}

func (c *APIClient) DeleteCertificate(ctx context.Context, fileName string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/upload/certificate/delete", map[string]string{"fileName": fileName}, nil)
}

func (c *APIClient) doJSON(ctx context.Context, method, path string, in any, out *apiResponse) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *APIClient) doMultipart(ctx context.Context, path, name, contentType string, data []byte, out *apiResponse) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": "file", "filename": name}))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do sends the request with the session token. Transport failures are
// reported as ErrUnavailable.
func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp, nil
}

// checkStatus maps a non-2xx response to a sentinel error carrying the
// server's message.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body apiResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusRequestEntityTooLarge,
		resp.StatusCode == http.StatusUnsupportedMediaType:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case resp.StatusCode == http.StatusBadGateway, resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	}
	return fmt.Errorf("server error %d: %s", resp.StatusCode, msg)
}
