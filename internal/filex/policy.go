package filex

import (
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Policy restricts what may be uploaded to a bucket.
type Policy struct {
	MaxSize           int64
	AllowedTypes      []string
	AllowedExtensions []string
}

// ResumePolicy accepts PDF, DOC, DOCX and plain text up to 10 MiB.
var ResumePolicy = Policy{
	MaxSize: common.MaxResumeSize,
	AllowedTypes: []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
	},
	AllowedExtensions: []string{".pdf", ".doc", ".docx", ".txt"},
}

// CertificatePolicy accepts images and PDF.
var CertificatePolicy = Policy{
	MaxSize: common.MaxCertificateSize,
	AllowedTypes: []string{
		"application/pdf",
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	},
	AllowedExtensions: []string{".pdf", ".jpg", ".jpeg", ".png", ".gif", ".webp"},
}

// Check validates a file against p. Every failure wraps
// common.ErrValidation together with the concrete cause.
func (p Policy) Check(fileName, contentType string, size int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: %w", common.ErrValidation, common.ErrEmptyFile)
	}
	if size > p.MaxSize {
		return fmt.Errorf("%w: %w: %s exceeds %s", common.ErrValidation, common.ErrFileTooLarge,
			FormatSize(size), FormatSize(p.MaxSize))
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !contains(p.AllowedExtensions, ext) {
		return fmt.Errorf("%w: %w: extension %q", common.ErrValidation, common.ErrUnsupportedFileType, ext)
	}
	if ct := BaseType(contentType); !contains(p.AllowedTypes, ct) {
		return fmt.Errorf("%w: %w: %q", common.ErrValidation, common.ErrUnsupportedFileType, ct)
	}
	return nil
}

// DetectContentType sniffs data. Plain-text files are reported as
// text/plain regardless of charset.
func DetectContentType(data []byte) string {
	return BaseType(mimetype.Detect(data).String())
}

// BaseType strips parameters from a MIME type: "text/plain; charset=utf-8"
// becomes "text/plain".
func BaseType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// FormatSize renders n bytes with IEC units, e.g. "1.5 MiB".
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// UniqueObjectName derives a collision-free object key from an uploaded
// file name: <sanitized base>_<unix millis>_<random>.<ext>.
func UniqueObjectName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if base == "" || base == "_" {
		base = "upload"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return base + "_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix + ext
}

var knownTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// TypeByExtension guesses a MIME type from a file name, falling back to
// application/octet-stream.
func TypeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return BaseType(t)
	}
	return "application/octet-stream"
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
