package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StorageType tells where a resume's bytes live. It never changes after
// creation except through a bulk migration to cloud.
type StorageType string

const (
	StorageLocal StorageType = "local"
	StorageCloud StorageType = "cloud"
)

// Resume is an uploaded document record kept in the resumes section.
//
// Local records carry FileData, a data URL with the file inlined. Cloud
// records carry CloudFileName (object key, set by direct uploads) and/or
// CloudURL (public URL, set by imports from a bucket listing).
type Resume struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	FileName      string      `json:"fileName"`
	FileSize      string      `json:"fileSize"`
	FileType      string      `json:"fileType"`
	UploadDate    time.Time   `json:"uploadDate"`
	StorageType   StorageType `json:"storageType"`
	FileData      string      `json:"fileData,omitempty"`
	CloudFileName string      `json:"cloudFileName,omitempty"`
	CloudURL      string      `json:"cloudUrl,omitempty"`
}

// CloudRef locates cloud content: either ByKey or ByURL.
type CloudRef interface {
	cloudRef()
}

// ByKey addresses an object in the blob store by its key.
type ByKey struct{ Key string }

// ByURL addresses an object by its public URL.
type ByURL struct{ URL string }

func (ByKey) cloudRef() {}
func (ByURL) cloudRef() {}

// CloudRef returns the cloud content reference of r, preferring the object
// key over the URL. It returns nil for local records and for cloud records
// with neither field set.
func (r *Resume) CloudRef() CloudRef {
	if r.StorageType != StorageCloud {
		return nil
	}
	switch {
	case r.CloudFileName != "":
		return ByKey{Key: r.CloudFileName}
	case r.CloudURL != "":
		return ByURL{URL: r.CloudURL}
	}
	return nil
}

// NormalizeResumes decodes a resumes section for reading. Besides a plain
// array it accepts the legacy {"resumes": [...]} wrapper. Records that do
// not decode are skipped one by one; anything that is not a list yields an
// empty, non-nil slice.
func NormalizeResumes(raw json.RawMessage) []Resume {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		var wrapped struct {
			Resumes []json.RawMessage `json:"resumes"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Resumes == nil {
			return []Resume{}
		}
		items = wrapped.Resumes
	}

	list := make([]Resume, 0, len(items))
	for _, item := range items {
		var r Resume
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		list = append(list, r)
	}
	return list
}

// DecodeResumes is the strict counterpart of NormalizeResumes used before a
// write: raw must be a JSON array in which every record decodes and carries
// an id and a known storage type.
func DecodeResumes(raw json.RawMessage) ([]Resume, error) {
	var list []Resume
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode resumes: %w", err)
	}
	if list == nil {
		return nil, fmt.Errorf("decode resumes: not a list")
	}
	for i, r := range list {
		if r.ID == "" {
			return nil, fmt.Errorf("resume %d: missing id", i)
		}
		if r.StorageType != StorageLocal && r.StorageType != StorageCloud {
			return nil, fmt.Errorf("resume %s: unknown storage type %q", r.ID, r.StorageType)
		}
	}
	return list, nil
}

// CloudFile describes one object from a blob store listing.
type CloudFile struct {
	Name      string    `json:"name"`
	ID        string    `json:"id,omitempty"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
	PublicURL string    `json:"publicUrl"`
}

// UploadResult is what the blob store returns for a stored object.
type UploadResult struct {
	ObjectKey string `json:"objectKey"`
	PublicURL string `json:"publicUrl"`
}

// EncodeDataURL inlines data as "data:<mime>;base64,<payload>".
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL is the inverse of EncodeDataURL.
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return mime, []byte(payload), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data url: %w", err)
	}
	return mime, data, nil
}
