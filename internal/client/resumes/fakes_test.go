package resumes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeData stores the portfolio document like the data manager would,
// handing out copies so callers cannot mutate it behind its back.
type fakeData struct {
	mu         sync.Mutex
	doc        *models.PortfolioData
	failUpdate bool
	updates    int
	reads      int
}

func newFakeData(resumes ...models.Resume) *fakeData {
	if resumes == nil {
		resumes = []models.Resume{}
	}
	return &fakeData{doc: &models.PortfolioData{Resumes: resumes}}
}

func (f *fakeData) GetPortfolioData(context.Context) *models.PortfolioData {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.doc == nil {
		return nil
	}
	b, _ := json.Marshal(f.doc)
	var out models.PortfolioData
	_ = json.Unmarshal(b, &out)
	return &out
}

func (f *fakeData) UpdatePortfolioSection(_ context.Context, section models.Section, value any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.failUpdate {
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	if f.doc == nil {
		f.doc = &models.PortfolioData{}
	}
	return f.doc.SetSection(section, raw) == nil
}

func (f *fakeData) resumes() []models.Resume {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Resume(nil), f.doc.Resumes...)
}

// removeRecord is what the server does on a successful delete.
func (f *fakeData) removeRecord(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.doc.Resumes[:0]
	for _, r := range f.doc.Resumes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.doc.Resumes = kept
}

type blobObject struct {
	data        []byte
	contentType string
}

// fakeBlobs is an in-memory bucket reached "through the server".
type fakeBlobs struct {
	mu         sync.Mutex
	objects    map[string]blobObject
	publicBase string
	server     *fakeData

	uploadErr   error
	downloadErr error
	deleteErr   error
	listErr     error

	calls int
	seq   int
}

func newFakeBlobs(server *fakeData) *fakeBlobs {
	return &fakeBlobs{
		objects:    map[string]blobObject{},
		publicBase: "http://minio:9000/resumes/",
		server:     server,
	}
}

func (b *fakeBlobs) put(key string, data []byte, ct string) {
	b.objects[key] = blobObject{data: data, contentType: ct}
}

func (b *fakeBlobs) UploadResume(_ context.Context, name, contentType string, data []byte) (models.UploadResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.uploadErr != nil {
		return models.UploadResult{}, b.uploadErr
	}
	b.seq++
	key := fmt.Sprintf("obj%d_%s", b.seq, name)
	b.put(key, data, contentType)
	return models.UploadResult{ObjectKey: key, PublicURL: b.publicBase + key}, nil
}

func (b *fakeBlobs) DownloadResume(_ context.Context, key string) ([]byte, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.downloadErr != nil {
		return nil, "", b.downloadErr
	}
	o, ok := b.objects[key]
	if !ok {
		return nil, "", common.ErrorNotFound
	}
	return o.data, o.contentType, nil
}

func (b *fakeBlobs) FetchURL(_ context.Context, url string) ([]byte, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	key, ok := strings.CutPrefix(url, b.publicBase)
	if !ok {
		return nil, "", errors.New("download failed: 404 Not Found")
	}
	o, ok := b.objects[key]
	if !ok {
		return nil, "", errors.New("download failed: 404 Not Found")
	}
	return o.data, o.contentType, nil
}

func (b *fakeBlobs) DeleteResume(_ context.Context, id, cloudFileName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.deleteErr != nil {
		return b.deleteErr
	}
	if cloudFileName != "" {
		delete(b.objects, cloudFileName)
	}
	if b.server != nil {
		b.server.removeRecord(id)
	}
	return nil
}

func (b *fakeBlobs) ListResumes(context.Context) ([]models.CloudFile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.listErr != nil {
		return nil, b.listErr
	}
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.CloudFile, 0, len(keys))
	for _, k := range keys {
		o := b.objects[k]
		out = append(out, models.CloudFile{
			Name:      k,
			Size:      int64(len(o.data)),
			MimeType:  o.contentType,
			CreatedAt: fixedNow.Add(-time.Hour),
			PublicURL: b.publicBase + k,
		})
	}
	return out, nil
}

func (b *fakeBlobs) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

func newTestManager(t *testing.T, data DataStore, blobs BlobGateway) (*Manager, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	m := NewManager(data, blobs, logging.NewTextLogger(&buf, slog.LevelDebug))
	m.now = func() time.Time { return fixedNow }
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("r%d", n)
	}
	return m, &buf
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
