package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sjperalta/agent-portal-api/internal/storage"
)

// MemoryBlobs is an in-memory storage.BlobStore with failure injection.
type MemoryBlobs struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Deleted   []string
	SaveErr   error
	DeleteErr error
	URLErr    error
	saves     int
}

// NewMemoryBlobs creates an empty store.
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{Objects: make(map[string][]byte)}
}

var _ storage.BlobStore = (*MemoryBlobs)(nil)

func (m *MemoryBlobs) Save(ctx context.Context, fileName, ownerID string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	m.saves++
	path := storage.ObjectPath(fileName, ownerID, time.UnixMilli(int64(m.saves)))
	m.Objects[path] = append([]byte(nil), data...)
	return path, nil
}

func (m *MemoryBlobs) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, path)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Objects, path)
	return nil
}

func (m *MemoryBlobs) PublicURL(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.URLErr != nil {
		return "", m.URLErr
	}
	if _, ok := m.Objects[path]; !ok {
		return "", errors.New("object not found")
	}
	return "https://files.test/" + path + "?sig=test", nil
}

// Saves returns how many objects were stored.
func (m *MemoryBlobs) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// SamplePDF is a minimal payload recognized as application/pdf.
var SamplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
