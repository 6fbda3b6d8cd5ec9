package storage

import (
	"context"
	"io"
	"net/http"
	"sync"
)

// MockMediaStore is an in-memory MediaStore for testing.
type MockMediaStore struct {
	mu sync.Mutex

	// Objects holds uploaded bytes keyed by storage key
	Objects map[string][]byte
	Deleted []string
	Uploads []UploadRequest

	// Configurable function overrides
	UploadFunc func(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	DeleteFunc func(ctx context.Context, key string) error

	// CheckError is returned by CheckAccess
	CheckError error
}

// NewMockMediaStore creates an empty mock store
func NewMockMediaStore() *MockMediaStore {
	return &MockMediaStore{Objects: make(map[string][]byte)}
}

func (m *MockMediaStore) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, req)
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}

	name := cleanName(req.FileName)
	if req.UniqueName {
		name = uniqueName(req.FileName)
	}
	key := "mock/" + name

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	recorded := *req
	recorded.Body = nil
	m.Uploads = append(m.Uploads, recorded)

	return &UploadResult{
		StatusCode: http.StatusOK,
		URL:        "https://media.example.com/" + key,
		Name:       name,
		Key:        key,
		Size:       int64(len(data)),
	}, nil
}

func (m *MockMediaStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, key)
	delete(m.Objects, key)
	m.mu.Unlock()

	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *MockMediaStore) CheckAccess(ctx context.Context) error {
	return m.CheckError
}

// DeletedKeys returns the keys passed to Delete (thread-safe)
func (m *MockMediaStore) DeletedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Deleted...)
}

var _ MediaStore = (*MockMediaStore)(nil)
