package filestore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

type object struct {
	Body        []byte
	ContentType string
}

type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]object
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{bucket: bucket, objects: make(map[string]object)}
}

func (m *MemoryStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("could not read file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.objects[key] = object{Body: data, ContentType: contentType}
	m.mu.Unlock()

	return m.URL(key), nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

// Object returns the stored bytes and content type for key.
func (m *MemoryStore) Object(key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	return append([]byte(nil), obj.Body...), obj.ContentType, nil
}

func (m *MemoryStore) URL(key string) string {
	return fmt.Sprintf("memory://%s/%s", m.bucket, key)
}
