package filestore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("file not found")

// Store uploads blobs under a key and returns a public URL for them.
// Uploading to an existing key replaces the previous object. Delete returns
// ErrNotFound when nothing is stored under key.
type Store interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
