package docstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter is an equality match on a top-level field.
type Filter struct {
	Field string
	Value interface{}
}

type Query struct {
	Filters   []Filter
	OrderBy   string
	Direction Direction
	Limit     int
}

type Document struct {
	ID   string
	Data map[string]interface{}
}

// Store is the per-collection document API the services are written against.
// Update applies a partial field set and fails with ErrNotFound when the
// document does not exist. Delete of a missing document is not an error.
type Store interface {
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Insert(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

type serverTimestamp struct{}

// ServerTimestamp is replaced by the store's current time when written.
var ServerTimestamp interface{} = serverTimestamp{}

func IsServerTimestamp(v interface{}) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// resolveTimestamps returns a shallow copy of data with ServerTimestamp
// sentinels replaced by now.
func resolveTimestamps(data map[string]interface{}, now time.Time) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if IsServerTimestamp(v) {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}
