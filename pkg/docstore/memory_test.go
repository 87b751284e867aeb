package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDestinations(t *testing.T, s *MemoryStore) {
	t.Helper()
	ctx := context.Background()
	for id, n := range map[string]int{"aspen": 12, "malibu": 40, "paris": 25, "tokyo": 7} {
		require.NoError(t, s.Set(ctx, "destinations", id, map[string]interface{}{
			"name":       id,
			"properties": n,
		}))
	}
}

func TestMemoryStoreListOrderAndLimit(t *testing.T) {
	s := NewMemoryStore()
	seedDestinations(t, s)

	docs, err := s.List(context.Background(), "destinations", Query{OrderBy: "properties", Direction: Desc, Limit: 3})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "malibu", docs[0].ID)
	assert.Equal(t, "paris", docs[1].ID)
	assert.Equal(t, "aspen", docs[2].ID)
}

func TestMemoryStoreEqualityFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Insert(ctx, "properties", map[string]interface{}{"title": "a", "isFeatured": true})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "properties", map[string]interface{}{"title": "b", "isFeatured": false})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "properties", map[string]interface{}{"title": "c"})
	require.NoError(t, err)

	docs, err := s.List(ctx, "properties", Query{Filters: []Filter{{Field: "isFeatured", Value: true}}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].Data["title"])
}

func TestMemoryStoreNumericFilterAcrossTypes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "c", "x", map[string]interface{}{"n": int64(3)}))

	docs, err := s.List(ctx, "c", Query{Filters: []Filter{{Field: "n", Value: 3}}})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestMemoryStoreServerTimestamp(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return now })
	ctx := context.Background()

	id, err := s.Insert(ctx, "bookings", map[string]interface{}{"createdAt": ServerTimestamp})
	require.NoError(t, err)

	doc, err := s.Get(ctx, "bookings", id)
	require.NoError(t, err)
	assert.Equal(t, now, doc.Data["createdAt"])
}

func TestMemoryStoreUpdateIsPartial(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Insert(ctx, "properties", map[string]interface{}{"title": "Villa", "price": 199.99})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "properties", id, map[string]interface{}{"price": 100.0}))

	doc, err := s.Get(ctx, "properties", id)
	require.NoError(t, err)
	assert.Equal(t, "Villa", doc.Data["title"])
	assert.Equal(t, 100.0, doc.Data["price"])
}

func TestMemoryStoreMissingDocuments(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "properties", "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Update(ctx, "properties", "nope", map[string]interface{}{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "properties", "nope"))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	images := []string{"a.jpg"}
	id, err := s.Insert(ctx, "properties", map[string]interface{}{"images": images})
	require.NoError(t, err)
	images[0] = "mutated.jpg"

	doc, err := s.Get(ctx, "properties", id)
	require.NoError(t, err)
	doc.Data["images"].([]string)[0] = "also-mutated.jpg"

	again, err := s.Get(ctx, "properties", id)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, again.Data["images"])
}

func TestMemoryStoreHonoursContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx, "properties", Query{})
	assert.ErrorIs(t, err, context.Canceled)
}
