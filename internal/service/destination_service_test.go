package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhere_backend/internal/mapper"
	"stayhere_backend/internal/model"
	"stayhere_backend/pkg/docstore"
	"stayhere_backend/pkg/filestore"
)

func TestListPopularDestinationsOrderedAndCapped(t *testing.T) {
	docs := docstore.NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 9; i++ {
		require.NoError(t, docs.Set(ctx, DestinationsCollection, fmt.Sprintf("d%d", i), mapper.DestinationToDocument(model.Destination{
			Name:       fmt.Sprintf("City %d", i),
			Properties: (i * 7) % 10,
		})))
	}

	res := NewDestinationService(docs).ListPopularDestinations(ctx)
	require.False(t, res.Unavailable())
	require.Len(t, res.Value, PopularLimit)
	for i := 1; i < len(res.Value); i++ {
		assert.GreaterOrEqual(t, res.Value[i-1].Properties, res.Value[i].Properties)
	}
}

func TestListPopularDestinationsDegrades(t *testing.T) {
	res := NewDestinationService(unreachableStore{}).ListPopularDestinations(context.Background())
	assert.True(t, res.Unavailable())
	assert.NotNil(t, res.Value)
	assert.Empty(t, res.Value)
}

func TestRefreshPropertyCounts(t *testing.T) {
	docs := docstore.NewMemoryStore()
	ctx := context.Background()
	props := NewPropertyService(docs, filestore.NewMemoryStore("stayhere"))

	for _, p := range []model.Property{
		{Title: "a", Location: "Malibu, California"},
		{Title: "b", Location: "North Malibu"},
		{Title: "c", Location: "Aspen"},
		{Title: "d", Location: "Malibu", Status: model.PropertyStatusInactive},
	} {
		_, err := props.CreateProperty(ctx, p)
		require.NoError(t, err)
	}
	require.NoError(t, docs.Set(ctx, DestinationsCollection, "malibu", mapper.DestinationToDocument(model.Destination{Name: "Malibu", Properties: 10})))
	require.NoError(t, docs.Set(ctx, DestinationsCollection, "aspen", mapper.DestinationToDocument(model.Destination{Name: "Aspen", Properties: 1})))

	svc := NewDestinationService(docs)
	changed, err := svc.RefreshPropertyCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	res := svc.ListPopularDestinations(ctx)
	require.Len(t, res.Value, 2)
	assert.Equal(t, model.Destination{ID: "malibu", Name: "Malibu", Properties: 2}, res.Value[0])
	assert.Equal(t, 1, res.Value[1].Properties)
}
