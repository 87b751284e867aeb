package service

import (
	"context"
	"log"
	"strings"

	"stayhere_backend/internal/mapper"
	"stayhere_backend/internal/model"
	"stayhere_backend/pkg/docstore"
)

const (
	DestinationsCollection = "destinations"
	PopularLimit           = 6
)

type DestinationService struct {
	docs docstore.Store
}

func NewDestinationService(docs docstore.Store) *DestinationService {
	return &DestinationService{docs: docs}
}

func (s *DestinationService) ListPopularDestinations(ctx context.Context) Result[[]model.Destination] {
	docs, err := s.docs.List(ctx, DestinationsCollection, docstore.Query{
		OrderBy:   mapper.FieldProperties,
		Direction: docstore.Desc,
		Limit:     PopularLimit,
	})
	if err != nil {
		log.Printf("Error getting destinations: %v", err)
		return unavailable([]model.Destination{}, err)
	}

	destinations := make([]model.Destination, 0, len(docs))
	for _, doc := range docs {
		d, err := mapper.DestinationFromDocument(doc)
		if err != nil {
			log.Printf("Skipping destination: %v", err)
			continue
		}
		destinations = append(destinations, d)
	}
	return available(destinations)
}

// RefreshPropertyCounts sets each destination's property count to the number
// of active properties whose location mentions the destination name. It
// returns how many destinations changed.
func (s *DestinationService) RefreshPropertyCounts(ctx context.Context) (int, error) {
	propDocs, err := s.docs.List(ctx, PropertiesCollection, docstore.Query{
		Filters: []docstore.Filter{{Field: mapper.FieldStatus, Value: string(model.PropertyStatusActive)}},
	})
	if err != nil {
		return 0, err
	}
	locations := make([]string, 0, len(propDocs))
	for _, doc := range propDocs {
		p, err := mapper.PropertyFromDocument(doc)
		if err != nil {
			continue
		}
		locations = append(locations, strings.ToLower(p.Location))
	}

	destDocs, err := s.docs.List(ctx, DestinationsCollection, docstore.Query{})
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, doc := range destDocs {
		d, err := mapper.DestinationFromDocument(doc)
		if err != nil {
			log.Printf("Skipping destination: %v", err)
			continue
		}

		name := strings.ToLower(d.Name)
		count := 0
		for _, loc := range locations {
			if strings.Contains(loc, name) {
				count++
			}
		}
		if count == d.Properties {
			continue
		}

		if err := s.docs.Update(ctx, DestinationsCollection, d.ID, map[string]interface{}{
			mapper.FieldProperties: count,
		}); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
