package seed

import (
	"context"
	"errors"
	"log"

	"github.com/gosimple/slug"

	"stayhere_backend/internal/mapper"
	"stayhere_backend/internal/model"
	"stayhere_backend/internal/service"
	"stayhere_backend/pkg/docstore"
)

var defaultDestinations = []model.Destination{
	{Name: "Malibu", Image: "/placeholder.svg?height=300&width=400&text=Malibu"},
	{Name: "Aspen", Image: "/placeholder.svg?height=300&width=400&text=Aspen"},
	{Name: "New York", Image: "/placeholder.svg?height=300&width=400&text=New+York"},
	{Name: "Miami", Image: "/placeholder.svg?height=300&width=400&text=Miami"},
	{Name: "Lake Tahoe", Image: "/placeholder.svg?height=300&width=400&text=Lake+Tahoe"},
	{Name: "San Francisco", Image: "/placeholder.svg?height=300&width=400&text=San+Francisco"},
	{Name: "Austin", Image: "/placeholder.svg?height=300&width=400&text=Austin"},
	{Name: "Santa Fe", Image: "/placeholder.svg?height=300&width=400&text=Santa+Fe"},
}

// SeedDestinations writes the default destinations under slug ids. Existing
// destinations are left alone so counts survive restarts.
func SeedDestinations(ctx context.Context, docs docstore.Store) error {
	for _, d := range defaultDestinations {
		id := slug.Make(d.Name)

		_, err := docs.Get(ctx, service.DestinationsCollection, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			return err
		}

		if err := docs.Set(ctx, service.DestinationsCollection, id, mapper.DestinationToDocument(d)); err != nil {
			log.Printf("Error creating destination %s: %v", d.Name, err)
			return err
		}
	}

	log.Println("Destinations seeded successfully!")
	return nil
}
