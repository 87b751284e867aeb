package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CountRefresher recomputes destination property counts.
type CountRefresher interface {
	RefreshPropertyCounts(ctx context.Context) (int, error)
}

// InitDestinationCountsCron schedules refresher on spec and starts the
// scheduler. Callers stop it with Stop on shutdown.
func InitDestinationCountsCron(spec string, refresher CountRefresher) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		refreshDestinationCounts(refresher)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

func refreshDestinationCounts(refresher CountRefresher) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	changed, err := refresher.RefreshPropertyCounts(ctx)
	if err != nil {
		log.Printf("Error refreshing destination counts: %v", err)
		return
	}
	log.Printf("Destination counts refreshed, %d updated", changed)
}
