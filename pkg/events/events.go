package events

import (
	"context"
	"time"
)

const BookingStatusQueue = "booking.status_changed"

type BookingStatusChanged struct {
	BookingID     string    `json:"booking_id"`
	PropertyID    string    `json:"property_id"`
	PropertyTitle string    `json:"property_title"`
	GuestName     string    `json:"guest_name"`
	Email         string    `json:"email"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	ChangedAt     time.Time `json:"changed_at"`
}

type Publisher interface {
	PublishBookingStatusChanged(ctx context.Context, ev BookingStatusChanged) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishBookingStatusChanged(context.Context, BookingStatusChanged) error {
	return nil
}
