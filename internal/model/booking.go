package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in status s may move to next.
// Re-applying the current status is allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID            string        `json:"id,omitempty"`
	PropertyID    string        `json:"propertyId" validate:"required"`
	PropertyTitle string        `json:"propertyTitle"`
	GuestName     string        `json:"guestName" validate:"required"`
	Email         string        `json:"email" validate:"required,email"`
	Phone         string        `json:"phone"`
	CheckIn       time.Time     `json:"checkIn" validate:"required"`
	CheckOut      time.Time     `json:"checkOut" validate:"required,gtfield=CheckIn"`
	Guests        int           `json:"guests" validate:"gte=1"`
	TotalAmount   float64       `json:"totalAmount" validate:"gte=0"`
	Status        BookingStatus `json:"status" validate:"oneof=pending confirmed cancelled"`
	CreatedAt     *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

// Nights is the number of whole nights between check-in and check-out.
func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
