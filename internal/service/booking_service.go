package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"stayhere_backend/internal/mapper"
	"stayhere_backend/internal/model"
	"stayhere_backend/pkg/docstore"
	"stayhere_backend/pkg/events"
	"stayhere_backend/pkg/utils/validation"
)

const BookingsCollection = "bookings"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidBooking    = errors.New("invalid booking")
	ErrInvalidDates      = errors.New("check-in must be before check-out")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
)

type BookingService struct {
	docs      docstore.Store
	publisher events.Publisher
	now       func() time.Time
}

func NewBookingService(docs docstore.Store, publisher events.Publisher) *BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &BookingService{
		docs:      docs,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, b model.Booking) (string, error) {
	if b.Status == "" {
		b.Status = model.BookingStatusPending
	}
	b.Email = normalizeEmail(b.Email)

	if !b.CheckIn.IsZero() && !b.CheckOut.IsZero() && !b.CheckIn.Before(b.CheckOut) {
		return "", ErrInvalidDates
	}
	if err := validation.Struct(b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}

	id, err := s.docs.Insert(ctx, BookingsCollection, mapper.BookingToDocument(b))
	if err != nil {
		log.Printf("Error creating booking: %v", err)
		return "", err
	}
	return id, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return s.list(ctx, docstore.Query{})
}

func (s *BookingService) ListBookingsByProperty(ctx context.Context, propertyID string) ([]model.Booking, error) {
	return s.list(ctx, docstore.Query{
		Filters: []docstore.Filter{{Field: mapper.FieldPropertyID, Value: propertyID}},
	})
}

func (s *BookingService) ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return s.list(ctx, docstore.Query{
		Filters: []docstore.Filter{{Field: mapper.FieldEmail, Value: normalizeEmail(email)}},
	})
}

func (s *BookingService) list(ctx context.Context, q docstore.Query) ([]model.Booking, error) {
	docs, err := s.docs.List(ctx, BookingsCollection, q)
	if err != nil {
		log.Printf("Error getting bookings: %v", err)
		return nil, err
	}

	bookings := make([]model.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := mapper.BookingFromDocument(doc)
		if err != nil {
			log.Printf("Skipping booking: %v", err)
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// UpdateBookingStatus moves a booking to status if the transition is allowed.
// The read and the write are not atomic; concurrent updates are last write wins.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	doc, err := s.docs.Get(ctx, BookingsCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrBookingNotFound
		}
		log.Printf("Error getting booking %s: %v", id, err)
		return err
	}

	current, err := mapper.BookingFromDocument(doc)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	err = s.docs.Update(ctx, BookingsCollection, id, map[string]interface{}{
		mapper.FieldStatus:    string(status),
		mapper.FieldUpdatedAt: docstore.ServerTimestamp,
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrBookingNotFound
		}
		log.Printf("Error updating booking status %s: %v", id, err)
		return err
	}

	if current.Status != status {
		s.publishStatusChange(ctx, current, status)
	}
	return nil
}

func (s *BookingService) publishStatusChange(ctx context.Context, b model.Booking, to model.BookingStatus) {
	err := s.publisher.PublishBookingStatusChanged(ctx, events.BookingStatusChanged{
		BookingID:     b.ID,
		PropertyID:    b.PropertyID,
		PropertyTitle: b.PropertyTitle,
		GuestName:     b.GuestName,
		Email:         b.Email,
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		From:          string(b.Status),
		To:            string(to),
		ChangedAt:     s.now(),
	})
	if err != nil {
		log.Printf("Error publishing status change for booking %s: %v", b.ID, err)
	}
}

// normalizeEmail makes booking lookups case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
