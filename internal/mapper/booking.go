package mapper

import (
	"stayhere_backend/internal/model"
	"stayhere_backend/pkg/docstore"
)

const (
	FieldPropertyID = "propertyId"
	FieldEmail      = "email"
)

// BookingToDocument maps a new booking; createdAt is the server time.
func BookingToDocument(b model.Booking) map[string]interface{} {
	return map[string]interface{}{
		FieldPropertyID: b.PropertyID,
		"propertyTitle": b.PropertyTitle,
		"guestName":     b.GuestName,
		FieldEmail:      b.Email,
		"phone":         b.Phone,
		"checkIn":       b.CheckIn.UTC(),
		"checkOut":      b.CheckOut.UTC(),
		"guests":        b.Guests,
		"totalAmount":   b.TotalAmount,
		FieldStatus:     string(b.Status),
		FieldCreatedAt:  docstore.ServerTimestamp,
	}
}

func BookingFromDocument(doc docstore.Document) (model.Booking, error) {
	var b model.Booking
	if err := decode(doc, &b); err != nil {
		return model.Booking{}, err
	}
	b.ID = doc.ID
	if err := check(doc.ID, b); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}
