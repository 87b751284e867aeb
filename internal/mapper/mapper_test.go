package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhere_backend/internal/model"
	"stayhere_backend/pkg/docstore"
)

func TestPropertyToDocumentDefaults(t *testing.T) {
	doc := PropertyToDocument(model.Property{Title: "Villa", Location: "Malibu", Price: 199.99, Status: model.PropertyStatusActive})

	assert.Equal(t, false, doc[FieldIsFeatured])
	assert.Equal(t, 0.0, doc["rating"])
	assert.Equal(t, 0, doc["reviews"])
	assert.Equal(t, []string{}, doc["images"])
	assert.True(t, docstore.IsServerTimestamp(doc[FieldUpdatedAt]))
	assert.True(t, docstore.IsServerTimestamp(doc[FieldCreatedAt]))
	assert.NotContains(t, doc, "host")
}

func TestPropertyToDocumentPreservesCreatedAt(t *testing.T) {
	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := PropertyToDocument(model.Property{Title: "Villa", CreatedAt: &created})

	assert.Equal(t, created, doc[FieldCreatedAt])
	assert.True(t, docstore.IsServerTimestamp(doc[FieldUpdatedAt]))
}

func TestPropertyFromDocument(t *testing.T) {
	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	p, err := PropertyFromDocument(docstore.Document{
		ID: "p1",
		Data: map[string]interface{}{
			"title":      "Villa",
			"location":   "Malibu",
			"price":      int64(250),
			"bedrooms":   int64(3),
			"images":     []interface{}{"a.jpg", "b.jpg"},
			"isFeatured": true,
			"host":       map[string]interface{}{"name": "Ada", "response_rate": 99},
			"createdAt":  created,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 250.0, p.Price)
	assert.Equal(t, 3, p.Bedrooms)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, []string{}, p.Amenities)
	assert.Equal(t, model.PropertyStatusActive, p.Status)
	assert.True(t, p.IsFeatured)
	require.NotNil(t, p.Host)
	assert.Equal(t, "Ada", p.Host.Name)
	require.NotNil(t, p.CreatedAt)
	assert.True(t, created.Equal(*p.CreatedAt))
}

func TestPropertyFromDocumentRejectsMalformed(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"wrong type":     {"title": "Villa", "price": "cheap"},
		"negative price": {"title": "Villa", "price": -5},
		"missing title":  {"price": 10},
		"bad status":     {"title": "Villa", "status": "archived"},
		"rating too big": {"title": "Villa", "rating": 9},
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PropertyFromDocument(docstore.Document{ID: "bad", Data: data})
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestPropertyUpdateFieldsOnlySupplied(t *testing.T) {
	price := 100.0
	featured := true
	fields := PropertyUpdateFields(model.PropertyUpdate{Price: &price, IsFeatured: &featured})

	assert.Equal(t, map[string]interface{}{"price": 100.0, FieldIsFeatured: true}, fields)
}

func TestBookingRoundTrip(t *testing.T) {
	in := time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 3)
	doc := BookingToDocument(model.Booking{
		PropertyID: "p1",
		GuestName:  "Ada",
		Email:      "ada@example.com",
		CheckIn:    in,
		CheckOut:   out,
		Guests:     2,
		Status:     model.BookingStatusPending,
	})
	assert.True(t, docstore.IsServerTimestamp(doc[FieldCreatedAt]))

	doc[FieldCreatedAt] = in
	b, err := BookingFromDocument(docstore.Document{ID: "b1", Data: doc})
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)
	assert.True(t, in.Equal(b.CheckIn))
	assert.Equal(t, 3, b.Nights())
}

func TestBookingFromDocumentRejectsReversedDates(t *testing.T) {
	in := time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC)
	_, err := BookingFromDocument(docstore.Document{ID: "b1", Data: map[string]interface{}{
		"propertyId": "p1",
		"guestName":  "Ada",
		"email":      "ada@example.com",
		"checkIn":    in,
		"checkOut":   in.AddDate(0, 0, -1),
		"guests":     1,
		"status":     "pending",
	}})
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestDestinationFromDocument(t *testing.T) {
	d, err := DestinationFromDocument(docstore.Document{ID: "malibu", Data: map[string]interface{}{
		"name":       "Malibu",
		"properties": int64(12),
		"image":      "/malibu.jpg",
	}})
	require.NoError(t, err)
	assert.Equal(t, model.Destination{ID: "malibu", Name: "Malibu", Properties: 12, Image: "/malibu.jpg"}, d)

	_, err = DestinationFromDocument(docstore.Document{ID: "x", Data: map[string]interface{}{"properties": 3}})
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
