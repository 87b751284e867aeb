package service

import (
	"context"

	"stayhere_backend/internal/model"
)

type DashboardStats struct {
	TotalProperties       int     `json:"total_properties"`
	TotalBookings         int     `json:"total_bookings"`
	ActiveBookings        int     `json:"active_bookings"`
	TotalRevenue          float64 `json:"total_revenue"`
	PropertiesUnavailable bool    `json:"properties_unavailable,omitempty"`
}

type DashboardService struct {
	properties *PropertyService
	bookings   *BookingService
}

func NewDashboardService(properties *PropertyService, bookings *BookingService) *DashboardService {
	return &DashboardService{properties: properties, bookings: bookings}
}

// Stats counts properties and confirmed bookings and sums the amount of all
// bookings. Booking read failures are returned; property failures only set
// PropertiesUnavailable.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	props := s.properties.ListProperties(ctx)
	stats := DashboardStats{
		TotalProperties:       len(props.Value),
		TotalBookings:         len(bookings),
		PropertiesUnavailable: props.Unavailable(),
	}
	for _, b := range bookings {
		if b.Status == model.BookingStatusConfirmed {
			stats.ActiveBookings++
		}
		stats.TotalRevenue += b.TotalAmount
	}
	return stats, nil
}
