package model

import "time"

type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"
)

type Host struct {
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Joined       string  `json:"joined"`
	ResponseRate float64 `json:"response_rate" validate:"gte=0,lte=100"`
}

type Property struct {
	ID                  string         `json:"id,omitempty"`
	Title               string         `json:"title" validate:"required"`
	Description         string         `json:"description"`
	Location            string         `json:"location"`
	Price               float64        `json:"price" validate:"gte=0"`
	Bedrooms            int            `json:"bedrooms" validate:"gte=0"`
	Bathrooms           int            `json:"bathrooms" validate:"gte=0"`
	Guests              int            `json:"guests" validate:"gte=0"`
	Images              []string       `json:"images"`
	Amenities           []string       `json:"amenities"`
	Status              PropertyStatus `json:"status" validate:"oneof=active inactive"`
	IsFeatured          bool           `json:"isFeatured"`
	Rating              float64        `json:"rating" validate:"gte=0,lte=5"`
	Reviews             int            `json:"reviews" validate:"gte=0"`
	Host                *Host          `json:"host,omitempty"`
	LocationDescription string         `json:"location_description,omitempty"`
	HouseRules          []string       `json:"house_rules,omitempty"`
	CreatedAt           *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time     `json:"updatedAt,omitempty"`
}

// PropertyUpdate is a partial update; nil fields are left untouched.
type PropertyUpdate struct {
	Title               *string         `json:"title" validate:"omitnil,min=1"`
	Description         *string         `json:"description"`
	Location            *string         `json:"location"`
	Price               *float64        `json:"price" validate:"omitnil,gte=0"`
	Bedrooms            *int            `json:"bedrooms" validate:"omitnil,gte=0"`
	Bathrooms           *int            `json:"bathrooms" validate:"omitnil,gte=0"`
	Guests              *int            `json:"guests" validate:"omitnil,gte=0"`
	Images              *[]string       `json:"images"`
	Amenities           *[]string       `json:"amenities"`
	Status              *PropertyStatus `json:"status" validate:"omitnil,oneof=active inactive"`
	IsFeatured          *bool           `json:"isFeatured"`
	Rating              *float64        `json:"rating" validate:"omitnil,gte=0,lte=5"`
	Reviews             *int            `json:"reviews" validate:"omitnil,gte=0"`
	Host                *Host           `json:"host"`
	LocationDescription *string         `json:"location_description"`
	HouseRules          *[]string       `json:"house_rules"`
}

// Empty reports whether the update carries no fields.
func (u PropertyUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Location == nil &&
		u.Price == nil && u.Bedrooms == nil && u.Bathrooms == nil && u.Guests == nil &&
		u.Images == nil && u.Amenities == nil && u.Status == nil && u.IsFeatured == nil &&
		u.Rating == nil && u.Reviews == nil && u.Host == nil &&
		u.LocationDescription == nil && u.HouseRules == nil
}
