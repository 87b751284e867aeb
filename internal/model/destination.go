package model

type Destination struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name" validate:"required"`
	Properties int    `json:"properties" validate:"gte=0"`
	Image      string `json:"image"`
}
