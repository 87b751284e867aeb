package mapper

import (
	"stayhere_backend/internal/model"
	"stayhere_backend/pkg/docstore"
)

// Document field names
const (
	FieldIsFeatured = "isFeatured"
	FieldStatus     = "status"
	FieldCreatedAt  = "createdAt"
	FieldUpdatedAt  = "updatedAt"
)

// PropertyToDocument maps every property field. updatedAt is always the
// server time; createdAt is only stamped when the property has none yet.
func PropertyToDocument(p model.Property) map[string]interface{} {
	doc := map[string]interface{}{
		"title":                p.Title,
		"description":          p.Description,
		"location":             p.Location,
		"price":                p.Price,
		"bedrooms":             p.Bedrooms,
		"bathrooms":            p.Bathrooms,
		"guests":               p.Guests,
		"images":               nonNil(p.Images),
		"amenities":            nonNil(p.Amenities),
		FieldStatus:            string(p.Status),
		FieldIsFeatured:        p.IsFeatured,
		"rating":               p.Rating,
		"reviews":              p.Reviews,
		"location_description": p.LocationDescription,
		"house_rules":          nonNil(p.HouseRules),
		FieldUpdatedAt:         docstore.ServerTimestamp,
	}
	if p.Host != nil {
		doc["host"] = hostToDocument(*p.Host)
	}
	if p.CreatedAt != nil {
		doc[FieldCreatedAt] = *p.CreatedAt
	} else {
		doc[FieldCreatedAt] = docstore.ServerTimestamp
	}
	return doc
}

// PropertyFromDocument decodes a stored property, fills missing status and
// list fields and rejects documents that break the schema.
func PropertyFromDocument(doc docstore.Document) (model.Property, error) {
	var p model.Property
	if err := decode(doc, &p); err != nil {
		return model.Property{}, err
	}

	p.ID = doc.ID
	if p.Status == "" {
		p.Status = model.PropertyStatusActive
	}
	p.Images = nonNil(p.Images)
	p.Amenities = nonNil(p.Amenities)

	if err := check(doc.ID, p); err != nil {
		return model.Property{}, err
	}
	return p, nil
}

// PropertyUpdateFields returns only the fields set on u.
func PropertyUpdateFields(u model.PropertyUpdate) map[string]interface{} {
	fields := make(map[string]interface{})
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Location != nil {
		fields["location"] = *u.Location
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	if u.Bedrooms != nil {
		fields["bedrooms"] = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		fields["bathrooms"] = *u.Bathrooms
	}
	if u.Guests != nil {
		fields["guests"] = *u.Guests
	}
	if u.Images != nil {
		fields["images"] = nonNil(*u.Images)
	}
	if u.Amenities != nil {
		fields["amenities"] = nonNil(*u.Amenities)
	}
	if u.Status != nil {
		fields[FieldStatus] = string(*u.Status)
	}
	if u.IsFeatured != nil {
		fields[FieldIsFeatured] = *u.IsFeatured
	}
	if u.Rating != nil {
		fields["rating"] = *u.Rating
	}
	if u.Reviews != nil {
		fields["reviews"] = *u.Reviews
	}
	if u.Host != nil {
		fields["host"] = hostToDocument(*u.Host)
	}
	if u.LocationDescription != nil {
		fields["location_description"] = *u.LocationDescription
	}
	if u.HouseRules != nil {
		fields["house_rules"] = nonNil(*u.HouseRules)
	}
	return fields
}

func hostToDocument(h model.Host) map[string]interface{} {
	return map[string]interface{}{
		"name":          h.Name,
		"image":         h.Image,
		"joined":        h.Joined,
		"response_rate": h.ResponseRate,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
