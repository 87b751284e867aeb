package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"stayhere_backend/internal/mapper"
	"stayhere_backend/internal/model"
	"stayhere_backend/pkg/docstore"
	"stayhere_backend/pkg/filestore"
	"stayhere_backend/pkg/utils/validation"
)

const (
	PropertiesCollection = "properties"
	FeaturedLimit        = 4
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrInvalidProperty  = errors.New("invalid property")
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrImageNotFound    = errors.New("image not found")
)

type PropertySearch struct {
	Location string
	Guests   int
	MaxPrice float64
}

type PropertyService struct {
	docs  docstore.Store
	files filestore.Store
}

func NewPropertyService(docs docstore.Store, files filestore.Store) *PropertyService {
	return &PropertyService{docs: docs, files: files}
}

func (s *PropertyService) ListProperties(ctx context.Context) Result[[]model.Property] {
	return s.list(ctx, docstore.Query{})
}

func (s *PropertyService) ListFeaturedProperties(ctx context.Context) Result[[]model.Property] {
	return s.list(ctx, docstore.Query{
		Filters: []docstore.Filter{{Field: mapper.FieldIsFeatured, Value: true}},
		Limit:   FeaturedLimit,
	})
}

// SearchProperties returns active properties whose location contains
// q.Location (case-insensitive) and that fit q.Guests and q.MaxPrice.
func (s *PropertyService) SearchProperties(ctx context.Context, q PropertySearch) Result[[]model.Property] {
	res := s.list(ctx, docstore.Query{
		Filters: []docstore.Filter{{Field: mapper.FieldStatus, Value: string(model.PropertyStatusActive)}},
	})
	if res.Unavailable() {
		return res
	}

	location := strings.ToLower(strings.TrimSpace(q.Location))
	matched := make([]model.Property, 0, len(res.Value))
	for _, p := range res.Value {
		if location != "" && !strings.Contains(strings.ToLower(p.Location), location) {
			continue
		}
		if q.Guests > 0 && p.Guests < q.Guests {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}
	return available(matched)
}

func (s *PropertyService) list(ctx context.Context, q docstore.Query) Result[[]model.Property] {
	docs, err := s.docs.List(ctx, PropertiesCollection, q)
	if err != nil {
		log.Printf("Error getting properties: %v", err)
		return unavailable([]model.Property{}, err)
	}

	properties := make([]model.Property, 0, len(docs))
	for _, doc := range docs {
		p, err := mapper.PropertyFromDocument(doc)
		if err != nil {
			log.Printf("Skipping property: %v", err)
			continue
		}
		properties = append(properties, p)
	}
	return available(properties)
}

// GetProperty returns a nil Value when the property does not exist or the
// store failed; Err is only set in the latter case.
func (s *PropertyService) GetProperty(ctx context.Context, id string) Result[*model.Property] {
	doc, err := s.docs.Get(ctx, PropertiesCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return available[*model.Property](nil)
		}
		log.Printf("Error getting property %s: %v", id, err)
		return unavailable[*model.Property](nil, err)
	}

	p, err := mapper.PropertyFromDocument(doc)
	if err != nil {
		log.Printf("Error reading property %s: %v", id, err)
		return unavailable[*model.Property](nil, err)
	}
	return available(&p)
}

func (s *PropertyService) CreateProperty(ctx context.Context, p model.Property) (string, error) {
	if p.Status == "" {
		p.Status = model.PropertyStatusActive
	}
	if err := validation.Struct(p); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidProperty, err)
	}

	id, err := s.docs.Insert(ctx, PropertiesCollection, mapper.PropertyToDocument(p))
	if err != nil {
		log.Printf("Error adding property: %v", err)
		return "", err
	}
	return id, nil
}

// UpdateProperty writes only the supplied fields plus updatedAt.
func (s *PropertyService) UpdateProperty(ctx context.Context, id string, u model.PropertyUpdate) error {
	if err := validation.Struct(u); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProperty, err)
	}

	fields := mapper.PropertyUpdateFields(u)
	fields[mapper.FieldUpdatedAt] = docstore.ServerTimestamp

	if err := s.docs.Update(ctx, PropertiesCollection, id, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrPropertyNotFound
		}
		log.Printf("Error updating property %s: %v", id, err)
		return err
	}
	return nil
}

func (s *PropertyService) DeleteProperty(ctx context.Context, id string) error {
	if err := s.docs.Delete(ctx, PropertiesCollection, id); err != nil {
		log.Printf("Error deleting property %s: %v", id, err)
		return err
	}
	return nil
}

// UploadPropertyImage stores body under properties/{id}/{filename}. An upload
// with the same filename replaces the earlier one.
func (s *PropertyService) UploadPropertyImage(ctx context.Context, id, filename string, body io.Reader, contentType string) (string, error) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if id == "" || name == "." || name == "/" || name == ".." {
		return "", ErrInvalidFilename
	}

	url, err := s.files.Upload(ctx, ImageKey(id, name), body, contentType)
	if err != nil {
		log.Printf("Error uploading image for property %s: %v", id, err)
		return "", err
	}
	return url, nil
}

// DeletePropertyImage removes an image stored by UploadPropertyImage.
func (s *PropertyService) DeletePropertyImage(ctx context.Context, id, filename string) error {
	name := path.Base(filename)
	if id == "" || name != filename || name == "." || name == "/" || name == ".." {
		return ErrInvalidFilename
	}

	if err := s.files.Delete(ctx, ImageKey(id, name)); err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return ErrImageNotFound
		}
		log.Printf("Error deleting image for property %s: %v", id, err)
		return err
	}
	return nil
}

func ImageKey(propertyID, filename string) string {
	return fmt.Sprintf("properties/%s/%s", propertyID, filename)
}
