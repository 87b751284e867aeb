package mapper

import (
	"stayhere_backend/internal/model"
	"stayhere_backend/pkg/docstore"
)

const FieldProperties = "properties"

func DestinationToDocument(d model.Destination) map[string]interface{} {
	return map[string]interface{}{
		"name":          d.Name,
		FieldProperties: d.Properties,
		"image":         d.Image,
	}
}

func DestinationFromDocument(doc docstore.Document) (model.Destination, error) {
	var d model.Destination
	if err := decode(doc, &d); err != nil {
		return model.Destination{}, err
	}
	d.ID = doc.ID
	if err := check(doc.ID, d); err != nil {
		return model.Destination{}, err
	}
	return d, nil
}
