package mapper

import (
	"encoding/json"
	"errors"
	"fmt"

	"stayhere_backend/pkg/docstore"
	"stayhere_backend/pkg/utils/validation"
)

var ErrMalformedDocument = errors.New("malformed document")

// decode copies document data into out through its JSON shape, which is the
// document schema, then validates out.
func decode(doc docstore.Document, out interface{}) error {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrMalformedDocument, doc.ID, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w %s: %v", ErrMalformedDocument, doc.ID, err)
	}
	return nil
}

func check(id string, v interface{}) error {
	if err := validation.Struct(v); err != nil {
		return fmt.Errorf("%w %s: %v", ErrMalformedDocument, id, err)
	}
	return nil
}
