package docstore

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
)

func TestToFirestoreSwapsServerTimestamp(t *testing.T) {
	in := map[string]interface{}{
		"title":     "Villa",
		"updatedAt": ServerTimestamp,
	}

	out := toFirestore(in)
	assert.Equal(t, "Villa", out["title"])
	assert.Equal(t, firestore.ServerTimestamp, out["updatedAt"])
	assert.True(t, IsServerTimestamp(in["updatedAt"]), "input left untouched")
}
