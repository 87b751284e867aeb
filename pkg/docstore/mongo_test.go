package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdateDocumentSplitsTimestamps(t *testing.T) {
	update := updateDocument(map[string]interface{}{
		"price":     100,
		"updatedAt": ServerTimestamp,
	})

	assert.Equal(t, bson.M{
		"$set":         bson.M{"price": 100},
		"$currentDate": bson.M{"updatedAt": true},
	}, update)

	assert.Empty(t, updateDocument(map[string]interface{}{}))
	assert.NotContains(t, updateDocument(map[string]interface{}{"title": "x"}), "$currentDate")
}

func TestFromBSONNormalizesDriverTypes(t *testing.T) {
	oid := primitive.NewObjectID()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	doc := fromBSON(bson.M{
		"_id":       oid,
		"createdAt": primitive.NewDateTimeFromTime(at),
		"host":      primitive.M{"name": "Maria"},
		"images":    primitive.A{"a.jpg", "b.jpg"},
		"meta":      primitive.D{{Key: "owner", Value: oid}},
		"price":     199.99,
	})

	assert.Equal(t, oid.Hex(), doc.ID)
	assert.NotContains(t, doc.Data, "_id")
	assert.Equal(t, at, doc.Data["createdAt"])
	assert.Equal(t, map[string]interface{}{"name": "Maria"}, doc.Data["host"])
	assert.Equal(t, []interface{}{"a.jpg", "b.jpg"}, doc.Data["images"])
	assert.Equal(t, map[string]interface{}{"owner": oid.Hex()}, doc.Data["meta"])
	assert.Equal(t, 199.99, doc.Data["price"])
}

func TestFromBSONStringID(t *testing.T) {
	doc := fromBSON(bson.M{"_id": "malibu", "name": "Malibu"})
	assert.Equal(t, "malibu", doc.ID)
	assert.Equal(t, "Malibu", doc.Data["name"])
}
