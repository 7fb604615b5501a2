package repository

import (
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decoding helpers shared by the mapBsonToX functions. Numeric fields may come
// back as int32, int64 or double depending on how they were written.

func bsonString(raw bson.M, key string) string {
	s, _ := raw[key].(string)
	return s
}

func bsonInt(raw bson.M, key string) int {
	switch v := raw[key].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func bsonFloat(raw bson.M, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func bsonBool(raw bson.M, key string) bool {
	b, _ := raw[key].(bool)
	return b
}

func bsonTime(raw bson.M, key string) time.Time {
	if dt, ok := raw[key].(primitive.DateTime); ok {
		return dt.Time().UTC()
	}
	return time.Time{}
}

func bsonID(raw bson.M) string {
	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return bsonString(raw, "_id")
}

// bsonDoc normalises an embedded document to bson.M.
func bsonDoc(v interface{}) bson.M {
	switch doc := v.(type) {
	case bson.M:
		return doc
	case bson.D:
		out := make(bson.M, len(doc))
		for _, e := range doc {
			out[e.Key] = e.Value
		}
		return out
	}
	return nil
}

// parseObjectID treats a malformed id as a missing record.
func parseObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return objID, nil
}
