package utils

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SerializeDoc turns a stored document into a wire record: _id becomes a
// string "id" and timestamps become ISO-8601 strings. Everything else is
// passed through, so records that are already wire-shaped come back as is.
func SerializeDoc(doc bson.M) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == "_id" {
			out["id"] = idString(v)
			continue
		}
		out[k] = wireValue(v)
	}
	return out
}

func SerializeDocs(docs []bson.M) []map[string]interface{} {
	out := make([]map[string]interface{}, len(docs))
	for i, d := range docs {
		out[i] = SerializeDoc(d)
	}
	return out
}

// FormatTimestamp renders t as RFC 3339 in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func wireValue(v interface{}) interface{} {
	switch x := v.(type) {
	case time.Time:
		return FormatTimestamp(x)
	case primitive.DateTime:
		return FormatTimestamp(x.Time())
	case primitive.Timestamp:
		return FormatTimestamp(time.Unix(int64(x.T), 0))
	case primitive.ObjectID:
		return x.Hex()
	case bson.M:
		return wireMap(x)
	case map[string]interface{}:
		return wireMap(x)
	case bson.D:
		m := make(map[string]interface{}, len(x))
		for _, e := range x {
			m[e.Key] = wireValue(e.Value)
		}
		return m
	case bson.A:
		return wireSlice(x)
	case []interface{}:
		return wireSlice(x)
	default:
		return v
	}
}

func wireMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = wireValue(v)
	}
	return out
}

func wireSlice(s []interface{}) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = wireValue(v)
	}
	return out
}
