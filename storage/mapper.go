package storage

import (
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"todo-api/domain"
)

// Stored documents may have passed through older schema versions or partial
// writes, so mapping is total: every field falls back to its zero value
// instead of failing the read.

// ListSummaryFromDoc projects a raw list document onto the enumeration view.
// An absent document yields a zero-value summary.
func ListSummaryFromDoc(doc bson.M) domain.ListSummary {
	if doc == nil {
		return domain.ListSummary{}
	}
	count := 0
	if items, ok := asArray(doc["items"]); ok {
		count = len(items)
	}
	return domain.ListSummary{
		ID:        docID(doc),
		Name:      stringField(doc, "name"),
		ItemCount: count,
	}
}

// ItemFromDoc maps one entry of a list's items array. Entries written by
// current code carry a string "id"; legacy entries may carry "_id" instead.
// Anything that is not document-shaped yields a zero-value item.
func ItemFromDoc(raw interface{}) domain.Item {
	doc, ok := asDoc(raw)
	if !ok {
		return domain.Item{}
	}
	id := stringifyID(doc["id"])
	if id == "" {
		id = stringifyID(doc["_id"])
	}
	checked, _ := doc["checked"].(bool)
	return domain.Item{
		ID:      id,
		Label:   stringField(doc, "label"),
		Checked: checked,
	}
}

// ListFromDoc maps a full list document. A nil document yields nil so callers
// can distinguish "no list" from "empty list".
func ListFromDoc(doc bson.M) *domain.List {
	if doc == nil {
		return nil
	}
	rawItems, _ := asArray(doc["items"])
	items := make([]domain.Item, 0, len(rawItems))
	for _, raw := range rawItems {
		if _, ok := asDoc(raw); !ok {
			log.Warnf("mapping non-document item entry of type %T in list %s", raw, docID(doc))
		}
		items = append(items, ItemFromDoc(raw))
	}
	return &domain.List{
		ID:    docID(doc),
		Name:  stringField(doc, "name"),
		Items: items,
	}
}

// docID extracts a list id, preferring the storage primary key and falling
// back to a secondary "id" field.
func docID(doc bson.M) string {
	if id := stringifyID(doc["_id"]); id != "" {
		return id
	}
	return stringifyID(doc["id"])
}

// stringifyID renders the two id encodings this system writes. Any other
// BSON type cannot be stringified and maps to an absent id.
func stringifyID(raw interface{}) string {
	switch v := raw.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return ""
	}
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

// asDoc accepts both decoded document shapes the driver produces for nested
// values.
func asDoc(raw interface{}) (bson.M, bool) {
	switch v := raw.(type) {
	case bson.M:
		return v, true
	case bson.D:
		m := make(bson.M, len(v))
		for _, e := range v {
			m[e.Key] = e.Value
		}
		return m, true
	default:
		return nil, false
	}
}

func asArray(raw interface{}) ([]interface{}, bool) {
	switch v := raw.(type) {
	case primitive.A:
		return []interface{}(v), true
	case []interface{}:
		return v, true
	default:
		return nil, false
	}
}
