package transform

import (
	"encoding/json"

	"resume-builder/internal/model"
	"resume-builder/internal/schema"
)

// ExtractSection is the inverse of AssembleDocument, scoped to one section
// because persistence is section-granular. It returns the column-named rows
// to store and ok=false when the section holds nothing worth saving — a
// distinct state from "save an empty list", which callers must request
// explicitly.
//
// Experience is special-cased by the fresher flag: fresher on emits exactly
// one sentinel record no matter what the in-memory list holds; fresher off
// emits the filtered real entries with is_fresher=false on every record.
func ExtractSection(sec schema.Section, doc *model.Document) ([]map[string]interface{}, bool) {
	if sec.Key == "experience" && doc.IsFresher {
		return []map[string]interface{}{{"is_fresher": true}}, true
	}

	items := sectionItems(sec, doc)

	kept := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if !itemHasContent(sec, item) {
			continue
		}
		row := make(map[string]interface{}, len(item))
		for field, val := range item {
			if field == "id" {
				continue
			}
			row[sec.Column(field)] = val
		}
		if sec.Key == "experience" {
			row["is_fresher"] = false
		}
		kept = append(kept, Clean(sec, row))
	}
	if len(kept) == 0 {
		return nil, false
	}
	return kept, true
}

// sectionItems pulls the client-shaped items for a section key out of the
// Document, wrapping singletons as one-element slices.
func sectionItems(sec schema.Section, doc *model.Document) []map[string]interface{} {
	if !schema.Known(sec.Key) {
		return doc.Additional[sec.Key]
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	raw, ok := m[sec.Key]
	if !ok {
		return nil
	}

	if sec.Cardinality == schema.Singleton {
		var item map[string]interface{}
		if err := json.Unmarshal(raw, &item); err != nil || len(item) == 0 {
			return nil
		}
		return []map[string]interface{}{item}
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// itemHasContent applies the section's minimal-validity predicate: at least
// one content field (or, for fallback sections, any field) is non-empty.
func itemHasContent(sec schema.Section, item map[string]interface{}) bool {
	if len(sec.ContentFields) == 0 {
		for field, v := range item {
			if field != "id" && !emptyValue(v) {
				return true
			}
		}
		return false
	}
	for _, field := range sec.ContentFields {
		if !emptyValue(item[field]) {
			return true
		}
	}
	return false
}

func emptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	default:
		return false
	}
}
