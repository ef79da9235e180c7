package transform

import (
	"encoding/json"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/schema"
)

// ResumeRow is the résumé's own metadata row as returned by storage.
type ResumeRow struct {
	ID         string
	UserID     string
	Name       string
	TemplateID string
	Completion int
	UpdatedAt  time.Time
}

// AssembleDocument builds the canonical Document from the per-table row
// arrays of one full-résumé fetch. Missing or malformed section arrays
// default to empty — a résumé with no projects yet is a normal state, not an
// error. Singletons take element zero or an empty default, so callers never
// see an absent declared section. Date values pass through as ISO strings;
// display formatting is a rendering concern.
func AssembleDocument(resume ResumeRow, content map[string][]map[string]interface{}, enabled []string) (*model.Document, error) {
	docMap := map[string]interface{}{
		"id":         resume.ID,
		"userId":     resume.UserID,
		"name":       resume.Name,
		"templateId": resume.TemplateID,
		"completion": resume.Completion,
		"updatedAt":  resume.UpdatedAt.Format(time.RFC3339),
		"sections":   enabled,
	}

	additional := map[string]interface{}{}
	isFresher := false

	for _, key := range enabled {
		sec := schema.Resolve(key)
		rows := content[sec.Key]

		items := make([]interface{}, 0, len(rows))
		for i, row := range rows {
			item := rowToItem(sec, row, i)
			if sec.Key == "experience" {
				if truthy(row["is_fresher"]) {
					// Sentinel row: it marks the fresher state and carries no
					// real entry data.
					isFresher = true
					continue
				}
			}
			items = append(items, item)
		}

		if sec.Cardinality == schema.Singleton {
			if len(items) > 0 {
				docMap[sec.Key] = items[0]
			} else {
				docMap[sec.Key] = map[string]interface{}{}
			}
			continue
		}
		if schema.Known(sec.Key) {
			docMap[sec.Key] = items
		} else {
			additional[sec.Key] = items
		}
	}

	docMap["isFresher"] = isFresher
	if len(additional) > 0 {
		docMap["additional"] = additional
	}

	b, err := json.Marshal(docMap)
	if err != nil {
		return nil, err
	}
	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// rowToItem maps one storage row through the inverse field dictionary and
// reconstructs the synthetic id the client needs for list-item identity.
func rowToItem(sec schema.Section, row map[string]interface{}, idx int) map[string]interface{} {
	item := make(map[string]interface{}, len(row)+1)
	for col, val := range row {
		if col == sec.IDField || col == "resume_id" {
			continue
		}
		if sec.IsJSON(col) {
			val = decodeList(val)
		}
		if t, ok := val.(time.Time); ok {
			val = t.Format("2006-01-02")
		}
		item[sec.ClientField(col)] = val
	}
	if id, ok := numericID(row[sec.IDField]); ok {
		item["id"] = id
	} else {
		// Freshly added, never-persisted item: give it a stable synthetic id.
		item["id"] = time.Now().UnixMilli() + int64(idx)
	}
	return item
}

func numericID(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, n > 0
	case int:
		return int64(n), n > 0
	case float64:
		return int64(n), n > 0
	default:
		return 0, false
	}
}

func decodeList(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return t
	case []string:
		out := make([]interface{}, 0, len(t))
		for _, s := range t {
			out = append(out, s)
		}
		return out
	case string:
		var arr []interface{}
		if err := json.Unmarshal([]byte(t), &arr); err == nil {
			return arr
		}
		return []interface{}{t}
	case []byte:
		var arr []interface{}
		if err := json.Unmarshal(t, &arr); err == nil {
			return arr
		}
		return nil
	default:
		return v
	}
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "t" || t == "1"
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return false
	}
}
