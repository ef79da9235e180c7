package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/schema"
)

// The Document mutates only through this closed set of named transitions,
// applied by Apply. Keeping mutation out of the HTTP layer is what makes the
// completion and round-trip properties testable without a server.

type ActionType string

const (
	SetContact     ActionType = "SET_CONTACT"
	SetSummary     ActionType = "SET_SUMMARY"
	SetDeclaration ActionType = "SET_DECLARATION"
	SetName        ActionType = "SET_NAME"
	SetTemplate    ActionType = "SET_TEMPLATE"
	SetFresher     ActionType = "SET_FRESHER"
	SetSections    ActionType = "SET_SECTIONS"
	AddItem        ActionType = "ADD_ITEM"
	UpdateItem     ActionType = "UPDATE_ITEM"
	RemoveItem     ActionType = "REMOVE_ITEM"

	// ReplaceItems swaps a section's entire content. Both the per-section
	// save and the bulk save funnel through this one transition, so the two
	// paths cannot disagree on mapping or completion.
	ReplaceItems ActionType = "REPLACE_ITEMS"
)

type Action struct {
	Type    ActionType
	Section string
	ItemID  int64
	Item    map[string]interface{}
	Items   []map[string]interface{}

	Contact     *model.Contact
	Summary     *model.Summary
	Declaration *model.Declaration
	Name        string
	Template    string
	Fresher     bool
	Sections    []string
}

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrNotListSection = errors.New("section does not hold a list")
	ErrItemNotFound   = errors.New("item not found")
)

// Apply returns a new Document with the action applied and completion
// recomputed. The input Document is never mutated.
func Apply(doc *model.Document, a Action) (*model.Document, error) {
	next, err := cloneDoc(doc)
	if err != nil {
		return nil, err
	}

	switch a.Type {
	case SetContact:
		if a.Contact != nil {
			next.Contact = *a.Contact
		}
	case SetSummary:
		if a.Summary != nil {
			next.Summary = *a.Summary
		}
	case SetDeclaration:
		if a.Declaration != nil {
			next.Declaration = *a.Declaration
		}
	case SetName:
		next.Name = a.Name
	case SetTemplate:
		next.TemplateID = a.Template
	case SetFresher:
		// Toggling fresher on keeps the real entries in the Document; they
		// are only suppressed from extraction while the flag holds. Toggling
		// it off makes them extractable again.
		next.IsFresher = a.Fresher
	case SetSections:
		next.Sections = a.Sections
	case AddItem, UpdateItem, RemoveItem:
		if err := applyItemAction(next, a); err != nil {
			return nil, err
		}
	case ReplaceItems:
		if err := applyReplaceItems(next, a); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, a.Type)
	}

	next.UpdatedAt = time.Now().UTC()
	next.Completion = Compute(next).Percent
	return next, nil
}

// applyItemAction edits a list section generically through the Document's
// JSON shape, so typed and fallback sections share one code path.
func applyItemAction(doc *model.Document, a Action) error {
	sec := schema.Resolve(a.Section)
	if sec.Cardinality == schema.Singleton {
		return fmt.Errorf("%w: %s", ErrNotListSection, a.Section)
	}

	if !schema.Known(a.Section) {
		items := doc.Additional[a.Section]
		next, err := editItems(items, a)
		if err != nil {
			return err
		}
		if doc.Additional == nil {
			doc.Additional = map[string][]map[string]interface{}{}
		}
		doc.Additional[a.Section] = next
		return nil
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var items []map[string]interface{}
	if raw, ok := m[a.Section]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("%w: %s", ErrNotListSection, a.Section)
		}
	}

	next, err := editItems(items, a)
	if err != nil {
		return err
	}

	nb, err := json.Marshal(next)
	if err != nil {
		return err
	}
	m[a.Section] = nb
	full, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(full, doc)
}

// applyReplaceItems swaps the whole section content: list sections take the
// item array as-is, singletons take its first element (or empty).
func applyReplaceItems(doc *model.Document, a Action) error {
	sec := schema.Resolve(a.Section)
	items := a.Items
	if items == nil {
		items = []map[string]interface{}{}
	}

	if !schema.Known(a.Section) {
		if doc.Additional == nil {
			doc.Additional = map[string][]map[string]interface{}{}
		}
		doc.Additional[a.Section] = items
		return nil
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}

	var value interface{}
	if sec.Cardinality == schema.Singleton {
		if len(items) > 0 {
			value = items[0]
		} else {
			value = map[string]interface{}{}
		}
	} else {
		value = items
	}
	vb, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m[a.Section] = vb

	full, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(full, doc)
}

func editItems(items []map[string]interface{}, a Action) ([]map[string]interface{}, error) {
	switch a.Type {
	case AddItem:
		item := a.Item
		if item == nil {
			item = map[string]interface{}{}
		}
		if _, ok := item["id"]; !ok {
			item["id"] = time.Now().UnixMilli()
		}
		return append(items, item), nil
	case UpdateItem:
		for i, it := range items {
			if itemID(it) == a.ItemID {
				updated := a.Item
				if updated == nil {
					updated = map[string]interface{}{}
				}
				updated["id"] = a.ItemID
				items[i] = updated
				return items, nil
			}
		}
		return nil, fmt.Errorf("%w: id %d", ErrItemNotFound, a.ItemID)
	case RemoveItem:
		out := items[:0]
		found := false
		for _, it := range items {
			if itemID(it) == a.ItemID {
				found = true
				continue
			}
			out = append(out, it)
		}
		if !found {
			return nil, fmt.Errorf("%w: id %d", ErrItemNotFound, a.ItemID)
		}
		return out, nil
	}
	return nil, ErrUnknownAction
}

func itemID(item map[string]interface{}) int64 {
	switch v := item["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func cloneDoc(doc *model.Document) (*model.Document, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out model.Document
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
