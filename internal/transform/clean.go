// Package transform converts between the relational per-section rows the
// storage layer speaks and the nested Document the wizard edits. All three
// passes (clean, assemble, extract) are pure; storage access stays in the
// repository layer.
package transform

import (
	"strconv"
	"strings"

	"resume-builder/internal/schema"
)

// Clean normalizes one section row (column-named) before it is persisted.
// Integer columns become int64 or nil, JSON-list columns become []interface{}
// of trimmed strings or nil, and any remaining empty string becomes nil —
// NULL, never "", is the canonical "no value" in storage. Clean is
// idempotent: cleaning an already-clean row yields the same row.
func Clean(sec schema.Section, row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for col, val := range row {
		switch {
		case sec.IsInteger(col):
			out[col] = cleanInteger(val)
		case sec.IsJSON(col):
			out[col] = cleanList(val)
		default:
			if s, ok := val.(string); ok && s == "" {
				out[col] = nil
			} else {
				out[col] = val
			}
		}
	}
	return out
}

func cleanInteger(val interface{}) interface{} {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
		return v
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return val
	}
}

func cleanList(val interface{}) interface{} {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		if !strings.Contains(v, ",") {
			return []interface{}{strings.TrimSpace(v)}
		}
		parts := strings.Split(v, ",")
		out := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, it := range v {
			if s, ok := it.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					out = append(out, t)
				}
				continue
			}
			out = append(out, it)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []string:
		out := make([]interface{}, 0, len(v))
		for _, s := range v {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case bool:
		if !v {
			return nil
		}
		return val
	default:
		return val
	}
}
