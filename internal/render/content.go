package render

import "reflect"

// HasContent reports whether a section holds at least one non-empty field
// anywhere in it. Templates use this one shared predicate to suppress empty
// section headings; it is a property of the Document, not of any template's
// layout, so it lives here rather than being duplicated per template.
func HasContent(v interface{}) bool {
	return hasContentValue(reflect.ValueOf(v))
}

func hasContentValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return false
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return false
		}
		return hasContentValue(v.Elem())
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			// Synthetic ids do not count as content.
			if v.Type().Field(i).Name == "ID" {
				continue
			}
			if hasContentValue(v.Field(i)) {
				return true
			}
		}
		return false
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if hasContentValue(v.Index(i)) {
				return true
			}
		}
		return false
	case reflect.Map:
		for _, k := range v.MapKeys() {
			if k.Kind() == reflect.String && k.String() == "id" {
				continue
			}
			if hasContentValue(v.MapIndex(k)) {
				return true
			}
		}
		return false
	case reflect.String:
		return v.String() != ""
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0
	default:
		return false
	}
}
