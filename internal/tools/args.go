package tools

// Args holds validated tool arguments. JSON numbers stay float64 until the
// typed accessors convert them at the point of use. Absence is meaningful:
// callers check Has before reading optional keys so that an explicitly
// empty array is never confused with an omitted one.
type Args map[string]any

// Has reports whether the argument was supplied by the caller (or filled
// from a schema default).
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the argument as a string, or "" if absent.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Int returns the argument as an int, or 0 if absent.
func (a Args) Int(key string) int {
	f, _ := a[key].(float64)
	return int(f)
}

// Bool returns the argument as a bool, or false if absent.
func (a Args) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// Strings returns an array argument as []string. An empty (but present)
// array yields an empty non-nil slice.
func (a Args) Strings(key string) []string {
	raw, ok := a[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Objects returns an array-of-objects argument.
func (a Args) Objects(key string) []map[string]any {
	raw, ok := a[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
