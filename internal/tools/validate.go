package tools

import (
	"math"
	"slices"
	"strings"
)

// Validate checks raw arguments against a tool schema and returns the
// validated Args. It is pure: no defaults are fetched from anywhere but the
// schema, and no I/O happens. Unknown keys are dropped so nothing undeclared
// can leak into an upstream request.
func Validate(schema InputSchema, raw map[string]any) (Args, *Error) {
	var missing []string
	for _, name := range schema.Required {
		v, ok := raw[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, errMissing(missing...)
	}

	args := Args{}
	for name, prop := range schema.Properties {
		v, ok := raw[name]
		if !ok || v == nil {
			if prop.Default != nil {
				args[name] = prop.Default
			}
			continue
		}
		if err := checkValue(name, prop, v); err != nil {
			return nil, err
		}
		args[name] = v
	}
	return args, nil
}

func checkValue(name string, prop Property, v any) *Error {
	switch prop.Type {
	case "string":
		s, ok := v.(string)
		if !ok {
			return errType(name, "string", v)
		}
		if len(prop.Enum) > 0 && !slices.Contains(prop.Enum, s) {
			return errEnum(name, s, prop.Enum)
		}
	case "number":
		if _, ok := v.(float64); !ok {
			return errType(name, "number", v)
		}
	case "integer":
		f, ok := v.(float64)
		if !ok {
			return errType(name, "integer", v)
		}
		if math.Trunc(f) != f {
			return errInvalid("argument %q: %v is not an integer", name, f)
		}
		n := int(f)
		if prop.Minimum != nil && n < *prop.Minimum {
			return errInvalid("argument %q: must be at least %d, got %d", name, *prop.Minimum, n)
		}
		if prop.Maximum != nil && n > *prop.Maximum {
			return errInvalid("argument %q: must be at most %d, got %d", name, *prop.Maximum, n)
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return errType(name, "boolean", v)
		}
	case "array":
		items, ok := v.([]any)
		if !ok {
			return errType(name, "array", v)
		}
		if prop.Items == nil {
			break
		}
		for _, item := range items {
			switch prop.Items.Type {
			case "string":
				if _, ok := item.(string); !ok {
					return errType(name, "array of strings", item)
				}
			case "object":
				if _, ok := item.(map[string]any); !ok {
					return errType(name, "array of objects", item)
				}
			}
		}
	case "object":
		if _, ok := v.(map[string]any); !ok {
			return errType(name, "object", v)
		}
	}
	return nil
}

// joinComma is used for query values that AND multiple filters together,
// e.g. issue labels.
func joinComma(values []string) string {
	return strings.Join(values, ",")
}
