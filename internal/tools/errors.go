package tools

import (
	"fmt"
	"strings"
)

// Kind classifies a failed tool invocation.
type Kind string

const (
	KindUnknownTool       Kind = "unknown_tool"
	KindMissingArgument   Kind = "missing_argument"
	KindTypeMismatch      Kind = "type_mismatch"
	KindInvalidEnumValue  Kind = "invalid_enum_value"
	KindInvalidArgument   Kind = "invalid_argument"
	KindAmbiguousRequest  Kind = "ambiguous_request"
	KindUpstreamFailure   Kind = "upstream_failure"
	KindUpstreamAmbiguous Kind = "upstream_ambiguous"
)

// Error is a failed tool invocation. Status and Body are only set for
// upstream failures, where they carry the HTTP status and response body
// verbatim.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errUnknownTool(name string) *Error {
	return &Error{Kind: KindUnknownTool, Message: fmt.Sprintf("unknown tool %q", name)}
}

func errMissing(names ...string) *Error {
	return &Error{Kind: KindMissingArgument, Message: "missing required argument(s): " + strings.Join(names, ", ")}
}

func errType(name, want string, got any) *Error {
	return &Error{Kind: KindTypeMismatch, Message: fmt.Sprintf("argument %q: expected %s, got %s", name, want, typeName(got))}
}

func errEnum(name string, got string, allowed []string) *Error {
	return &Error{Kind: KindInvalidEnumValue, Message: fmt.Sprintf("argument %q: %q is not one of [%s]", name, got, strings.Join(allowed, ", "))}
}

func errInvalid(format string, a ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, a...)}
}

func errAmbiguous(msg string) *Error {
	return &Error{Kind: KindAmbiguousRequest, Message: msg}
}

func errUpstream(status int, body string) *Error {
	return &Error{Kind: KindUpstreamFailure, Message: "upstream request failed", Status: status, Body: body}
}

func errUpstreamAmbiguous(msg string) *Error {
	return &Error{Kind: KindUpstreamAmbiguous, Message: msg}
}

// typeName reports the JSON type of a decoded value for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
