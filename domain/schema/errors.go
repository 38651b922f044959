package schema

import (
	"fmt"
	"time"
)

// ValidationError reports the first field that did not match its declared
// type.
type ValidationError struct {
	// Path locates the field, e.g. "items[0].snippet.title".
	Path     string
	Expected string
	// Got describes the offending value: "null", "string", "number", ...
	Got    string
	Reason string
}

func (e *ValidationError) Error() string {
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	if e.Reason != "" {
		return fmt.Sprintf("validation failed at %q: %s", path, e.Reason)
	}
	return fmt.Sprintf("validation failed at %q: expected %s, got %s", path, e.Expected, e.Got)
}

func newValidationError(path, expected string, raw any) *ValidationError {
	return &ValidationError{Path: path, Expected: expected, Got: describe(raw)}
}

func describe(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int, int32, int64:
		return "number"
	case time.Time:
		return "time"
	case []any, []string, []map[string]any:
		return "list"
	case map[string]any, map[string]string:
		return "object"
	}
	return fmt.Sprintf("%T", raw)
}
