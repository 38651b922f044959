package schema

import "time"

// Values holds the validated field values handed to Schema.Build. Accessors
// return the zero value for fields that validated to null.
type Values map[string]any

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// OptString returns nil for a null field.
func (v Values) OptString(name string) *string {
	s, ok := v[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

func (v Values) Time(name string) time.Time {
	t, _ := v[name].(time.Time)
	return t
}

// Strings returns nil for a null field and a non-nil slice otherwise.
func (v Values) Strings(name string) []string {
	items, ok := v[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i], _ = item.(string)
	}
	return out
}

// List returns the validated elements of a ListOf field.
func (v Values) List(name string) []any {
	items, _ := v[name].([]any)
	return items
}

// Map returns the validated entries of a MapOf field.
func (v Values) Map(name string) map[string]any {
	m, _ := v[name].(map[string]any)
	return m
}

// Record returns the value built by a Nested field, or nil.
func (v Values) Record(name string) any {
	return v[name]
}
