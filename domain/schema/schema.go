// Package schema validates loosely-typed nested mappings, as produced by
// decoding a JSON API response, against declarative record schemas.
//
// A Schema lists its fields in order. Each field has a Type that is one of
// the scalar types, Optional(T), ListOf(T), MapOf(T) or Nested(schema).
// Decode walks the declaration, never the Go type of the target, so adding a
// field to a record only means adding it to the declaration and to Build.
package schema

import (
	"fmt"
	"sort"
)

// Mode controls how keys that are not declared by a schema are treated.
type Mode int

const (
	// Lenient ignores undeclared keys.
	Lenient Mode = iota
	// Strict rejects undeclared keys with a ValidationError.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// Field is one named, typed entry of a Schema.
type Field struct {
	Name string
	Type Type
}

// Schema describes one record type.
type Schema struct {
	Name   string
	Fields []Field
	// Build constructs the record from validated field values. It must not
	// fail: every value it reads has already been checked against Fields.
	Build func(v Values) any
}

// Decode validates raw against s and returns the value produced by s.Build.
func (s *Schema) Decode(raw any, mode Mode) (any, error) {
	return s.validate(mode, "", raw)
}

// Decode is the typed form of Schema.Decode.
func Decode[T any](s *Schema, raw any, mode Mode) (T, error) {
	var zero T
	v, err := s.Decode(raw, mode)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("schema %s builds %T, not %T", s.Name, v, zero)
	}
	return out, nil
}

func (s *Schema) validate(mode Mode, path string, raw any) (any, error) {
	obj, ok := asMapping(raw)
	if !ok {
		return nil, newValidationError(path, s.Name, raw)
	}

	values := make(Values, len(s.Fields))
	for _, f := range s.Fields {
		v, err := f.Type.validate(mode, join(path, f.Name), obj[f.Name])
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}

	if mode == Strict {
		if err := s.rejectUnknown(path, obj); err != nil {
			return nil, err
		}
	}
	return s.Build(values), nil
}

func (s *Schema) rejectUnknown(path string, obj map[string]any) error {
	declared := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		declared[f.Name] = struct{}{}
	}
	var unknown []string
	for k := range obj {
		if _, ok := declared[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &ValidationError{
		Path:   join(path, unknown[0]),
		Reason: fmt.Sprintf("field not declared by %s", s.Name),
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func key(path, k string) string {
	return fmt.Sprintf("%s[%q]", path, k)
}

func asMapping(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	}
	return nil, false
}
