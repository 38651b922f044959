package schema

import (
	"encoding/json"
	"math"
	"time"
)

// Type is the declared shape of a field.
type Type interface {
	// Name is the type as reported in validation errors.
	Name() string
	validate(mode Mode, path string, raw any) (any, error)
}

type scalar struct {
	name    string
	convert func(raw any) (any, bool)
}

func (s scalar) Name() string { return s.name }

func (s scalar) validate(_ Mode, path string, raw any) (any, error) {
	if raw == nil {
		return nil, newValidationError(path, s.name, raw)
	}
	v, ok := s.convert(raw)
	if !ok {
		return nil, newValidationError(path, s.name, raw)
	}
	return v, nil
}

var (
	// String accepts a JSON string.
	String Type = scalar{name: "string", convert: func(raw any) (any, bool) {
		s, ok := raw.(string)
		return s, ok
	}}

	// Bool accepts a JSON boolean.
	Bool Type = scalar{name: "bool", convert: func(raw any) (any, bool) {
		b, ok := raw.(bool)
		return b, ok
	}}

	// Int accepts an integral JSON number and yields int64.
	Int Type = scalar{name: "int", convert: toInt64}

	// Count is an Int that must not be negative.
	Count Type = scalar{name: "non-negative int", convert: func(raw any) (any, bool) {
		n, ok := toInt64(raw)
		if !ok || n.(int64) < 0 {
			return nil, false
		}
		return n, true
	}}

	// Timestamp accepts an RFC 3339 string and yields time.Time.
	Timestamp Type = scalar{name: "RFC 3339 timestamp", convert: func(raw any) (any, bool) {
		switch v := raw.(type) {
		case time.Time:
			return v, true
		case string:
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, false
			}
			return t, true
		}
		return nil, false
	}}
)

func toInt64(raw any) (any, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		// 2^63 and beyond do not convert to int64.
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return nil, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, false
		}
		return n, true
	}
	return nil, false
}

type optional struct{ elem Type }

// Optional accepts null (or an absent key) and otherwise defers to elem.
func Optional(elem Type) Type { return optional{elem: elem} }

func (o optional) Name() string { return "optional " + o.elem.Name() }

func (o optional) validate(mode Mode, path string, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	return o.elem.validate(mode, path, raw)
}

type list struct{ elem Type }

// ListOf accepts a JSON array whose every element is an elem.
func ListOf(elem Type) Type { return list{elem: elem} }

func (l list) Name() string { return "list of " + l.elem.Name() }

func (l list) validate(mode Mode, path string, raw any) (any, error) {
	items, ok := asList(raw)
	if !ok {
		return nil, newValidationError(path, l.Name(), raw)
	}
	out := make([]any, len(items))
	for i, item := range items {
		v, err := l.elem.validate(mode, index(path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	}
	return nil, false
}

type mapping struct{ elem Type }

// MapOf accepts a JSON object whose every value is an elem.
func MapOf(elem Type) Type { return mapping{elem: elem} }

func (m mapping) Name() string { return "map of " + m.elem.Name() }

func (m mapping) validate(mode Mode, path string, raw any) (any, error) {
	obj, ok := asMapping(raw)
	if !ok {
		return nil, newValidationError(path, m.Name(), raw)
	}
	out := make(map[string]any, len(obj))
	for k, item := range obj {
		v, err := m.elem.validate(mode, key(path, k), item)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

type nested struct{ schema *Schema }

// Nested accepts a JSON object and validates it against s.
func Nested(s *Schema) Type { return nested{schema: s} }

func (n nested) Name() string { return n.schema.Name }

func (n nested) validate(mode Mode, path string, raw any) (any, error) {
	if raw == nil {
		return nil, newValidationError(path, n.schema.Name, raw)
	}
	return n.schema.validate(mode, path, raw)
}
