package schema

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int64
}

type shape struct {
	Name    string
	Label   *string
	Points  []point
	Tags    []string
	Created time.Time
	Origin  *point
	Weights map[string]any
}

var pointSchema = &Schema{
	Name: "Point",
	Fields: []Field{
		{Name: "x", Type: Int},
		{Name: "y", Type: Count},
	},
	Build: func(v Values) any { return point{X: v.Int("x"), Y: v.Int("y")} },
}

var shapeSchema = &Schema{
	Name: "Shape",
	Fields: []Field{
		{Name: "name", Type: String},
		{Name: "label", Type: Optional(String)},
		{Name: "points", Type: ListOf(Nested(pointSchema))},
		{Name: "tags", Type: Optional(ListOf(String))},
		{Name: "created", Type: Timestamp},
		{Name: "origin", Type: Optional(Nested(pointSchema))},
		{Name: "weights", Type: MapOf(Int)},
	},
	Build: func(v Values) any {
		s := shape{
			Name:    v.String("name"),
			Label:   v.OptString("label"),
			Tags:    v.Strings("tags"),
			Created: v.Time("created"),
			Weights: v.Map("weights"),
		}
		for _, p := range v.List("points") {
			s.Points = append(s.Points, p.(point))
		}
		if o, ok := v.Record("origin").(point); ok {
			s.Origin = &o
		}
		return s
	},
}

func decodeJSON(t *testing.T, body string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestDecode_FullPayload(t *testing.T) {
	raw := decodeJSON(t, `{
		"name": "triangle",
		"label": "tri",
		"points": [{"x": -1, "y": 2}, {"x": 3, "y": 4}],
		"tags": ["a", "b"],
		"created": "2024-03-01T10:00:00Z",
		"origin": {"x": 0, "y": 0},
		"weights": {"a": 1, "b": 2}
	}`)

	got, err := Decode[shape](shapeSchema, raw, Lenient)
	require.NoError(t, err)

	label := "tri"
	assert.Equal(t, shape{
		Name:    "triangle",
		Label:   &label,
		Points:  []point{{X: -1, Y: 2}, {X: 3, Y: 4}},
		Tags:    []string{"a", "b"},
		Created: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Origin:  &point{},
		Weights: map[string]any{"a": int64(1), "b": int64(2)},
	}, got)
}

func TestDecode_OptionalFieldsAbsent(t *testing.T) {
	raw := decodeJSON(t, `{"name": "empty", "points": [], "created": "2024-03-01T10:00:00Z", "weights": {}}`)

	got, err := Decode[shape](shapeSchema, raw, Lenient)
	require.NoError(t, err)
	assert.Nil(t, got.Label)
	assert.Nil(t, got.Tags)
	assert.Nil(t, got.Origin)
	assert.Empty(t, got.Points)
}

func TestDecode_EmptyListIsNotNull(t *testing.T) {
	raw := decodeJSON(t, `{"name": "n", "points": [], "tags": [], "created": "2024-03-01T10:00:00Z", "weights": {}}`)

	got, err := Decode[shape](shapeSchema, raw, Lenient)
	require.NoError(t, err)
	require.NotNil(t, got.Tags)
	assert.Len(t, got.Tags, 0)
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		path     string
		expected string
		got      string
	}{
		{
			name:     "missing required scalar",
			body:     `{"points": [], "created": "2024-03-01T10:00:00Z", "weights": {}}`,
			path:     "name",
			expected: "string",
			got:      "null",
		},
		{
			name:     "wrong scalar type",
			body:     `{"name": 7, "points": [], "created": "2024-03-01T10:00:00Z", "weights": {}}`,
			path:     "name",
			expected: "string",
			got:      "number",
		},
		{
			name:     "list given an object",
			body:     `{"name": "n", "points": {"x": 1}, "created": "2024-03-01T10:00:00Z", "weights": {}}`,
			path:     "points",
			expected: "list of Point",
			got:      "object",
		},
		{
			name:     "bad nested element",
			body:     `{"name": "n", "points": [{"x": 1, "y": 1}, {"x": 1.5, "y": 1}], "created": "2024-03-01T10:00:00Z", "weights": {}}`,
			path:     "points[1].x",
			expected: "int",
			got:      "number",
		},
		{
			name:     "int beyond int64 range",
			body:     `{"name": "n", "points": [{"x": 1e19, "y": 1}], "created": "2024-03-01T10:00:00Z", "weights": {}}`,
			path:     "points[0].x",
			expected: "int",
			got:      "number",
		},
		{
			name:     "negative int beyond int64 range",
			body:     `{"name": "n", "points": [{"x": -1e19, "y": 1}], "created": "2024-03-01T10:00:00Z", "weights": {}}`,
			path:     "points[0].x",
			expected: "int",
			got:      "number",
		},
		{
			name:     "negative count",
			body:     `{"name": "n", "points": [{"x": 1, "y": -1}], "created": "2024-03-01T10:00:00Z", "weights": {}}`,
			path:     "points[0].y",
			expected: "non-negative int",
			got:      "number",
		},
		{
			name:     "bad timestamp",
			body:     `{"name": "n", "points": [], "created": "yesterday", "weights": {}}`,
			path:     "created",
			expected: "RFC 3339 timestamp",
			got:      "string",
		},
		{
			name:     "bad map value",
			body:     `{"name": "n", "points": [], "created": "2024-03-01T10:00:00Z", "weights": {"a": "heavy"}}`,
			path:     `weights["a"]`,
			expected: "int",
			got:      "string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shapeSchema.Decode(decodeJSON(t, tt.body), Lenient)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.path, verr.Path)
			assert.Equal(t, tt.expected, verr.Expected)
			assert.Equal(t, tt.got, verr.Got)
		})
	}
}

func TestDecode_NonObjectRoot(t *testing.T) {
	_, err := pointSchema.Decode([]any{1, 2}, Lenient)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Point", verr.Expected)
	assert.Contains(t, verr.Error(), "<root>")
}

func TestDecode_StrictModeRejectsUnknownKeys(t *testing.T) {
	raw := map[string]any{"x": 1, "y": 2, "z": 3}

	_, err := pointSchema.Decode(raw, Lenient)
	require.NoError(t, err)

	_, err = pointSchema.Decode(raw, Strict)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "z", verr.Path)
	assert.Contains(t, verr.Error(), "not declared by Point")
}

func TestDecode_StrictModeAppliesToNestedRecords(t *testing.T) {
	raw := decodeJSON(t, `{"name": "n", "points": [{"x": 1, "y": 1, "w": 0}], "created": "2024-03-01T10:00:00Z", "weights": {}}`)

	_, err := shapeSchema.Decode(raw, Strict)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "points[0].w", verr.Path)
}

func TestDecode_AcceptsJSONNumber(t *testing.T) {
	got, err := Decode[point](pointSchema, map[string]any{"x": json.Number("12"), "y": int64(3)}, Strict)
	require.NoError(t, err)
	assert.Equal(t, point{X: 12, Y: 3}, got)
}

func TestDecode_Int64Bounds(t *testing.T) {
	got, err := Decode[point](pointSchema, map[string]any{"x": float64(-1 << 63), "y": float64(1 << 62)}, Strict)
	require.NoError(t, err)
	assert.Equal(t, point{X: -1 << 63, Y: 1 << 62}, got)

	_, err = Decode[point](pointSchema, map[string]any{"x": float64(1 << 63), "y": 0}, Strict)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "x", verr.Path)
}

func TestDecode_WrongBuildType(t *testing.T) {
	_, err := Decode[string](pointSchema, map[string]any{"x": 1, "y": 1}, Lenient)
	require.Error(t, err)
}
