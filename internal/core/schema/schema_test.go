package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productSchema() Schema {
	return Object(
		String("name").MinLength(1).MaxLength(200).Transform(PlainText(200)),
		Int("price").Min(0),
	)
}

func requireViolations(t *testing.T, err error) *ValidationError {
	t.Helper()
	ve, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T (%v)", err, err)
	return ve
}

func TestParseReportsEveryViolation(t *testing.T) {
	_, err := productSchema().Parse(map[string]any{"name": "", "price": float64(-1)})
	ve := requireViolations(t, err)

	assert.True(t, ve.Has("name"))
	assert.True(t, ve.Has("price"))
	assert.Contains(t, err.Error(), "name:")
	assert.Contains(t, err.Error(), "price:")
	assert.Contains(t, err.Error(), ", ")
}

func TestParseRejectsNonIntegerBeforeTransforms(t *testing.T) {
	called := false
	s := Object(
		String("name").Transform(func(v any) (any, error) {
			called = true
			return v, nil
		}),
		Int("price").Min(0),
	)

	_, err := s.Parse(map[string]any{"name": "<script>a</script>Ok", "price": 19.99})
	ve := requireViolations(t, err)
	assert.True(t, ve.Has("price"))
	assert.False(t, ve.Has("name"))
	assert.True(t, called, "valid fields are still normalized")
}

func TestParseSanitizesAndDropsUndeclaredFields(t *testing.T) {
	out, err := productSchema().Parse(map[string]any{
		"name":    "<b>Jazz</b> night",
		"price":   float64(1500),
		"isAdmin": true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jazz night", out.String("name"))
	assert.Equal(t, 1500, out.Int("price"))
	assert.False(t, out.Has("isAdmin"))
}

func TestParseRequiredAndNull(t *testing.T) {
	_, err := productSchema().Parse(map[string]any{"name": nil})
	ve := requireViolations(t, err)
	assert.Equal(t, []Violation{{Path: "name", Message: "Required"}, {Path: "price", Message: "Required"}}, ve.Violations)
	assert.Equal(t, "name: Required, price: Required", err.Error())
}

func TestParseNonObjectIsRootViolation(t *testing.T) {
	for _, in := range []any{nil, "text", float64(3), []any{}} {
		_, err := productSchema().Parse(in)
		ve := requireViolations(t, err)
		require.Len(t, ve.Violations, 1)
		assert.Equal(t, RootPath, ve.Violations[0].Path)
		assert.True(t, strings.HasPrefix(err.Error(), "root: "))
	}
}

func TestCoerceWithFallback(t *testing.T) {
	s := Object(
		Int("limit").Min(1).Max(100).Coerce(50),
		Int("offset").Min(0).Coerce(0),
	)

	tests := []struct {
		name   string
		in     map[string]any
		limit  int
		offset int
	}{
		{name: "absent", in: map[string]any{}, limit: 50, offset: 0},
		{name: "nan", in: map[string]any{"limit": "NaN", "offset": "NaN"}, limit: 50, offset: 0},
		{name: "zero", in: map[string]any{"limit": "0"}, limit: 50, offset: 0},
		{name: "numeric", in: map[string]any{"limit": "20", "offset": "40"}, limit: 20, offset: 40},
		{name: "leading digits", in: map[string]any{"limit": "12abc"}, limit: 12, offset: 0},
		{name: "clamped high", in: map[string]any{"limit": "5000"}, limit: 100, offset: 0},
		{name: "clamped low", in: map[string]any{"offset": "-5"}, limit: 50, offset: 0},
		{name: "json number", in: map[string]any{"limit": float64(7)}, limit: 7, offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.limit, out.Int("limit"))
			assert.Equal(t, tt.offset, out.Int("offset"))
		})
	}
}

func TestDefaultsAndEnums(t *testing.T) {
	s := Object(Enum("currency", "eur", "usd").Default("eur"))

	out, err := s.Parse(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "eur", out.String("currency"))

	_, err = s.Parse(map[string]any{"currency": "btc"})
	ve := requireViolations(t, err)
	assert.True(t, ve.Has("currency"))
}

func TestFormatAssertion(t *testing.T) {
	s := Object(String("date").Format("date-time"))

	_, err := s.Parse(map[string]any{"date": "tomorrow"})
	ve := requireViolations(t, err)
	assert.True(t, ve.Has("date"))

	out, err := s.Parse(map[string]any{"date": "2025-06-01T19:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, 2025, out.Time("date").Year())
}

func TestTransformErrorBecomesViolation(t *testing.T) {
	s := Object(String("slug").Transform(Slug(50)))

	_, err := s.Parse(map[string]any{"slug": "Not A Slug"})
	ve := requireViolations(t, err)
	assert.Equal(t, []Violation{{Path: "slug", Message: "Slug can only contain lowercase letters, numbers, and hyphens"}}, ve.Violations)
}

func TestParseIsIdempotent(t *testing.T) {
	s := Object(
		String("name").MinLength(1).Transform(PlainText(100)),
		String("site").Optional().Transform(URL()),
		String("slug").Transform(Slug(50)),
		Int("limit").Min(1).Max(100).Coerce(50),
		Enum("kind", "a", "b").Default("a"),
	)

	first, err := s.Parse(map[string]any{
		"name":  "Tom & <i>Jerry</i>",
		"site":  "https://example.com/?a=1&b=2",
		"slug":  "tom-and-jerry",
		"limit": "500",
	})
	require.NoError(t, err)

	second, err := s.Parse(map[string]any(first))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseDoesNotMutateInput(t *testing.T) {
	in := map[string]any{"name": "<b>x</b>", "price": float64(1), "extra": 1}
	_, err := productSchema().Parse(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "<b>x</b>", "price": float64(1), "extra": 1}, in)
}

func TestCompositionReturnsNewSchemas(t *testing.T) {
	base := productSchema()

	extended := base.Extend(String("note").Optional(), Int("price").Min(10))
	assert.Len(t, base.Fields(), 2)
	assert.Len(t, extended.Fields(), 3)

	_, err := extended.Parse(map[string]any{"name": "x", "price": float64(5)})
	assert.Error(t, err, "replaced field keeps its new bound")
	_, err = base.Parse(map[string]any{"name": "x", "price": float64(5)})
	assert.NoError(t, err)

	omitted := base.Omit("price")
	_, ok := omitted.Field("price")
	assert.False(t, ok)
	_, ok = base.Field("price")
	assert.True(t, ok)

	partial := base.Partial()
	out, err := partial.Parse(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, out)
	_, err = base.Parse(map[string]any{})
	assert.Error(t, err)
}

func TestPartialDropsDefaults(t *testing.T) {
	s := Object(Enum("category", "other", "concert").Default("other")).Partial()
	out, err := s.Parse(map[string]any{})
	require.NoError(t, err)
	assert.False(t, out.Has("category"))
}

func TestFieldParseUsesRootPath(t *testing.T) {
	f := String("slug").Transform(Slug(50))

	v, err := f.Parse("vilnius")
	require.NoError(t, err)
	assert.Equal(t, "vilnius", v)

	_, err = f.Parse("Bad Slug")
	ve := requireViolations(t, err)
	assert.Equal(t, RootPath, ve.Violations[0].Path)

	_, err = f.Parse(nil)
	assert.EqualError(t, err, "root: Required")
}

func TestUUIDTransform(t *testing.T) {
	f := String("id").Transform(UUID())

	v, err := f.Parse("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	require.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", v)

	_, err = f.Parse("nope")
	assert.EqualError(t, err, "root: Invalid UUID")
}
