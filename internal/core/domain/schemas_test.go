package domain

import (
	"strings"
	"testing"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEventInput() map[string]any {
	return map[string]any{
		"name":     "Jazz <em>night</em>",
		"slug":     "jazz-night",
		"date":     "2026-06-01T19:00:00Z",
		"price":    float64(1500),
		"citySlug": "vilnius",
	}
}

func TestCreateEventSchemaAppliesDefaults(t *testing.T) {
	out, err := CreateEventSchema.Parse(validEventInput())
	require.NoError(t, err)

	assert.Equal(t, "Jazz night", out.String("name"))
	assert.Equal(t, DefaultCurrency, out.String("currency"))
	assert.Equal(t, DefaultCategory, out.String("category"))
	assert.Equal(t, 1500, out.Int("price"))
	assert.False(t, out.Has("description"))
}

func TestCreateEventSchemaRejectsFractionalPrice(t *testing.T) {
	in := validEventInput()
	in["name"] = "<script>a</script>Ok"
	in["price"] = 19.99

	_, err := CreateEventSchema.Parse(in)
	var ve *schema.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("price"))
	assert.False(t, ve.Has("name"))
}

func TestCreateCitySchema(t *testing.T) {
	out, err := CreateCitySchema.Parse(map[string]any{
		"name":        "Vilnius<img src=x onerror=alert(1)>",
		"slug":        "vilnius",
		"description": `<p onclick="x()">Capital</p><script>bad()</script>`,
		"imageUrl":    "https://example.com/vilnius.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "Vilnius", out.String("name"))
	assert.Equal(t, "<p>Capital</p>", out.String("description"))
	assert.Equal(t, "https://example.com/vilnius.jpg", out.String("imageUrl"))
}

func TestCreateCitySchemaIsIdempotentNearCap(t *testing.T) {
	pad := strings.Repeat("a", CityNameMaxLength-2)
	for _, tail := range []string{"<1", ">1", "&1", "<<", "&&"} {
		in := map[string]any{
			"name":        pad + tail,
			"slug":        "x",
			"description": strings.Repeat("b", CityDescriptionMaxLength-2) + "&x",
		}
		once, err := CreateCitySchema.Parse(in)
		require.NoError(t, err, tail)

		twice, err := CreateCitySchema.Parse(map[string]any(once))
		require.NoError(t, err, tail)
		assert.Equal(t, once, twice, "tail %q", tail)
		assert.LessOrEqual(t, len([]rune(once.String("name"))), CityNameMaxLength)
	}
}

func TestCreateCitySchemaMessages(t *testing.T) {
	_, err := CreateCitySchema.Parse(map[string]any{
		"name":     "Vilnius",
		"slug":     "Vilnius City",
		"imageUrl": "ftp://example.com/x.png",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slug: Slug can only contain lowercase letters, numbers, and hyphens")
	assert.Contains(t, err.Error(), "imageUrl: URL must use HTTP or HTTPS protocol")
}

func TestUpdateSchemasAreOptional(t *testing.T) {
	out, err := UpdateEventSchema.Parse(map[string]any{"price": float64(0)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"price": float64(0)}, map[string]any(out))

	out, err = UpdateCitySchema.Parse(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestListQuerySchemaCoercesPagination(t *testing.T) {
	out, err := EventListQuerySchema.Parse(map[string]any{"limit": "NaN", "offset": "x", "category": "concert"})
	require.NoError(t, err)
	assert.Equal(t, 50, out.Int("limit"))
	assert.Equal(t, 0, out.Int("offset"))
	assert.Equal(t, "concert", out.String("category"))
}

func TestCheckoutSchema(t *testing.T) {
	out, err := CheckoutSchema.Parse(map[string]any{"eventId": "6f9619ff-8b86-d011-b42d-00c04fc964ff"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Int("quantity"))

	_, err = CheckoutSchema.Parse(map[string]any{"eventId": "x", "quantity": float64(11), "email": "nope"})
	var ve *schema.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("eventId"))
	assert.True(t, ve.Has("quantity"))
	assert.True(t, ve.Has("email"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(RecordNotFound("city")))
	assert.False(t, IsNotFound(NewKnownError(CodeUniqueViolation, "dup", nil)))
	assert.False(t, IsNotFound(nil))
}
