package domain

import "github.com/atvirokodosprendimai/eventcatalog/internal/core/schema"

const (
	CityNameMaxLength        = 100
	CitySlugMaxLength        = 50
	CityDescriptionMaxLength = 5000
	EventNameMaxLength       = 200
	EventSlugMaxLength       = 100
	EventDescriptionMaxLen   = 10000
	URLMaxLength             = 500
	SearchMaxLength          = 100
	MaxEventPrice            = 100_000_000
	MaxCheckoutQuantity      = 10
)

var (
	CreateCitySchema = schema.Object(
		schema.String("name").MinLength(1).MaxLength(CityNameMaxLength).Transform(schema.PlainText(CityNameMaxLength)),
		schema.String("slug").MinLength(1).MaxLength(CitySlugMaxLength).Transform(schema.Slug(CitySlugMaxLength)),
		schema.String("description").Optional().MaxLength(CityDescriptionMaxLength).Transform(schema.RichText(CityDescriptionMaxLength)),
		schema.String("imageUrl").Optional().MaxLength(URLMaxLength).Transform(schema.URL()),
	)

	UpdateCitySchema = CreateCitySchema.Partial()

	CreateEventSchema = schema.Object(
		schema.String("name").MinLength(1).MaxLength(EventNameMaxLength).Transform(schema.PlainText(EventNameMaxLength)),
		schema.String("slug").MinLength(1).MaxLength(EventSlugMaxLength).Transform(schema.Slug(EventSlugMaxLength)),
		schema.String("description").Optional().MaxLength(EventDescriptionMaxLen).Transform(schema.RichText(EventDescriptionMaxLen)),
		schema.String("date").Format("date-time"),
		schema.Int("price").Min(0).Max(MaxEventPrice),
		schema.Enum("currency", Currencies...).Default(DefaultCurrency),
		schema.Enum("category", EventCategories...).Default(DefaultCategory),
		schema.String("imageUrl").Optional().MaxLength(URLMaxLength).Transform(schema.URL()),
		schema.String("url").Optional().MaxLength(URLMaxLength).Transform(schema.URL()),
		schema.String("citySlug").MinLength(1).MaxLength(CitySlugMaxLength).Transform(schema.Slug(CitySlugMaxLength)),
	)

	UpdateEventSchema = CreateEventSchema.Partial()

	ListQuerySchema = schema.Object(
		schema.Int("limit").Min(1).Max(100).Coerce(50),
		schema.Int("offset").Min(0).Coerce(0),
		schema.String("search").Optional().MaxLength(SearchMaxLength).Transform(schema.PlainText(SearchMaxLength)),
	)

	EventListQuerySchema = ListQuerySchema.Extend(
		schema.String("citySlug").Optional().Transform(schema.Slug(CitySlugMaxLength)),
		schema.Enum("category", EventCategories...).Optional(),
		schema.String("from").Optional().Format("date-time"),
	)

	CheckoutSchema = schema.Object(
		schema.String("eventId").Transform(schema.UUID()),
		schema.Int("quantity").Min(1).Max(MaxCheckoutQuantity).Default(1),
		schema.String("email").Optional().MaxLength(254).Format("email").Transform(schema.PlainText(254)),
	)

	SlugParam = schema.String("slug").Transform(schema.Slug(CitySlugMaxLength)).Compile()
	IDParam   = schema.String("id").Transform(schema.UUID()).Compile()
	// checkout session ids are opaque provider identifiers
	SessionIDParam = schema.String("id").MinLength(1).MaxLength(255).Pattern(`^[A-Za-z0-9_]+$`).Compile()
)
