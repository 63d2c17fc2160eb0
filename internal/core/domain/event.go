package domain

import "time"

var (
	Currencies      = []string{"eur", "usd", "gbp"}
	EventCategories = []string{"concert", "theatre", "sport", "exhibition", "festival", "conference", "other"}
)

const (
	DefaultCurrency = "eur"
	DefaultCategory = "other"
)

// Event is a dated happening in a city. Price is in minor currency units.
type Event struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Date        time.Time
	Price       int
	Currency    string
	Category    string
	ImageURL    string
	URL         string
	CitySlug    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e Event) Free() bool {
	return e.Price == 0
}

type EventPatch struct {
	Name        *string
	Slug        *string
	Description *string
	Date        *time.Time
	Price       *int
	Currency    *string
	Category    *string
	ImageURL    *string
	URL         *string
	CitySlug    *string
}

func (p EventPatch) Empty() bool {
	return p.Name == nil && p.Slug == nil && p.Description == nil && p.Date == nil &&
		p.Price == nil && p.Currency == nil && p.Category == nil && p.ImageURL == nil &&
		p.URL == nil && p.CitySlug == nil
}

type EventFilter struct {
	CitySlug string
	Category string
	Search   string
	From     *time.Time
	Limit    int
	Offset   int
}
