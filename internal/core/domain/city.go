package domain

import "time"

type City struct {
	ID          string
	Name        string
	Slug        string
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CityPatch carries the fields of a partial update. Nil fields are left
// unchanged.
type CityPatch struct {
	Name        *string
	Slug        *string
	Description *string
	ImageURL    *string
}

func (p CityPatch) Empty() bool {
	return p.Name == nil && p.Slug == nil && p.Description == nil && p.ImageURL == nil
}

type CityFilter struct {
	Search string
	Limit  int
	Offset int
}

// Page is one window of a listing together with the total match count.
type Page[T any] struct {
	Items  []T
	Count  int64
	Limit  int
	Offset int
}
