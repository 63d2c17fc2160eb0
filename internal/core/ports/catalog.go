package ports

import (
	"context"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
)

type CityRepository interface {
	List(ctx context.Context, filter domain.CityFilter) ([]domain.City, int64, error)
	GetBySlug(ctx context.Context, slug string) (domain.City, error)
	Create(ctx context.Context, city domain.City) (domain.City, error)
	Update(ctx context.Context, slug string, patch domain.CityPatch) (domain.City, error)
	Delete(ctx context.Context, slug string) error
}

type EventRepository interface {
	List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int64, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	Update(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error)
	Delete(ctx context.Context, id string) error
	CountByCity(ctx context.Context, citySlug string) (int64, error)
}
