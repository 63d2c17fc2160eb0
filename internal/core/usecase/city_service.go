package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/ports"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type CityService struct {
	repo   ports.CityRepository
	events ports.EventRepository
}

func NewCityService(repo ports.CityRepository, events ports.EventRepository) *CityService {
	return &CityService{repo: repo, events: events}
}

func (s *CityService) List(ctx context.Context, filter domain.CityFilter) (domain.Page[domain.City], error) {
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	items, count, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.City]{}, err
	}
	return domain.Page[domain.City]{Items: items, Count: count, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *CityService) Get(ctx context.Context, slug string) (domain.City, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *CityService) Create(ctx context.Context, city domain.City) (domain.City, error) {
	return s.repo.Create(ctx, city)
}

func (s *CityService) Update(ctx context.Context, slug string, patch domain.CityPatch) (domain.City, error) {
	if patch.Empty() {
		return domain.City{}, ErrEmptyPatch
	}
	return s.repo.Update(ctx, slug, patch)
}

// Delete refuses to remove a city that events still reference.
func (s *CityService) Delete(ctx context.Context, slug string) error {
	if _, err := s.repo.GetBySlug(ctx, slug); err != nil {
		return err
	}
	n, err := s.events.CountByCity(ctx, slug)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCityHasEvents
	}
	return s.repo.Delete(ctx, slug)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
