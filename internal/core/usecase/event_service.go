package usecase

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/ports"
)

type EventService struct {
	repo   ports.EventRepository
	cities ports.CityRepository
}

func NewEventService(repo ports.EventRepository, cities ports.CityRepository) *EventService {
	return &EventService{repo: repo, cities: cities}
}

func (s *EventService) List(ctx context.Context, filter domain.EventFilter) (domain.Page[domain.Event], error) {
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	items, count, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.Event]{}, err
	}
	return domain.Page[domain.Event]{Items: items, Count: count, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// ListByCity lists events of an existing city. A missing city is reported
// as not found rather than as an empty page.
func (s *EventService) ListByCity(ctx context.Context, citySlug string, filter domain.EventFilter) (domain.Page[domain.Event], error) {
	if _, err := s.cities.GetBySlug(ctx, citySlug); err != nil {
		return domain.Page[domain.Event]{}, err
	}
	filter.CitySlug = citySlug
	return s.List(ctx, filter)
}

func (s *EventService) Get(ctx context.Context, id string) (domain.Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *EventService) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err := s.ensureCity(ctx, event.CitySlug); err != nil {
		return domain.Event{}, err
	}
	if event.Currency == "" {
		event.Currency = domain.DefaultCurrency
	}
	if event.Category == "" {
		event.Category = domain.DefaultCategory
	}
	return s.repo.Create(ctx, event)
}

func (s *EventService) Update(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	if patch.Empty() {
		return domain.Event{}, ErrEmptyPatch
	}
	if patch.CitySlug != nil {
		if err := s.ensureCity(ctx, *patch.CitySlug); err != nil {
			return domain.Event{}, err
		}
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *EventService) ensureCity(ctx context.Context, slug string) error {
	if _, err := s.cities.GetBySlug(ctx, slug); err != nil {
		if domain.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrCityNotFound, slug)
		}
		return err
	}
	return nil
}
