package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
)

func TestEventServiceCreateRequiresCity(t *testing.T) {
	cities := &stubCityRepo{getFn: func(context.Context, string) (domain.City, error) {
		return domain.City{}, domain.RecordNotFound("city")
	}}
	created := false
	events := &stubEventRepo{createFn: func(_ context.Context, e domain.Event) (domain.Event, error) {
		created = true
		return e, nil
	}}

	_, err := NewEventService(events, cities).Create(context.Background(), domain.Event{Name: "Jazz", CitySlug: "atlantis"})
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected city not found, got %v", err)
	}
	if created {
		t.Fatal("event must not be created")
	}
}

func TestEventServiceCreateFillsDefaults(t *testing.T) {
	var got domain.Event
	events := &stubEventRepo{createFn: func(_ context.Context, e domain.Event) (domain.Event, error) {
		got = e
		return e, nil
	}}

	_, err := NewEventService(events, &stubCityRepo{}).Create(context.Background(), domain.Event{Name: "Jazz", CitySlug: "vilnius", Date: time.Now()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Currency != domain.DefaultCurrency || got.Category != domain.DefaultCategory {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestEventServiceUpdateChecksNewCity(t *testing.T) {
	cities := &stubCityRepo{getFn: func(_ context.Context, slug string) (domain.City, error) {
		if slug == "kaunas" {
			return domain.City{Slug: slug}, nil
		}
		return domain.City{}, domain.RecordNotFound("city")
	}}
	svc := NewEventService(&stubEventRepo{}, cities)

	ok := "kaunas"
	if _, err := svc.Update(context.Background(), "e1", domain.EventPatch{CitySlug: &ok}); err != nil {
		t.Fatalf("update: %v", err)
	}

	bad := "atlantis"
	if _, err := svc.Update(context.Background(), "e1", domain.EventPatch{CitySlug: &bad}); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected city not found, got %v", err)
	}

	if _, err := svc.Update(context.Background(), "e1", domain.EventPatch{}); !errors.Is(err, ErrEmptyPatch) {
		t.Fatalf("expected empty patch, got %v", err)
	}
}

func TestEventServiceListByCity(t *testing.T) {
	var got domain.EventFilter
	events := &stubEventRepo{listFn: func(_ context.Context, f domain.EventFilter) ([]domain.Event, int64, error) {
		got = f
		return nil, 0, nil
	}}
	svc := NewEventService(events, &stubCityRepo{})

	page, err := svc.ListByCity(context.Background(), "vilnius", domain.EventFilter{CitySlug: "ignored", Limit: 10})
	if err != nil {
		t.Fatalf("list by city: %v", err)
	}
	if got.CitySlug != "vilnius" || page.Limit != 10 {
		t.Fatalf("unexpected filter %+v page %+v", got, page)
	}
}
