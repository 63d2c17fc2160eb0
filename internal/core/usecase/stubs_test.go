package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
)

type stubCityRepo struct {
	listFn   func(ctx context.Context, filter domain.CityFilter) ([]domain.City, int64, error)
	getFn    func(ctx context.Context, slug string) (domain.City, error)
	createFn func(ctx context.Context, city domain.City) (domain.City, error)
	updateFn func(ctx context.Context, slug string, patch domain.CityPatch) (domain.City, error)
	deleteFn func(ctx context.Context, slug string) error
}

func (s *stubCityRepo) List(ctx context.Context, filter domain.CityFilter) ([]domain.City, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (s *stubCityRepo) GetBySlug(ctx context.Context, slug string) (domain.City, error) {
	if s.getFn != nil {
		return s.getFn(ctx, slug)
	}
	return domain.City{Slug: slug}, nil
}

func (s *stubCityRepo) Create(ctx context.Context, city domain.City) (domain.City, error) {
	if s.createFn != nil {
		return s.createFn(ctx, city)
	}
	return city, nil
}

func (s *stubCityRepo) Update(ctx context.Context, slug string, patch domain.CityPatch) (domain.City, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, slug, patch)
	}
	return domain.City{Slug: slug}, nil
}

func (s *stubCityRepo) Delete(ctx context.Context, slug string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, slug)
	}
	return nil
}

type stubEventRepo struct {
	listFn   func(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int64, error)
	getFn    func(ctx context.Context, id string) (domain.Event, error)
	createFn func(ctx context.Context, event domain.Event) (domain.Event, error)
	updateFn func(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error)
	deleteFn func(ctx context.Context, id string) error
	countFn  func(ctx context.Context, citySlug string) (int64, error)
}

func (s *stubEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (s *stubEventRepo) Get(ctx context.Context, id string) (domain.Event, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.Event{ID: id}, nil
}

func (s *stubEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	if s.createFn != nil {
		return s.createFn(ctx, event)
	}
	return event, nil
}

func (s *stubEventRepo) Update(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, patch)
	}
	return domain.Event{ID: id}, nil
}

func (s *stubEventRepo) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubEventRepo) CountByCity(ctx context.Context, citySlug string) (int64, error) {
	if s.countFn != nil {
		return s.countFn(ctx, citySlug)
	}
	return 0, nil
}

type stubIdentity struct {
	verifyFn  func(ctx context.Context, token string) (domain.Session, error)
	getUserFn func(ctx context.Context, userID string) (domain.User, error)
}

func (s *stubIdentity) VerifyToken(ctx context.Context, token string) (domain.Session, error) {
	if s.verifyFn != nil {
		return s.verifyFn(ctx, token)
	}
	return domain.Session{UserID: "user_1"}, nil
}

func (s *stubIdentity) GetUser(ctx context.Context, userID string) (domain.User, error) {
	if s.getUserFn != nil {
		return s.getUserFn(ctx, userID)
	}
	return domain.User{ID: userID}, nil
}

type stubPayments struct {
	createFn func(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error)
	getFn    func(ctx context.Context, id string) (domain.CheckoutSession, error)
	verifyFn func(payload []byte, header string) (domain.PaymentEvent, error)
}

func (s *stubPayments) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error) {
	if s.createFn != nil {
		return s.createFn(ctx, req)
	}
	return domain.CheckoutSession{ID: "cs_test_1"}, nil
}

func (s *stubPayments) GetCheckoutSession(ctx context.Context, id string) (domain.CheckoutSession, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.CheckoutSession{ID: id}, nil
}

func (s *stubPayments) VerifyWebhook(payload []byte, header string) (domain.PaymentEvent, error) {
	if s.verifyFn != nil {
		return s.verifyFn(payload, header)
	}
	return domain.PaymentEvent{}, nil
}
