package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CheckoutInput struct {
	EventID  string
	Quantity int
	Email    string
}

type CheckoutService struct {
	events     ports.EventRepository
	payments   ports.PaymentProvider
	successURL string
	cancelURL  string
	now        func() time.Time
}

func NewCheckoutService(events ports.EventRepository, payments ports.PaymentProvider, successURL, cancelURL string) *CheckoutService {
	return &CheckoutService{
		events:     events,
		payments:   payments,
		successURL: successURL,
		cancelURL:  cancelURL,
		now:        time.Now,
	}
}

// CreateSession opens a hosted checkout for a paid, upcoming event.
func (s *CheckoutService) CreateSession(ctx context.Context, userID string, in CheckoutInput) (domain.CheckoutSession, error) {
	if s == nil || s.payments == nil {
		return domain.CheckoutSession{}, ErrPaymentsDisabled
	}

	event, err := s.events.Get(ctx, in.EventID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	if event.Free() {
		return domain.CheckoutSession{}, ErrFreeEvent
	}
	if event.Date.Before(s.now()) {
		return domain.CheckoutSession{}, ErrEventInPast
	}

	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	session, err := s.payments.CreateCheckoutSession(ctx, domain.CheckoutRequest{
		EventID:           event.ID,
		EventName:         event.Name,
		UnitAmount:        event.Price,
		Currency:          event.Currency,
		Quantity:          quantity,
		CustomerEmail:     in.Email,
		ClientReferenceID: userID,
		SuccessURL:        s.successURL,
		CancelURL:         s.cancelURL,
		IdempotencyKey:    uuid.NewString(),
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("event_id", event.ID).Msg("create checkout session")
		return domain.CheckoutSession{}, ErrPaymentFailed
	}
	return session, nil
}

// GetSession returns a session only to the user who created it.
func (s *CheckoutService) GetSession(ctx context.Context, userID, id string) (domain.CheckoutSession, error) {
	if s == nil || s.payments == nil {
		return domain.CheckoutSession{}, ErrPaymentsDisabled
	}

	session, err := s.payments.GetCheckoutSession(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCheckoutSessionNotFound) {
			return domain.CheckoutSession{}, ErrCheckoutNotFound
		}
		zerolog.Ctx(ctx).Error().Err(err).Str("session_id", id).Msg("get checkout session")
		return domain.CheckoutSession{}, ErrPaymentFailed
	}
	if session.ClientReferenceID != userID {
		return domain.CheckoutSession{}, ErrCheckoutNotFound
	}
	return session, nil
}

// HandleWebhook verifies a provider notification and records completed
// payments in the log.
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) (domain.PaymentEvent, error) {
	if s == nil || s.payments == nil {
		return domain.PaymentEvent{}, ErrPaymentsDisabled
	}

	event, err := s.payments.VerifyWebhook(payload, signature)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("webhook verification failed")
		return domain.PaymentEvent{}, ErrInvalidSignature
	}

	log := zerolog.Ctx(ctx).Info().
		Str("payment_event_id", event.ID).
		Str("type", event.Type).
		Str("session_id", event.Session.ID)
	if event.Type == "checkout.session.completed" {
		log.Str("event_id", event.Session.EventID).
			Str("user_id", event.Session.ClientReferenceID).
			Bool("paid", event.Session.Paid()).
			Msg("checkout completed")
	} else {
		log.Msg("payment event received")
	}
	return event, nil
}
