package domain

import "errors"

// ErrCheckoutSessionNotFound is returned by payment providers for unknown session ids.
var ErrCheckoutSessionNotFound = errors.New("checkout session not found")

// CheckoutRequest describes a hosted payment page for one event.
type CheckoutRequest struct {
	EventID           string
	EventName         string
	UnitAmount        int
	Currency          string
	Quantity          int
	CustomerEmail     string
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	IdempotencyKey    string
}

type CheckoutSession struct {
	ID                string
	URL               string
	Status            string
	PaymentStatus     string
	AmountTotal       int
	Currency          string
	ClientReferenceID string
	EventID           string
}

func (s CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

// PaymentEvent is a verified notification from the payment provider.
type PaymentEvent struct {
	ID      string
	Type    string
	Session CheckoutSession
}
