package usecase

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrIdentityUnavailable = errors.New("identity provider unavailable")

	ErrEmptyPatch    = errors.New("no fields to update")
	ErrCityNotFound  = errors.New("city not found")
	ErrCityHasEvents = errors.New("city still has events")

	ErrPaymentsDisabled = errors.New("payments are not configured")
	ErrFreeEvent        = errors.New("event is free")
	ErrEventInPast      = errors.New("event already took place")
	ErrPaymentFailed    = errors.New("payment provider request failed")
	ErrCheckoutNotFound = errors.New("checkout session not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
