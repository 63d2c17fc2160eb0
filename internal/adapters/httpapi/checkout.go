package httpapi

import (
	"net/http"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/usecase"
)

func (h *Handler) createCheckout(w http.ResponseWriter, r *http.Request) error {
	v, err := bindBody(w, r, domain.CheckoutSchema)
	if err != nil {
		return err
	}

	session := sessionFromContext(r.Context())
	checkout, err := h.checkout.CreateSession(r.Context(), session.UserID, usecase.CheckoutInput{
		EventID:  v.String("eventId"),
		Quantity: v.Int("quantity"),
		Email:    v.String("email"),
	})
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusCreated, toCheckoutResponse(checkout))
	return nil
}

func (h *Handler) getCheckout(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, domain.SessionIDParam)
	if err != nil {
		return err
	}

	session := sessionFromContext(r.Context())
	checkout, err := h.checkout.GetSession(r.Context(), session.UserID, id)
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusOK, toCheckoutResponse(checkout))
	return nil
}

// checkoutWebhook verifies the signature over the exact bytes received.
func (h *Handler) checkoutWebhook(w http.ResponseWriter, r *http.Request) error {
	payload, err := readRawBody(w, r)
	if err != nil {
		return err
	}
	if _, err := h.checkout.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"received": true})
	return nil
}
