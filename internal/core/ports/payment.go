package ports

import (
	"context"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
)

type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (domain.CheckoutSession, error)
	VerifyWebhook(payload []byte, signatureHeader string) (domain.PaymentEvent, error)
}
