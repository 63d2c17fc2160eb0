package ports

import (
	"context"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
)

type IdentityProvider interface {
	VerifyToken(ctx context.Context, token string) (domain.Session, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
}
