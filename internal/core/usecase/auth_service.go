package usecase

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/ports"
	"github.com/rs/zerolog"
)

type AuthService struct {
	identity  ports.IdentityProvider
	adminRole string
}

// NewAuthService returns a service that rejects every token when identity
// is nil.
func NewAuthService(identity ports.IdentityProvider, adminRole string) *AuthService {
	if adminRole == "" {
		adminRole = domain.RoleAdmin
	}
	return &AuthService{identity: identity, adminRole: adminRole}
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" || s.identity == nil {
		return domain.Session{}, ErrUnauthorized
	}

	session, err := s.identity.VerifyToken(ctx, token)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("session token rejected")
		return domain.Session{}, ErrUnauthorized
	}
	if session.UserID == "" {
		return domain.Session{}, ErrUnauthorized
	}
	return session, nil
}

// RequireAdmin loads the session's user and checks its role.
func (s *AuthService) RequireAdmin(ctx context.Context, session domain.Session) (domain.User, error) {
	if s.identity == nil {
		return domain.User{}, ErrUnauthorized
	}

	user, err := s.identity.GetUser(ctx, session.UserID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", session.UserID).Msg("user lookup failed")
		return domain.User{}, ErrIdentityUnavailable
	}
	if user.Role != s.adminRole {
		return domain.User{}, ErrForbidden
	}
	return user, nil
}
