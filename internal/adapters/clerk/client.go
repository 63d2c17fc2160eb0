// Package clerk verifies Clerk session tokens and looks up user roles through
// the Clerk backend API.
package clerk

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	defaultAPIURL  = "https://api.clerk.com"
	defaultTimeout = 5 * time.Second
	defaultLeeway  = 5 * time.Second
	maxUserBody    = 1 << 20
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrUserNotFound = errors.New("user not found")
)

type Config struct {
	PublicKeyPEM string
	Issuer       string
	SecretKey    string
	APIURL       string
	Timeout      time.Duration
	Leeway       time.Duration
	HTTPClient   *http.Client
}

// Client implements ports.IdentityProvider.
type Client struct {
	key     *rsa.PublicKey
	parser  *jwt.Parser
	secret  string
	apiURL  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[domain.User]
}

func New(cfg Config) (*Client, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse clerk public key: %w", err)
	}

	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithLeeway(leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Client{
		key:     key,
		parser:  jwt.NewParser(opts...),
		secret:  cfg.SecretKey,
		apiURL:  apiURL,
		http:    client,
		breaker: newBreaker[domain.User]("clerk-api"),
	}, nil
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// VerifyToken validates the RS256 signature, expiry and issuer of a session
// token and returns its subject.
func (c *Client) VerifyToken(_ context.Context, token string) (domain.Session, error) {
	var claims sessionClaims
	_, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return domain.Session{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	session := domain.Session{UserID: claims.Subject, SessionID: claims.SessionID}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return session, nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return c.breaker.Execute(func() (domain.User, error) {
		return c.fetchUser(ctx, userID)
	})
}

type userPayload struct {
	ID                    string         `json:"id"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	PublicMetadata        map[string]any `json:"public_metadata"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (c *Client) fetchUser(ctx context.Context, userID string) (domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v1/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.User{}, ErrUserNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.User{}, fmt.Errorf("clerk returned status %d", resp.StatusCode)
	}

	var payload userPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUserBody)).Decode(&payload); err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}

	user := domain.User{ID: payload.ID}
	if role, ok := payload.PublicMetadata["role"].(string); ok {
		user.Role = role
	}
	for _, addr := range payload.EmailAddresses {
		if addr.ID == payload.PrimaryEmailAddressID {
			user.Email = addr.EmailAddress
			break
		}
	}
	return user, nil
}

func newBreaker[T any](name string) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUserNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}
