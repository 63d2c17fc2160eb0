// Package stripe creates hosted checkout sessions and verifies webhook
// notifications against the Stripe REST API.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	defaultAPIURL  = "https://api.stripe.com"
	defaultTimeout = 10 * time.Second
	maxBody        = 1 << 20
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	APIURL        string
	Timeout       time.Duration
	// Tolerance bounds the age of a webhook timestamp. Zero means five minutes.
	Tolerance  time.Duration
	HTTPClient *http.Client
}

// Client implements ports.PaymentProvider.
type Client struct {
	secret        string
	webhookSecret []byte
	apiURL        string
	tolerance     time.Duration
	http          *http.Client
	breaker       *gobreaker.CircuitBreaker[domain.CheckoutSession]
	now           func() time.Time
}

func New(cfg Config) *Client {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	tolerance := cfg.Tolerance
	if tolerance <= 0 {
		tolerance = defaultTolerance
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
		secret:        cfg.SecretKey,
		webhookSecret: []byte(cfg.WebhookSecret),
		apiURL:        apiURL,
		tolerance:     tolerance,
		http:          client,
		breaker: gobreaker.NewCircuitBreaker[domain.CheckoutSession](gobreaker.Settings{
			Name:        "stripe-api",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					return apiErr.Status < 500 && apiErr.Status != http.StatusTooManyRequests
				}
				return err == nil || errors.Is(err, domain.ErrCheckoutSessionNotFound)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		}),
		now: time.Now,
	}
}

// APIError is a non-2xx answer from the Stripe API.
type APIError struct {
	Status  int
	Type    string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe returned status %d (%s/%s): %s", e.Status, e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("stripe returned status %d (%s): %s", e.Status, e.Type, e.Message)
}

type sessionPayload struct {
	ID                string            `json:"id"`
	URL               string            `json:"url"`
	Status            string            `json:"status"`
	PaymentStatus     string            `json:"payment_status"`
	AmountTotal       int               `json:"amount_total"`
	Currency          string            `json:"currency"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

func (p sessionPayload) toDomain() domain.CheckoutSession {
	return domain.CheckoutSession{
		ID:                p.ID,
		URL:               p.URL,
		Status:            p.Status,
		PaymentStatus:     p.PaymentStatus,
		AmountTotal:       p.AmountTotal,
		Currency:          p.Currency,
		ClientReferenceID: p.ClientReferenceID,
		EventID:           p.Metadata["event_id"],
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("client_reference_id", req.ClientReferenceID)
	form.Set("metadata[event_id]", req.EventID)
	form.Set("line_items[0][quantity]", strconv.Itoa(req.Quantity))
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(req.UnitAmount))
	form.Set("line_items[0][price_data][product_data][name]", req.EventName)
	if req.CustomerEmail != "" {
		form.Set("customer_email", req.CustomerEmail)
	}

	return c.breaker.Execute(func() (domain.CheckoutSession, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
		if err != nil {
			return domain.CheckoutSession{}, fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if req.IdempotencyKey != "" {
			httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
		}
		return c.do(httpReq)
	})
}

func (c *Client) GetCheckoutSession(ctx context.Context, id string) (domain.CheckoutSession, error) {
	return c.breaker.Execute(func() (domain.CheckoutSession, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v1/checkout/sessions/"+url.PathEscape(id), nil)
		if err != nil {
			return domain.CheckoutSession{}, fmt.Errorf("create request: %w", err)
		}
		session, err := c.do(httpReq)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return domain.CheckoutSession{}, fmt.Errorf("%w: %s", domain.ErrCheckoutSessionNotFound, id)
		}
		return session, err
	})
}

func (c *Client) do(req *http.Request) (domain.CheckoutSession, error) {
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Error struct {
				Type    string `json:"type"`
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Type = envelope.Error.Type
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return domain.CheckoutSession{}, apiErr
	}

	var payload sessionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("decode checkout session: %w", err)
	}
	return payload.toDomain(), nil
}
