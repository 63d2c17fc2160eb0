package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/goccy/go-json"
)

const defaultTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrSignatureExpired = errors.New("webhook timestamp outside tolerance")
	ErrSignatureInvalid = errors.New("webhook signature mismatch")
)

// VerifyWebhook checks a Stripe-Signature header of the form
// "t=<unix>,v1=<hex>[,v1=<hex>]" against the raw payload and decodes the
// event on success.
func (c *Client) VerifyWebhook(payload []byte, header string) (domain.PaymentEvent, error) {
	if len(c.webhookSecret) == 0 {
		return domain.PaymentEvent{}, errors.New("webhook secret not configured")
	}

	ts, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return domain.PaymentEvent{}, err
	}
	if age := c.now().Sub(time.Unix(ts, 0)); age > c.tolerance || age < -c.tolerance {
		return domain.PaymentEvent{}, ErrSignatureExpired
	}

	expected := c.sign(ts, payload)
	valid := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			valid = true
			break
		}
	}
	if !valid {
		return domain.PaymentEvent{}, ErrSignatureInvalid
	}

	var event struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return domain.PaymentEvent{}, fmt.Errorf("decode webhook event: %w", err)
	}

	out := domain.PaymentEvent{ID: event.ID, Type: event.Type}
	if strings.HasPrefix(event.Type, "checkout.session.") && len(event.Data.Object) > 0 {
		var session sessionPayload
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			return domain.PaymentEvent{}, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Session = session.toDomain()
	}
	return out, nil
}

// sign returns the lowercase hex-encoded HMAC-SHA256 of "<ts>.<payload>".
func (c *Client) sign(ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, c.webhookSecret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if strings.TrimSpace(header) == "" {
		return 0, nil, ErrMissingSignature
	}

	var (
		ts         int64
		haveTS     bool
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", ErrSignatureInvalid)
			}
			ts, haveTS = n, true
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if !haveTS || len(signatures) == 0 {
		return 0, nil, ErrMissingSignature
	}
	return ts, signatures, nil
}
