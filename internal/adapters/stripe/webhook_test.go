package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testPayload = `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_status":"paid","client_reference_id":"user_1","metadata":{"event_id":"e-1"}}}}`

func signature(secret string, ts int64, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return hex.EncodeToString(mac.Sum(nil))
}

func signHeader(secret string, ts int64, payload string) string {
	return fmt.Sprintf("t=%d,v1=%s", ts, signature(secret, ts, payload))
}

func newWebhookClient(now time.Time) *Client {
	c := New(Config{WebhookSecret: "whsec_test"})
	c.now = func() time.Time { return now }
	return c
}

func TestVerifyWebhookSuccess(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	client := newWebhookClient(now)

	event, err := client.VerifyWebhook([]byte(testPayload), signHeader("whsec_test", now.Unix(), testPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID != "evt_1" || event.Type != "checkout.session.completed" {
		t.Errorf("unexpected event: %+v", event)
	}
	if event.Session.EventID != "e-1" || !event.Session.Paid() || event.Session.ClientReferenceID != "user_1" {
		t.Errorf("unexpected session: %+v", event.Session)
	}
}

func TestVerifyWebhookAcceptsAnyMatchingSignature(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	client := newWebhookClient(now)

	header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", now.Unix(), signature("whsec_test", now.Unix(), testPayload))
	if _, err := client.VerifyWebhook([]byte(testPayload), header); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyWebhookRejects(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	client := newWebhookClient(now)

	tests := []struct {
		name    string
		payload string
		header  string
		want    error
	}{
		{"missing header", testPayload, "", ErrMissingSignature},
		{"no v1", testPayload, fmt.Sprintf("t=%d", now.Unix()), ErrMissingSignature},
		{"wrong secret", testPayload, signHeader("whsec_other", now.Unix(), testPayload), ErrSignatureInvalid},
		{"tampered payload", testPayload + " ", signHeader("whsec_test", now.Unix(), testPayload), ErrSignatureInvalid},
		{"too old", testPayload, signHeader("whsec_test", now.Add(-10*time.Minute).Unix(), testPayload), ErrSignatureExpired},
		{"from the future", testPayload, signHeader("whsec_test", now.Add(10*time.Minute).Unix(), testPayload), ErrSignatureExpired},
		{"bad timestamp", testPayload, "t=abc,v1=00", ErrSignatureInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.VerifyWebhook([]byte(tt.payload), tt.header)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestVerifyWebhookWithoutSecret(t *testing.T) {
	client := New(Config{})
	if _, err := client.VerifyWebhook([]byte(testPayload), "t=1,v1=00"); err == nil {
		t.Fatal("expected error without webhook secret")
	}
}
