package stripe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
)

func TestCreateCheckoutSession(t *testing.T) {
	var (
		gotForm    url.Values
		gotHeaders http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotHeaders = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1","status":"open","payment_status":"unpaid","amount_total":3000,"currency":"eur","client_reference_id":"user_1","metadata":{"event_id":"evt-uuid"}}`))
	}))
	defer srv.Close()

	client := New(Config{SecretKey: "sk_test_1", APIURL: srv.URL})
	session, err := client.CreateCheckoutSession(context.Background(), domain.CheckoutRequest{
		EventID:           "evt-uuid",
		EventName:         "Jazz night",
		UnitAmount:        1500,
		Currency:          "eur",
		Quantity:          2,
		CustomerEmail:     "a@example.com",
		ClientReferenceID: "user_1",
		SuccessURL:        "https://app.example/success",
		CancelURL:         "https://app.example/cancel",
		IdempotencyKey:    "idem-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gotHeaders.Get("Authorization"); got != "Bearer sk_test_1" {
		t.Errorf("Authorization = %q", got)
	}
	if got := gotHeaders.Get("Idempotency-Key"); got != "idem-1" {
		t.Errorf("Idempotency-Key = %q", got)
	}
	want := map[string]string{
		"mode":                                          "payment",
		"line_items[0][quantity]":                       "2",
		"line_items[0][price_data][unit_amount]":        "1500",
		"line_items[0][price_data][currency]":           "eur",
		"line_items[0][price_data][product_data][name]": "Jazz night",
		"metadata[event_id]":                            "evt-uuid",
		"customer_email":                                "a@example.com",
		"client_reference_id":                           "user_1",
	}
	for k, v := range want {
		if gotForm.Get(k) != v {
			t.Errorf("form %s = %q, want %q", k, gotForm.Get(k), v)
		}
	}

	if session.ID != "cs_test_1" || session.EventID != "evt-uuid" || session.AmountTotal != 3000 {
		t.Errorf("unexpected session: %+v", session)
	}
}

func TestCreateCheckoutSessionAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"parameter_invalid_integer","message":"Invalid integer"}}`))
	}))
	defer srv.Close()

	client := New(Config{SecretKey: "sk", APIURL: srv.URL})
	_, err := client.CreateCheckoutSession(context.Background(), domain.CheckoutRequest{Quantity: 1})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "parameter_invalid_integer" {
		t.Errorf("unexpected api error: %+v", apiErr)
	}
}

func TestGetCheckoutSessionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/checkout/sessions/cs_known" {
			_, _ = w.Write([]byte(`{"id":"cs_known","payment_status":"paid","client_reference_id":"user_1"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session"}}`))
	}))
	defer srv.Close()

	client := New(Config{SecretKey: "sk", APIURL: srv.URL})

	session, err := client.GetCheckoutSession(context.Background(), "cs_known")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.Paid() {
		t.Errorf("expected paid session, got %+v", session)
	}

	_, err = client.GetCheckoutSession(context.Background(), "cs_missing")
	if !errors.Is(err, domain.ErrCheckoutSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := New(Config{SecretKey: "sk", APIURL: srv.URL, Timeout: 5 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetCheckoutSession(ctx, "cs_1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !strings.Contains(err.Error(), "send request") {
		t.Errorf("unexpected error text: %v", err)
	}
}
