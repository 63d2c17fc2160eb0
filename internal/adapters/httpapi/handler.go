package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/adapters/httpapi/apierror"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/sanitize"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/schema"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type ctxKey string

const (
	timeFormat             = "2006-01-02T15:04:05.999999999Z07:00"
	sessionCtxKey   ctxKey = "session"
	maxJSONBodySize        = 1 << 20
)

type Options struct {
	Logger zerolog.Logger
	// Registry enables GET /metrics. Nil disables metrics.
	Registry    *prometheus.Registry
	Timeouts    TimeoutPolicy
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	Now         func() time.Time
}

type Handler struct {
	cities   *usecase.CityService
	events   *usecase.EventService
	auth     *usecase.AuthService
	checkout *usecase.CheckoutService

	opts    Options
	log     zerolog.Logger
	errs    *apierror.Writer
	metrics *Metrics
}

func NewHandler(cities *usecase.CityService, events *usecase.EventService, auth *usecase.AuthService, checkout *usecase.CheckoutService, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}

	h := &Handler{
		cities:   cities,
		events:   events,
		auth:     auth,
		checkout: checkout,
		opts:     opts,
		log:      opts.Logger,
	}
	if opts.Registry != nil {
		h.metrics = NewMetrics(opts.Registry)
	}
	h.errs = apierror.NewWriter(opts.Now, h.observeError)
	return h
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, h.accessLog, h.recoverer)
	if len(h.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	if h.opts.RateLimit > 0 {
		r.Use(httprate.Limit(h.opts.RateLimit, h.opts.RateWindow,
			httprate.WithKeyFuncs(httprate.KeyByRealIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				h.fail(w, r, apierror.New(http.StatusTooManyRequests, "Too many requests"))
			}),
		))
	}
	r.Use(h.timeout)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.fail(w, r, apierror.NotFound(fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path)))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.fail(w, r, apierror.New(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed)))
	})

	r.Get("/healthz", h.healthz)
	r.Get("/openapi.json", h.openapi)
	if h.opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(v chi.Router) {
		v.Get("/cities", h.handle(h.listCities))
		v.Get("/cities/{slug}", h.handle(h.getCity))
		v.Get("/cities/{slug}/events", h.handle(h.listCityEvents))
		v.Get("/events", h.handle(h.listEvents))
		v.Get("/events/{id}", h.handle(h.getEvent))
		v.Post("/checkout/webhook", h.handle(h.checkoutWebhook))

		v.Group(func(pr chi.Router) {
			pr.Use(h.requireSession, h.requireAdmin)
			pr.Post("/cities", h.handle(h.createCity))
			pr.Patch("/cities/{slug}", h.handle(h.updateCity))
			pr.Delete("/cities/{slug}", h.handle(h.deleteCity))
			pr.Post("/events", h.handle(h.createEvent))
			pr.Patch("/events/{id}", h.handle(h.updateEvent))
			pr.Delete("/events/{id}", h.handle(h.deleteEvent))
		})

		v.Group(func(pr chi.Router) {
			pr.Use(h.requireSession)
			pr.Post("/checkout/sessions", h.handle(h.createCheckout))
			pr.Get("/checkout/sessions/{id}", h.handle(h.getCheckout))
		})
	})

	return r
}

// handle adapts an error-returning handler; any error becomes a normalized
// error response.
func (h *Handler) handle(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.fail(w, r, err)
		}
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.errs.Write(w, r, translate(err))
}

func (h *Handler) observeError(r *http.Request, class apierror.Class, resp apierror.Response, err error) {
	if h.metrics != nil {
		h.metrics.observeError(class, resp.StatusCode)
	}
	logger := zerolog.Ctx(r.Context())
	if logger.GetLevel() == zerolog.Disabled {
		logger = &h.log
	}
	event := logger.Debug()
	if resp.StatusCode >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("class", class.String()).
		Int("status", resp.StatusCode).
		Str("path", resp.Path).
		Msg("request failed")
}

// translate maps use case sentinels onto HTTP errors. Everything else is
// left for apierror to classify.
func translate(err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnauthorized), errors.Is(err, usecase.ErrIdentityUnavailable):
		return apierror.Unauthorized("Unauthorized")
	case errors.Is(err, usecase.ErrForbidden):
		return apierror.Forbidden("Admin access required")
	case errors.Is(err, usecase.ErrEmptyPatch):
		return apierror.BadRequest("No fields to update")
	case errors.Is(err, usecase.ErrCityNotFound):
		return apierror.NotFound("City not found")
	case errors.Is(err, usecase.ErrCityHasEvents):
		return apierror.Conflict("City still has events")
	case errors.Is(err, usecase.ErrPaymentsDisabled):
		return apierror.New(http.StatusServiceUnavailable, "Payments are not available")
	case errors.Is(err, usecase.ErrFreeEvent):
		return apierror.BadRequest("Event is free")
	case errors.Is(err, usecase.ErrEventInPast):
		return apierror.BadRequest("Event already took place")
	case errors.Is(err, usecase.ErrPaymentFailed):
		return apierror.New(http.StatusBadGateway, "Payment processing failed")
	case errors.Is(err, usecase.ErrCheckoutNotFound):
		return apierror.NotFound("Checkout session not found")
	case errors.Is(err, usecase.ErrInvalidSignature):
		return apierror.BadRequest("Invalid webhook signature")
	default:
		return err
	}
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) openapi(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, openapiSpec())
}

// bindBody decodes a JSON body and runs it through s.
func bindBody(w http.ResponseWriter, r *http.Request, s schema.Schema) (schema.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	var raw any
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, bodyError(err)
	}
	if err := ensureEOF(decoder); err != nil {
		return nil, bodyError(err)
	}
	return s.Parse(raw)
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return apierror.New(http.StatusRequestEntityTooLarge, "Request body too large")
	}
	return apierror.BadRequest("Invalid JSON body")
}

// bindQuery validates the first value of each query parameter against s.
func bindQuery(r *http.Request, s schema.Schema) (schema.Values, error) {
	query := r.URL.Query()
	raw := make(map[string]any, len(query))
	for key, values := range query {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return s.Parse(raw)
}

func pathParam(r *http.Request, f schema.Field) (string, error) {
	v, err := f.Parse(chi.URLParam(r, f.Name()))
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// writeJSON encodes body, passes the generic form through the output
// sanitizer and writes it. Encoding failures go out as a normalized 500.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err == nil {
		var generic any
		if err = json.Unmarshal(data, &generic); err == nil {
			data, err = json.Marshal(sanitize.Response(generic))
		}
	}
	if err != nil {
		h.fail(w, r, fmt.Errorf("encode json response: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func ensureEOF(decoder *json.Decoder) error {
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return errors.New("extra json tokens")
}

func sessionFromContext(ctx context.Context) domain.Session {
	session, _ := ctx.Value(sessionCtxKey).(domain.Session)
	return session
}

func readRawBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		return nil, bodyError(err)
	}
	return buf.Bytes(), nil
}
