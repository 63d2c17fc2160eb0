// Package apierror turns every failure surfaced by request handling into one
// JSON error shape.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/schema"
)

const (
	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
	unknownCode     = "UNKNOWN"
)

// HTTPError carries a status and a response payload that reach the client
// unchanged. Response is a string or a JSON-encodable object.
type HTTPError struct {
	Status   int
	Response any
}

func (e *HTTPError) Error() string {
	if s, ok := e.Response.(string); ok {
		return fmt.Sprintf("http %d: %s", e.Status, s)
	}
	return fmt.Sprintf("http %d", e.Status)
}

func New(status int, response any) *HTTPError {
	return &HTTPError{Status: status, Response: response}
}

func BadRequest(msg string) *HTTPError   { return New(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *HTTPError { return New(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *HTTPError    { return New(http.StatusForbidden, msg) }
func NotFound(msg string) *HTTPError     { return New(http.StatusNotFound, msg) }
func Conflict(msg string) *HTTPError     { return New(http.StatusConflict, msg) }

// Timeout is written when a request outlives its deadline.
func Timeout(d time.Duration) *HTTPError {
	return New(http.StatusGatewayTimeout, fmt.Sprintf("Request timeout after %dms", d.Milliseconds()))
}

// PanicValue wraps a recovered panic value that is not an error.
type PanicValue struct {
	Value any
}

func (p PanicValue) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// Response is the wire shape of every failed request.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Response   any    `json:"response"`
	Error      string `json:"error,omitempty"`
}

// Class is the outcome of classifying an error.
type Class int

const (
	ClassUnclassified Class = iota
	ClassHTTP
	ClassBackendKnown
	ClassBackendValidation
	ClassBackendUnknownRequest
	ClassBackendEnginePanic
	ClassBackendInitialization
	ClassGeneric
)

func (c Class) String() string {
	switch c {
	case ClassHTTP:
		return "http"
	case ClassBackendKnown:
		return "backend_known"
	case ClassBackendValidation:
		return "backend_validation"
	case ClassBackendUnknownRequest:
		return "backend_unknown_request"
	case ClassBackendEnginePanic:
		return "backend_engine_panic"
	case ClassBackendInitialization:
		return "backend_initialization"
	case ClassGeneric:
		return "generic"
	default:
		return "unclassified"
	}
}

// Classify picks the mapping rule for err.
func Classify(err error) Class {
	if err == nil {
		return ClassUnclassified
	}

	var pv PanicValue
	if errors.As(err, &pv) {
		return ClassUnclassified
	}

	var he *HTTPError
	var ve *schema.ValidationError
	if errors.As(err, &he) || errors.As(err, &ve) {
		return ClassHTTP
	}

	var be *domain.BackendError
	if errors.As(err, &be) {
		switch be.Kind {
		case domain.BackendKnownRequest:
			return ClassBackendKnown
		case domain.BackendValidation:
			return ClassBackendValidation
		case domain.BackendUnknownRequest:
			return ClassBackendUnknownRequest
		case domain.BackendEnginePanic:
			return ClassBackendEnginePanic
		case domain.BackendInitialization:
			return ClassBackendInitialization
		}
	}
	return ClassGeneric
}

// Normalize maps err onto the wire shape. It never panics; a failure while
// mapping yields the generic 500 shape.
func Normalize(err error, path string, now time.Time) (resp Response) {
	resp = Response{
		StatusCode: http.StatusInternalServerError,
		Timestamp:  now.UTC().Format(timestampFormat),
		Path:       path,
		Response:   http.StatusText(http.StatusInternalServerError),
	}
	defer func() {
		if r := recover(); r != nil {
			resp.StatusCode = http.StatusInternalServerError
			resp.Response = http.StatusText(http.StatusInternalServerError)
			resp.Error = ""
		}
	}()

	switch Classify(err) {
	case ClassHTTP:
		he := asHTTPError(err)
		resp.StatusCode = he.Status
		resp.Response = he.Response
	case ClassBackendKnown:
		be := backendError(err)
		switch be.Code {
		case domain.CodeValueTooLong:
			resp.StatusCode = http.StatusBadRequest
			resp.Response = "The provided value is too long for the field"
		case domain.CodeRecordNotFound:
			resp.StatusCode = http.StatusNotFound
			resp.Response = "The record searched for does not exist"
		case domain.CodeUniqueViolation:
			resp.StatusCode = http.StatusConflict
			resp.Response = "Unique constraint failed - this value already exists"
		default:
			resp.Response = "An unknown database error occurred"
			resp.Error = be.Code
			if resp.Error == "" {
				resp.Error = unknownCode
			}
		}
	case ClassBackendValidation:
		resp.StatusCode = http.StatusBadRequest
		resp.Response = "Invalid data provided"
		resp.Error = CleanMessage(backendError(err).Message)
	case ClassBackendUnknownRequest:
		resp.StatusCode = http.StatusBadRequest
		resp.Response = "Database request failed"
		resp.Error = CleanMessage(backendError(err).Message)
	case ClassBackendEnginePanic:
		resp.Response = "Database engine error"
		resp.Error = CleanMessage(backendError(err).Message)
	case ClassBackendInitialization:
		resp.StatusCode = http.StatusServiceUnavailable
		resp.Response = "Database connection failed"
		resp.Error = CleanMessage(backendError(err).Message)
	case ClassGeneric:
		resp.Error = err.Error()
	case ClassUnclassified:
	}
	return resp
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanMessage collapses whitespace runs into single spaces and trims.
func CleanMessage(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func asHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		return BadRequest(ve.Error())
	}
	return New(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func backendError(err error) *domain.BackendError {
	var be *domain.BackendError
	errors.As(err, &be)
	return be
}
