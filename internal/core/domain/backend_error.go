package domain

import (
	"errors"
	"fmt"
)

// BackendErrorKind is the closed set of persistence failure variants.
type BackendErrorKind int

const (
	BackendKnownRequest BackendErrorKind = iota + 1
	BackendValidation
	BackendUnknownRequest
	BackendEnginePanic
	BackendInitialization
)

func (k BackendErrorKind) String() string {
	switch k {
	case BackendKnownRequest:
		return "known_request"
	case BackendValidation:
		return "validation"
	case BackendUnknownRequest:
		return "unknown_request"
	case BackendEnginePanic:
		return "engine_panic"
	case BackendInitialization:
		return "initialization"
	default:
		return "unknown"
	}
}

// Codes carried by BackendKnownRequest errors.
const (
	CodeValueTooLong    = "P2000"
	CodeRecordNotFound  = "P2001"
	CodeUniqueViolation = "P2002"
	CodeForeignKey      = "P2003"
)

// BackendError is a classified persistence failure. Message holds the raw
// driver text and is never shown to clients as the primary message.
type BackendError struct {
	Kind    BackendErrorKind
	Code    string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend %s error %s: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("backend %s error: %s", e.Kind, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func NewKnownError(code, message string, err error) *BackendError {
	return &BackendError{Kind: BackendKnownRequest, Code: code, Message: message, Err: err}
}

// RecordNotFound builds the error repositories return for missing rows.
func RecordNotFound(what string) *BackendError {
	return NewKnownError(CodeRecordNotFound, what+" not found", nil)
}

// IsNotFound reports whether err carries a record-not-found backend error.
func IsNotFound(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Kind == BackendKnownRequest && be.Code == CodeRecordNotFound
}
