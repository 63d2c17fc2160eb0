package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// classify converts a gorm or driver error into a domain.BackendError.
// Context cancellation passes through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var be *domain.BackendError
	if errors.As(err, &be) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	known := func(code string) error { return domain.NewKnownError(code, msg, err) }
	kind := func(k domain.BackendErrorKind) error {
		return &domain.BackendError{Kind: k, Message: msg, Err: err}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return known(domain.CodeRecordNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return known(domain.CodeUniqueViolation)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return known(domain.CodeForeignKey)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return known(domain.CodeValueTooLong)
	case errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrInvalidField),
		errors.Is(err, gorm.ErrInvalidValue),
		errors.Is(err, gorm.ErrInvalidValueOfLength),
		errors.Is(err, gorm.ErrModelValueRequired),
		errors.Is(err, gorm.ErrPrimaryKeyRequired),
		errors.Is(err, gorm.ErrEmptySlice):
		return kind(domain.BackendValidation)
	case errors.Is(err, gorm.ErrMissingWhereClause),
		errors.Is(err, gorm.ErrUnsupportedRelation),
		errors.Is(err, gorm.ErrNotImplemented),
		errors.Is(err, gorm.ErrInvalidTransaction),
		errors.Is(err, gorm.ErrUnsupportedDriver),
		errors.Is(err, gorm.ErrDryRunModeUnsupported):
		return kind(domain.BackendUnknownRequest)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone), errors.Is(err, gorm.ErrInvalidDB):
		return kind(domain.BackendInitialization)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPostgres(pgErr, err)
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return kind(domain.BackendInitialization)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return classifySQLite(liteErr, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return kind(domain.BackendInitialization)
	}

	return kind(domain.BackendUnknownRequest)
}

func classifyPostgres(pgErr *pgconn.PgError, err error) error {
	msg := pgErr.Message
	if pgErr.Detail != "" {
		msg += ": " + pgErr.Detail
	}
	switch {
	case pgErr.Code == "22001":
		return domain.NewKnownError(domain.CodeValueTooLong, msg, err)
	case pgErr.Code == "23505":
		return domain.NewKnownError(domain.CodeUniqueViolation, msg, err)
	case pgErr.Code == "23503":
		return domain.NewKnownError(domain.CodeForeignKey, msg, err)
	case pgErr.Code == "23514":
		return domain.NewKnownError(domain.CodeValueTooLong, msg, err)
	case strings.HasPrefix(pgErr.Code, "22"), strings.HasPrefix(pgErr.Code, "23"):
		return &domain.BackendError{Kind: domain.BackendValidation, Message: msg, Err: err}
	case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "28"),
		strings.HasPrefix(pgErr.Code, "3D"), strings.HasPrefix(pgErr.Code, "57P"):
		return &domain.BackendError{Kind: domain.BackendInitialization, Message: msg, Err: err}
	case strings.HasPrefix(pgErr.Code, "XX"), pgErr.Severity == "PANIC":
		return &domain.BackendError{Kind: domain.BackendEnginePanic, Message: msg, Err: err}
	default:
		return domain.NewKnownError(pgErr.Code, msg, err)
	}
}

func classifySQLite(liteErr *sqlite.Error, err error) error {
	msg := err.Error()
	code := liteErr.Code()
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return domain.NewKnownError(domain.CodeUniqueViolation, msg, err)
	case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_TOOBIG:
		return domain.NewKnownError(domain.CodeValueTooLong, msg, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return domain.NewKnownError(domain.CodeForeignKey, msg, err)
	}

	switch code & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return domain.NewKnownError(domain.CodeUniqueViolation, msg, err)
		case strings.Contains(msg, "CHECK"):
			return domain.NewKnownError(domain.CodeValueTooLong, msg, err)
		case strings.Contains(msg, "FOREIGN KEY"):
			return domain.NewKnownError(domain.CodeForeignKey, msg, err)
		}
		return &domain.BackendError{Kind: domain.BackendValidation, Message: msg, Err: err}
	case sqlite3.SQLITE_MISMATCH, sqlite3.SQLITE_RANGE:
		return &domain.BackendError{Kind: domain.BackendValidation, Message: msg, Err: err}
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH:
		return &domain.BackendError{Kind: domain.BackendInitialization, Message: msg, Err: err}
	case sqlite3.SQLITE_INTERNAL, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOMEM, sqlite3.SQLITE_IOERR:
		return &domain.BackendError{Kind: domain.BackendEnginePanic, Message: msg, Err: err}
	case sqlite3.SQLITE_ERROR:
		return &domain.BackendError{Kind: domain.BackendUnknownRequest, Message: msg, Err: err}
	default:
		return &domain.BackendError{Kind: domain.BackendKnownRequest, Message: msg, Err: err}
	}
}
