package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atvirokodosprendimai/eventcatalog/internal/config"
	"github.com/rs/zerolog"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestResourceCloserReturnsFirstError(t *testing.T) {
	first := errors.New("first")
	calls := 0
	rc := resourceCloser{closers: []io.Closer{
		nil,
		closerFunc(func() error { calls++; return first }),
		closerFunc(func() error { calls++; return errors.New("second") }),
	}}
	if err := rc.Close(); !errors.Is(err, first) {
		t.Fatalf("expected first error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected every closer to run, got %d", calls)
	}
}

func TestNewServerServesCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "app.sqlite")
	cfg.Server.RateLimit = 0

	server, closer, err := NewServer(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer closer.Close()

	rr := httptest.NewRecorder()
	server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/cities", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"items":[]`) {
		t.Fatalf("unexpected list response: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/cities", strings.NewReader(`{}`)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without clerk, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Fatalf("metrics not served: %d", rr.Code)
	}
}

func TestMigrateRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = "oracle"
	if err := Migrate(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error")
	}
}
