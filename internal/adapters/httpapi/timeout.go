package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/adapters/httpapi/apierror"
)

// TimeoutPolicy resolves the deadline for a request path. Route keys are
// either exact paths or prefix patterns ending in "/*". An exact match wins,
// then the longest matching prefix, then Default. Zero disables the timeout.
type TimeoutPolicy struct {
	Default time.Duration
	Routes  map[string]time.Duration
}

func (p TimeoutPolicy) For(path string) time.Duration {
	if d, ok := p.Routes[path]; ok {
		return d
	}

	best, bestLen := p.Default, -1
	for pattern, d := range p.Routes {
		prefix, ok := strings.CutSuffix(pattern, "*")
		if !ok {
			continue
		}
		if strings.HasPrefix(path, prefix) && len(prefix) > bestLen {
			best, bestLen = d, len(prefix)
		}
	}
	return best
}

// timeout runs the rest of the chain with a deadline. When it expires a 504
// is written and anything the handler writes afterwards is dropped.
func (h *Handler) timeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := h.opts.Timeouts.For(r.URL.Path)
		if d <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()

		tw := &timeoutWriter{header: make(http.Header)}
		done := make(chan struct{})
		panicked := make(chan any, 1)
		go func() {
			defer func() {
				if p := recover(); p != nil {
					panicked <- p
				}
			}()
			next.ServeHTTP(tw, r.WithContext(ctx))
			close(done)
		}()

		select {
		case p := <-panicked:
			panic(p)
		case <-done:
			tw.flush(w)
		case <-ctx.Done():
			tw.expire()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				h.fail(w, r, apierror.Timeout(d))
			}
		}
	})
}

type timeoutWriter struct {
	mu          sync.Mutex
	header      http.Header
	buf         bytes.Buffer
	status      int
	wroteHeader bool
	expired     bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(status int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.expired || tw.wroteHeader {
		return
	}
	tw.status = status
	tw.wroteHeader = true
}

func (tw *timeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.expired {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.status = http.StatusOK
		tw.wroteHeader = true
	}
	return tw.buf.Write(p)
}

func (tw *timeoutWriter) expire() {
	tw.mu.Lock()
	tw.expired = true
	tw.mu.Unlock()
}

func (tw *timeoutWriter) flush(w http.ResponseWriter) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	dst := w.Header()
	for k, v := range tw.header {
		dst[k] = v
	}
	if !tw.wroteHeader {
		tw.status = http.StatusOK
	}
	w.WriteHeader(tw.status)
	_, _ = w.Write(tw.buf.Bytes())
}
