package apierror

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

var fallbackBody = []byte(`{"statusCode":500,"response":"Internal Server Error"}`)

// Observer is told about every error response after it is built.
type Observer func(r *http.Request, class Class, resp Response, err error)

// Writer emits normalized error responses.
type Writer struct {
	now     func() time.Time
	observe Observer
}

func NewWriter(now func() time.Time, observe Observer) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{now: now, observe: observe}
}

// Write sends the normalized form of err. It never panics.
func (wr *Writer) Write(w http.ResponseWriter, r *http.Request, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			writeBody(w, http.StatusInternalServerError, fallbackBody)
		}
	}()

	resp := Normalize(err, r.URL.Path, wr.now())
	data, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		resp = Normalize(marshalErr, r.URL.Path, wr.now())
		data, marshalErr = json.Marshal(resp)
		if marshalErr != nil {
			data = fallbackBody
		}
	}

	if wr.observe != nil {
		wr.observe(r, Classify(err), resp, err)
	}
	writeBody(w, resp.StatusCode, data)
}

func writeBody(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
