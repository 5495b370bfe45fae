package observe

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func testMiddleware(buf *bytes.Buffer) *Middleware {
	return NewMiddleware(
		tracenoop.NewTracerProvider().Tracer("test"),
		NopMetrics{},
		NewLoggerWithWriter("info", buf),
	)
}

func TestMiddleware_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	mw := testMiddleware(&buf)

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if rec.Body.String() != "created" {
		t.Errorf("body = %q, want created", rec.Body.String())
	}

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0]["msg"] != "request completed" {
		t.Errorf("msg = %v, want request completed", entries[0]["msg"])
	}
	if entries[0]["status"] != float64(http.StatusCreated) {
		t.Errorf("status field = %v, want %d", entries[0]["status"], http.StatusCreated)
	}
}

func TestMiddleware_LogsServerErrors(t *testing.T) {
	var buf bytes.Buffer
	mw := testMiddleware(&buf)

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0]["level"] != "error" || entries[0]["msg"] != "request failed" {
		t.Errorf("entry = %v, want error-level request failed", entries[0])
	}
}

func TestMiddleware_DefaultStatusIsOK(t *testing.T) {
	var buf bytes.Buffer
	mw := testMiddleware(&buf)

	// Handler that never calls WriteHeader
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	entries := decodeEntries(t, &buf)
	if entries[0]["status"] != float64(http.StatusOK) {
		t.Errorf("status field = %v, want %d", entries[0]["status"], http.StatusOK)
	}
}
