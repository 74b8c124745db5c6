package trace

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "salon/internal/log"
)

func newTestLogger(buf *bytes.Buffer) *applog.Logger {
	return applog.New(applog.Config{Level: slog.LevelDebug, Format: "json", Output: buf})
}

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := NewMiddleware(newTestLogger(&buf), nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		applog.FromContext(r.Context()).InfoContext(r.Context(), "inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/agenda", nil))

	id := rr.Header().Get(RequestIDHeader)
	if id == "" || id != seen {
		t.Fatalf("header id %q, context id %q", id, seen)
	}

	var sawHandler, sawEnd bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line %q: %v", line, err)
		}
		switch rec["msg"] {
		case "inside handler":
			sawHandler = rec[applog.FieldRequestID] == id
		case "HTTP request completed":
			sawEnd = rec[applog.FieldStatusCode] == float64(http.StatusTeapot) && rec["level"] == "WARN"
		}
	}
	if !sawHandler {
		t.Error("handler log is missing the request id")
	}
	if !sawEnd {
		t.Errorf("access log missing or wrong level: %s", buf.String())
	}
}

func TestMiddlewareRequestIDHeader(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"caller id kept", "req-42", true},
		{"spaces replaced", "req 42", false},
		{"non ascii replaced", "pedido-ç", false},
		{"too long replaced", strings.Repeat("x", maxRequestIDLength+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewMiddleware(newTestLogger(&buf), nil).Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tt.incoming)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			got := rr.Header().Get(RequestIDHeader)
			if (got == tt.incoming) != tt.keep {
				t.Fatalf("response id = %q, incoming %q, keep %v", got, tt.incoming, tt.keep)
			}
			if got == "" {
				t.Fatal("response id is empty")
			}
		})
	}
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	_, _ = rw.Write([]byte("hi"))
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusOK {
		t.Fatalf("statusCode = %d, want 200 after implicit header", rw.statusCode)
	}
}
