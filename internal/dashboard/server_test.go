package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/zulandar/backlot/internal/db"
)

func TestStart_NilDB(t *testing.T) {
	err := Start(context.Background(), StartOpts{DB: nil})
	if err == nil {
		t.Fatal("expected error for nil db")
	}
	if !strings.Contains(err.Error(), "db is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db is required")
	}
}

func TestStart_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	err := Start(ctx, StartOpts{DB: db.NewTestDB(t), Port: 18791, Out: &out, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.Contains(out.String(), "API running at http://localhost:") {
		t.Errorf("output = %q, want startup banner", out.String())
	}
}

func TestHealth(t *testing.T) {
	router := NewRouter(db.NewTestDB(t), zerolog.Nop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestHealth_ClosedDB(t *testing.T) {
	gdb := db.NewTestDB(t)
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.Close()

	router := NewRouter(gdb, zerolog.Nop())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	router := NewRouter(db.NewTestDB(t), zerolog.Nop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want client value", got)
	}
}

func TestRequestLogger_WritesLine(t *testing.T) {
	var buf strings.Builder
	router := NewRouter(db.NewTestDB(t), zerolog.New(&buf))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/99", nil))

	line := buf.String()
	for _, want := range []string{`"request_id"`, `"status":404`, `"path":"/api/projects/:id"`, `"message":"request"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %s: %s", want, line)
		}
	}
}

func TestNoRoute(t *testing.T) {
	router := NewRouter(db.NewTestDB(t), zerolog.Nop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), CodeNotFound) {
		t.Errorf("body = %s", w.Body.String())
	}
}
