package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func serveLogged(t *testing.T, status int) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/api/users", func(c echo.Context) error {
		return c.NoContent(status)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != status {
		t.Fatalf("expected %d, got %d", status, rec.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestRequestLogger_Info(t *testing.T) {
	entry := serveLogged(t, http.StatusOK)

	if entry["level"] != "info" {
		t.Errorf("expected info level, got %v", entry["level"])
	}
	if entry["method"] != "GET" || entry["uri"] != "/api/users" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("expected status 200, got %v", entry["status"])
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	if lvl := serveLogged(t, http.StatusBadRequest)["level"]; lvl != "warn" {
		t.Errorf("expected warn for 4xx, got %v", lvl)
	}
	if lvl := serveLogged(t, http.StatusInternalServerError)["level"]; lvl != "error" {
		t.Errorf("expected error for 5xx, got %v", lvl)
	}
}
