package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/exercisetracker/exercise-api/internal/core/domain"
)

func handleErr(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	NewHTTPErrorHandler(zerolog.Nop())(err, e.NewContext(req, rec))
	return rec
}

func TestErrorHandler_EchoError(t *testing.T) {
	rec := handleErr(t, echo.NewHTTPError(http.StatusBadRequest, "invalid date"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"invalid date"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("wrap: %w", domain.ErrInvalidDate), http.StatusBadRequest},
		{domain.ErrMissingUserID, http.StatusBadRequest},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrExerciseNotFound, http.StatusNotFound},
		{domain.ErrRequestInProgress, http.StatusConflict},
	}
	for _, tc := range cases {
		if rec := handleErr(t, tc.err); rec.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}
}

func TestErrorHandler_UnexpectedIsGeneric500(t *testing.T) {
	rec := handleErr(t, errors.New("mongo: socket closed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Internal server error") || strings.Contains(body, "socket") {
		t.Fatalf("expected generic message without details, got %s", body)
	}
}
