package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), http.StatusTooManyRequests, "rate limit exceeded"},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrPayoutNotFound), http.StatusNotFound, "payout not found"},
		{"bare not found", domain.ErrNotFound, http.StatusNotFound, "not found"},
		{"email taken", fmt.Errorf("create: %w", domain.ErrEmailTaken), http.StatusConflict, "email already exists"},
		{"invalid query", domain.ErrInvalidQuery, http.StatusBadRequest, domain.ErrInvalidQuery.Error()},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := resolveError(tc.err, zerolog.Nop(), c)
			if code != tc.code || body.Error != tc.msg {
				t.Fatalf("got %d %q, want %d %q", code, body.Error, tc.code, tc.msg)
			}
		})
	}
}

func TestResolveError_Transition(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := fmt.Errorf("transition: %w", &domain.TransitionError{Resource: "payout", From: "completed", To: "failed"})
	code, body := resolveError(err, zerolog.Nop(), c)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if body.Current != "completed" || body.Requested != "failed" || body.Error != "cannot move payout from completed to failed" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
