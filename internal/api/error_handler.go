package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Refused
// status transitions also carry the current and the requested status.
type errorResponse struct {
	Error     string `json:"error"`
	Current   string `json:"current,omitempty"`
	Requested string `json:"requested,omitempty"`
}

// notFoundErrors are checked most specific first so the client sees which
// record was missing.
var notFoundErrors = []error{
	domain.ErrAccountNotFound,
	domain.ErrCounselorNotFound,
	domain.ErrMeetingNotFound,
	domain.ErrPayoutNotFound,
	domain.ErrInterviewNotFound,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var te *domain.TransitionError
	if errors.As(err, &te) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:     fmt.Sprintf("cannot move %s from %s to %s", te.Resource, te.From, te.To),
			Current:   te.From,
			Requested: te.To,
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: domain.ErrInvalidCredentials.Error()}
	case errors.Is(err, domain.ErrInvalidQuery), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		for _, nf := range notFoundErrors {
			if errors.Is(err, nf) {
				return http.StatusNotFound, errorResponse{Error: nf.Error()}
			}
		}
		return http.StatusNotFound, errorResponse{Error: domain.ErrNotFound.Error()}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, errorResponse{Error: domain.ErrEmailTaken.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict, errorResponse{Error: domain.ErrDuplicate.Error()}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
