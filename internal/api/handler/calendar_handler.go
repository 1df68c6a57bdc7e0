package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

type CalendarHandler struct {
	service ports.CalendarService
}

func NewCalendarHandler(service ports.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// Events handles GET /v1/calendar. Without bounds every meeting and
// interview is returned.
//
// @Summary      Calendar events in a date range
// @Tags         calendar
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  false  "Range start, RFC 3339 or YYYY-MM-DD"
// @Param        end    query     string  false  "Range end, inclusive"
// @Success      200    {object}  calendarResponse
// @Failure      400    {object}  map[string]string
// @Router       /v1/calendar [get]
func (h *CalendarHandler) Events(c echo.Context) error {
	var req calendarRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := domain.ParseDateRange(req.Start, req.End)
	if err != nil {
		return err
	}

	events, err := h.service.Events(c.Request().Context(), r)
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.CalendarEvent{}
	}
	return c.JSON(http.StatusOK, calendarResponse{Events: events})
}
