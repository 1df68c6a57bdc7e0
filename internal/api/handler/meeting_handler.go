package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carevillage/admin-api/internal/api/metrics"
	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

type MeetingHandler struct {
	service ports.MeetingService
}

func NewMeetingHandler(service ports.MeetingService) *MeetingHandler {
	return &MeetingHandler{service: service}
}

// List handles GET /v1/meetings.
//
// @Summary      List meetings
// @Tags         meetings
// @Produce      json
// @Security     BearerAuth
// @Param        term      query     string  false  "Search in title, counselor and client (alias: query)"
// @Param        status    query     string  false  "all, scheduled, completed, cancelled or no-show"
// @Param        type      query     string  false  "all, individual or group"
// @Param        page      query     int     false  "Zero-based page"         default(0)
// @Param        pageSize  query     int     false  "Items per page (1-100, larger values are capped at 100)" default(25) minimum(1)
// @Success      200       {object}  query.Page[domain.Meeting]
// @Failure      400       {object}  map[string]string
// @Router       /v1/meetings [get]
func (h *MeetingHandler) List(c echo.Context) error {
	var req meetingListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), req.toDescriptor())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Create handles POST /v1/meetings.
//
// @Summary      Schedule a meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMeetingRequest  true  "Meeting"
// @Success      201   {object}  domain.Meeting
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/meetings [post]
func (h *MeetingHandler) Create(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req createMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	meeting, err := h.service.Create(c.Request().Context(), ports.CreateMeetingInput{
		CounselorID:     req.CounselorID,
		ClientID:        req.ClientID,
		Title:           req.Title,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.Duration,
		Type:            req.Type,
		Revenue:         req.Revenue,
		Actor:           actor,
	})
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues(domain.MeetingQuery.Name).Inc()
	return c.JSON(http.StatusCreated, meeting)
}

// UpdateStatus handles PUT /v1/meetings/:id/status. Cancelled and no-show
// meetings lose their revenue.
//
// @Summary      Change a meeting's status
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Meeting id"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  domain.Meeting
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/meetings/{id}/status [put]
func (h *MeetingHandler) UpdateStatus(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	meeting, err := h.service.Transition(c.Request().Context(), ports.TransitionInput{
		ID:     req.ID,
		Status: req.Status,
		Actor:  actor,
	})
	recordTransition(domain.MeetingQuery.Name, req.Status, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meeting)
}
