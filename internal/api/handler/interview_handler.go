package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carevillage/admin-api/internal/api/metrics"
	"github.com/carevillage/admin-api/internal/core/ports"
)

type InterviewHandler struct {
	service ports.InterviewService
}

func NewInterviewHandler(service ports.InterviewService) *InterviewHandler {
	return &InterviewHandler{service: service}
}

// Schedule handles POST /v1/interviews.
//
// @Summary      Schedule an onboarding interview
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      scheduleInterviewRequest  true  "Interview"
// @Success      201   {object}  domain.Interview
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/interviews [post]
func (h *InterviewHandler) Schedule(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req scheduleInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	interview, err := h.service.Schedule(c.Request().Context(), ports.ScheduleInterviewInput{
		CounselorID:     req.CounselorID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.Duration,
		Type:            req.Type,
		Notes:           req.Notes,
		Interviewer:     req.Interviewer,
		Actor:           actor,
	})
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("interviews").Inc()
	return c.JSON(http.StatusCreated, interview)
}
