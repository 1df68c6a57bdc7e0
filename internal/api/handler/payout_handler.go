package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carevillage/admin-api/internal/api/metrics"
	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

type PayoutHandler struct {
	service ports.PayoutService
}

func NewPayoutHandler(service ports.PayoutService) *PayoutHandler {
	return &PayoutHandler{service: service}
}

// List handles GET /v1/payouts.
//
// @Summary      List payouts
// @Tags         payouts
// @Produce      json
// @Security     BearerAuth
// @Param        term      query     string  false  "Search in counselor name, email and period (alias: query)"
// @Param        status    query     string  false  "all, pending, processing, completed or failed"
// @Param        page      query     int     false  "Zero-based page"         default(0)
// @Param        pageSize  query     int     false  "Items per page (1-100, larger values are capped at 100)" default(25) minimum(1)
// @Success      200       {object}  query.Page[domain.Payout]
// @Failure      400       {object}  map[string]string
// @Router       /v1/payouts [get]
func (h *PayoutHandler) List(c echo.Context) error {
	var req payoutListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), req.toDescriptor())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Create handles POST /v1/payouts.
//
// @Summary      Request a payout
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPayoutRequest  true  "Payout"
// @Success      201   {object}  domain.Payout
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/payouts [post]
func (h *PayoutHandler) Create(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req createPayoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	scheduled, err := domain.ParseTimestamp(req.ScheduledDate)
	if err != nil {
		return err
	}

	payout, err := h.service.Create(c.Request().Context(), ports.CreatePayoutInput{
		CounselorID:   req.CounselorID,
		Amount:        req.Amount,
		Period:        req.Period,
		ScheduledDate: scheduled,
		Actor:         actor,
	})
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues(domain.PayoutQuery.Name).Inc()
	return c.JSON(http.StatusCreated, payout)
}

// UpdateStatus handles PUT /v1/payouts/:id/status.
//
// @Summary      Change a payout's status
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Payout id"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  domain.Payout
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/payouts/{id}/status [put]
func (h *PayoutHandler) UpdateStatus(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	payout, err := h.service.Transition(c.Request().Context(), ports.TransitionInput{
		ID:     req.ID,
		Status: req.Status,
		Actor:  actor,
	})
	recordTransition(domain.PayoutQuery.Name, req.Status, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payout)
}

// Batch handles POST /v1/payouts/batch. The whole batch is validated up
// front; the payouts are moved to processing by the worker pool.
//
// @Summary      Process payouts in batch
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      batchPayoutRequest  true  "Payout ids and optional processing date"
// @Success      202   {object}  batchPayoutResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/payouts/batch [post]
func (h *PayoutHandler) Batch(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req batchPayoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, err := domain.ParseTimestamp(req.ProcessingDate)
	if err != nil {
		return err
	}

	res, err := h.service.EnqueueBatch(c.Request().Context(), ports.BatchPayoutInput{
		PayoutIDs:      req.PayoutIDs,
		ProcessingDate: date,
		Actor:          actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, batchPayoutResponse{Success: true, ProcessedCount: res.Accepted})
}
