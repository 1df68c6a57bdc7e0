package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carevillage/admin-api/internal/api/metrics"
	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

// CounselorHandler serves the CVC application and lifecycle routes.
type CounselorHandler struct {
	service ports.CounselorService
}

func NewCounselorHandler(service ports.CounselorService) *CounselorHandler {
	return &CounselorHandler{service: service}
}

// List handles GET /v1/cvcs.
//
// @Summary      List counselors
// @Tags         cvcs
// @Produce      json
// @Security     BearerAuth
// @Param        term       query     string  false  "Search in name, email and specialties (alias: query)"
// @Param        status     query     string  false  "all, pending, approved, rejected or suspended"
// @Param        specialty  query     string  false  "Exact specialty tag, case-insensitive"
// @Param        page       query     int     false  "Zero-based page"         default(0)
// @Param        pageSize   query     int     false  "Items per page (1-100, larger values are capped at 100)" default(25) minimum(1)
// @Success      200        {object}  query.Page[domain.Counselor]
// @Failure      400        {object}  map[string]string
// @Failure      401        {object}  map[string]string
// @Router       /v1/cvcs [get]
func (h *CounselorHandler) List(c echo.Context) error {
	var req counselorListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), req.toDescriptor())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Create handles POST /v1/cvcs. New applications always start pending.
//
// @Summary      Register a counselor application
// @Tags         cvcs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCounselorRequest  true  "Application"
// @Success      201   {object}  domain.Counselor
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/cvcs [post]
func (h *CounselorHandler) Create(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req createCounselorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	counselor, err := h.service.Create(c.Request().Context(), ports.CreateCounselorInput{
		AccountID:   req.UserID,
		Email:       req.Email,
		Name:        req.Name,
		Specialties: req.Specialties,
		Actor:       actor,
	})
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues(domain.CounselorQuery.Name).Inc()
	return c.JSON(http.StatusCreated, counselor)
}

// UpdateStatus handles PUT /v1/cvcs/:id/status.
//
// @Summary      Change a counselor's status
// @Tags         cvcs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Counselor id"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  domain.Counselor
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/cvcs/{id}/status [put]
func (h *CounselorHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.transition(c, req.ID, req.Status)
}

// Approve handles POST /v1/cvcs/:id/approve.
//
// @Summary      Approve a pending counselor
// @Tags         cvcs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Counselor id"
// @Success      200  {object}  domain.Counselor
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/cvcs/{id}/approve [post]
func (h *CounselorHandler) Approve(c echo.Context) error {
	return h.action(c, string(domain.CounselorApproved))
}

// Reject handles POST /v1/cvcs/:id/reject.
//
// @Summary      Reject a pending counselor
// @Tags         cvcs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Counselor id"
// @Success      200  {object}  domain.Counselor
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/cvcs/{id}/reject [post]
func (h *CounselorHandler) Reject(c echo.Context) error {
	return h.action(c, string(domain.CounselorRejected))
}

// Suspend handles POST /v1/cvcs/:id/suspend.
//
// @Summary      Suspend an approved counselor
// @Tags         cvcs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Counselor id"
// @Success      200  {object}  domain.Counselor
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/cvcs/{id}/suspend [post]
func (h *CounselorHandler) Suspend(c echo.Context) error {
	return h.action(c, string(domain.CounselorSuspended))
}

// Reinstate handles POST /v1/cvcs/:id/reinstate.
//
// @Summary      Reinstate a suspended counselor
// @Tags         cvcs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Counselor id"
// @Success      200  {object}  domain.Counselor
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/cvcs/{id}/reinstate [post]
func (h *CounselorHandler) Reinstate(c echo.Context) error {
	return h.action(c, string(domain.CounselorApproved))
}

func (h *CounselorHandler) action(c echo.Context, status string) error {
	var req idParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.transition(c, req.ID, status)
}

func (h *CounselorHandler) transition(c echo.Context, id, status string) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}

	counselor, err := h.service.Transition(c.Request().Context(), ports.TransitionInput{
		ID:     id,
		Status: status,
		Actor:  actor,
	})
	recordTransition(domain.CounselorQuery.Name, status, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counselor)
}
