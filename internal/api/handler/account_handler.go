package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carevillage/admin-api/internal/api/metrics"
	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

// AccountHandler serves the user management routes.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// List handles GET /v1/users.
//
// @Summary      List user accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        term      query     string  false  "Search in name and email (alias: query)"
// @Param        status    query     string  false  "all, active or inactive"
// @Param        role      query     string  false  "all, user, cvc or admin"
// @Param        calendar  query     string  false  "all, connected or disconnected"
// @Param        page      query     int     false  "Zero-based page"         default(0)
// @Param        pageSize  query     int     false  "Items per page (1-100, larger values are capped at 100)" default(25) minimum(1)
// @Success      200       {object}  query.Page[domain.Account]
// @Failure      400       {object}  map[string]string
// @Failure      401       {object}  map[string]string
// @Router       /v1/users [get]
func (h *AccountHandler) List(c echo.Context) error {
	var req accountListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), req.toDescriptor())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Create handles POST /v1/users.
//
// @Summary      Create a user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users [post]
func (h *AccountHandler) Create(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req createAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.service.Create(c.Request().Context(), ports.CreateAccountInput{
		Email:  req.Email,
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
		Actor:  actor,
	})
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues(domain.AccountQuery.Name).Inc()
	return c.JSON(http.StatusCreated, account)
}

// Update handles PUT /v1/users/:id.
//
// @Summary      Update a user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Account id"
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.service.Update(c.Request().Context(), ports.UpdateAccountInput{
		ID:     req.ID,
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
		Actor:  actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// ToggleActive handles POST /v1/users/:id/toggle-active.
//
// @Summary      Activate or deactivate a user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Account id"
// @Param        body  body      toggleActiveRequest  true  "Desired state"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{id}/toggle-active [post]
func (h *AccountHandler) ToggleActive(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return err
	}
	var req toggleActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.service.SetActive(c.Request().Context(), req.ID, *req.Active, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}
