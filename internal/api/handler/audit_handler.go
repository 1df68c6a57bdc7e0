package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carevillage/admin-api/internal/core/ports"
)

type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /v1/audit. Entries come newest first.
//
// @Summary      List audit log entries
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        term      query     string  false  "Search in actor, action and target (alias: query)"
// @Param        action    query     string  false  "Exact action, e.g. counselor.status_changed"
// @Param        page      query     int     false  "Zero-based page"         default(0)
// @Param        pageSize  query     int     false  "Items per page (1-100, larger values are capped at 100)" default(25) minimum(1)
// @Success      200       {object}  query.Page[domain.AuditEntry]
// @Failure      400       {object}  map[string]string
// @Router       /v1/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	var req auditListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), req.toDescriptor())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
