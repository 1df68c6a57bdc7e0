package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carevillage/admin-api/internal/core/ports"
)

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Stats handles GET /v1/stats.
//
// @Summary      Dashboard headline numbers
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DashboardStats
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /v1/stats [get]
func (h *ReportHandler) Stats(c echo.Context) error {
	stats, err := h.service.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Financials handles GET /v1/financials.
//
// @Summary      Revenue and payout report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Financials
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /v1/financials [get]
func (h *ReportHandler) Financials(c echo.Context) error {
	report, err := h.service.Financials(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
