package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/api/dto"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/auth"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/service"
)

// ReportsHandler serves the ticket report and the commission summary.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Tickets handles POST /reports/tickets. The filter arrives in the body
// so the UI can post compound criteria in one round trip.
func (h *ReportsHandler) Tickets(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ReportFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	rows, err := h.reports.TicketReport(c.UserContext(), subject, req.ToFilter())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows, "count": len(rows)})
}

// Commissions handles POST /reports/commissions.
func (h *ReportsHandler) Commissions(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ReportFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	summary, err := h.reports.Commissions(c.UserContext(), subject, req.ToFilter())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
