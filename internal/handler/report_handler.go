package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/clubhouse/internal/middleware"
	"github.com/mansoorceksport/clubhouse/internal/service"
)

// ReportHandler serves /api/reports
type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Memberships handles GET /api/reports/memberships
func (h *ReportHandler) Memberships(c *fiber.Ctx) error {
	r, err := h.reportService.MembershipReport(c.UserContext())
	if err != nil {
		return respondError(c, "Report", err)
	}
	return respondOK(c, fiber.StatusOK, "", r)
}

// Events handles GET /api/reports/events
func (h *ReportHandler) Events(c *fiber.Ctx) error {
	r, err := h.reportService.EventReport(c.UserContext())
	if err != nil {
		return respondError(c, "Report", err)
	}
	return respondOK(c, fiber.StatusOK, "", r)
}

// Financial handles GET /api/reports/financial (admin)
func (h *ReportHandler) Financial(c *fiber.Ctx) error {
	r, err := h.reportService.FinancialReport(c.UserContext())
	if err != nil {
		return respondError(c, "Report", err)
	}
	return respondOK(c, fiber.StatusOK, "", r)
}

// Dashboard handles GET /api/reports/dashboard. Financial totals are only
// included for admins.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.reportService.Dashboard(c.UserContext(), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, "Report", err)
	}
	return respondOK(c, fiber.StatusOK, "", d)
}

// Archive handles POST /api/reports/archive (admin)
func (h *ReportHandler) Archive(c *fiber.Ctx) error {
	url, err := h.reportService.ArchiveSnapshot(c.UserContext())
	if err != nil {
		return respondError(c, "Report", err)
	}
	return respondOK(c, fiber.StatusCreated, "Report snapshot archived", fiber.Map{"url": url})
}

// Archives handles GET /api/reports/archives (admin)
func (h *ReportHandler) Archives(c *fiber.Ctx) error {
	records, err := h.reportService.RecentArchives(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		return respondError(c, "Report", err)
	}
	return respondOK(c, fiber.StatusOK, "", records)
}
