package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/clubhouse/internal/service"
)

// DurationHandler serves the duration catalog under /api/maintenance
type DurationHandler struct {
	durationService *service.DurationService
}

func NewDurationHandler(durationService *service.DurationService) *DurationHandler {
	return &DurationHandler{durationService: durationService}
}

// List handles GET /api/maintenance/durations
func (h *DurationHandler) List(c *fiber.Ctx) error {
	ds, err := h.durationService.ListDurations(c.UserContext())
	if err != nil {
		return respondError(c, "Duration", err)
	}
	return respondOK(c, fiber.StatusOK, "", ds)
}

// Create handles POST /api/maintenance/durations
func (h *DurationHandler) Create(c *fiber.Ctx) error {
	var req service.CreateDurationRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Duration", err)
	}
	d, err := h.durationService.CreateDuration(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Duration", err)
	}
	return respondOK(c, fiber.StatusCreated, "Duration created successfully", d)
}

// Update handles PUT /api/maintenance/durations/:id
func (h *DurationHandler) Update(c *fiber.Ctx) error {
	var req service.UpdateDurationRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Duration", err)
	}
	d, err := h.durationService.UpdateDuration(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, "Duration", err)
	}
	return respondOK(c, fiber.StatusOK, "Duration updated successfully", d)
}

// Delete handles DELETE /api/maintenance/durations/:id
func (h *DurationHandler) Delete(c *fiber.Ctx) error {
	if err := h.durationService.DeleteDuration(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Duration", err)
	}
	return respondOK(c, fiber.StatusOK, "Duration deleted successfully", nil)
}
