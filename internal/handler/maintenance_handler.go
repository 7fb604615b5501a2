package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/clubhouse/internal/service"
)

// MaintenanceHandler serves facility tasks under /api/maintenance (admin)
type MaintenanceHandler struct {
	maintenanceService *service.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// Create handles POST /api/maintenance/create
func (h *MaintenanceHandler) Create(c *fiber.Ctx) error {
	var req service.CreateMaintenanceRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Maintenance", err)
	}
	t, err := h.maintenanceService.CreateTask(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Maintenance", err)
	}
	return respondOK(c, fiber.StatusCreated, "Maintenance request created successfully", t)
}

// List handles GET /api/maintenance/list
func (h *MaintenanceHandler) List(c *fiber.Ctx) error {
	tasks, err := h.maintenanceService.ListTasks(c.UserContext())
	if err != nil {
		return respondError(c, "Maintenance", err)
	}
	return respondOK(c, fiber.StatusOK, "", tasks)
}

// Get handles GET /api/maintenance/get/:id
func (h *MaintenanceHandler) Get(c *fiber.Ctx) error {
	t, err := h.maintenanceService.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Maintenance", err)
	}
	return respondOK(c, fiber.StatusOK, "", t)
}

// Update handles PUT /api/maintenance/update/:id
func (h *MaintenanceHandler) Update(c *fiber.Ctx) error {
	var req service.UpdateMaintenanceRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Maintenance", err)
	}
	t, err := h.maintenanceService.UpdateTask(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, "Maintenance", err)
	}
	return respondOK(c, fiber.StatusOK, "Maintenance request updated successfully", t)
}

// Delete handles DELETE /api/maintenance/delete/:id
func (h *MaintenanceHandler) Delete(c *fiber.Ctx) error {
	if err := h.maintenanceService.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Maintenance", err)
	}
	return respondOK(c, fiber.StatusOK, "Maintenance request deleted successfully", nil)
}
