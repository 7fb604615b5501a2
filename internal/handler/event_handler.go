package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/clubhouse/internal/service"
	"github.com/mansoorceksport/clubhouse/internal/telemetry"
)

// EventHandler serves /api/events
type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type registrationRequest struct {
	MembershipNumber string `json:"membershipNumber"`
}

// List handles GET /api/events/list
func (h *EventHandler) List(c *fiber.Ctx) error {
	es, err := h.eventService.ListEvents(c.UserContext())
	if err != nil {
		return respondError(c, "Event", err)
	}
	return respondOK(c, fiber.StatusOK, "", es)
}

// Get handles GET /api/events/get/:id
func (h *EventHandler) Get(c *fiber.Ctx) error {
	e, err := h.eventService.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Event", err)
	}
	return respondOK(c, fiber.StatusOK, "", e)
}

// Members handles GET /api/events/members/:id
func (h *EventHandler) Members(c *fiber.Ctx) error {
	members, err := h.eventService.Members(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Event", err)
	}
	return respondOK(c, fiber.StatusOK, "", members)
}

// Create handles POST /api/events/create (admin)
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req service.CreateEventRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Event", err)
	}
	e, err := h.eventService.CreateEvent(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Event", err)
	}
	return respondOK(c, fiber.StatusCreated, "Event created successfully", e)
}

// Update handles PUT /api/events/update/:id (admin)
func (h *EventHandler) Update(c *fiber.Ctx) error {
	var req service.UpdateEventRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Event", err)
	}
	e, err := h.eventService.UpdateEvent(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, "Event", err)
	}
	return respondOK(c, fiber.StatusOK, "Event updated successfully", e)
}

// Delete handles DELETE /api/events/delete/:id (admin)
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	if err := h.eventService.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Event", err)
	}
	return respondOK(c, fiber.StatusOK, "Event deleted successfully", nil)
}

// Register handles POST /api/events/register/:id
func (h *EventHandler) Register(c *fiber.Ctx) error {
	var req registrationRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Event", err)
	}
	telemetry.SetSpanAttribute(c, "membership.number", req.MembershipNumber)
	e, err := h.eventService.Register(c.UserContext(), c.Params("id"), req.MembershipNumber)
	if err != nil {
		return respondError(c, "Event", err)
	}
	return respondOK(c, fiber.StatusOK, "Member registered successfully", e)
}

// Unregister handles POST /api/events/unregister/:id
func (h *EventHandler) Unregister(c *fiber.Ctx) error {
	var req registrationRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Event", err)
	}
	e, err := h.eventService.Unregister(c.UserContext(), c.Params("id"), req.MembershipNumber)
	if err != nil {
		return respondError(c, "Event", err)
	}
	return respondOK(c, fiber.StatusOK, "Member unregistered successfully", e)
}
