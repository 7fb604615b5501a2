package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/mansoorceksport/clubhouse/internal/service"
	"github.com/mansoorceksport/clubhouse/internal/telemetry"
)

// MembershipHandler serves /api/membership
type MembershipHandler struct {
	membershipService *service.MembershipService
}

func NewMembershipHandler(membershipService *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// updateMembershipRequest carries one of the three update shapes, selected by Action.
type updateMembershipRequest struct {
	Action        string `json:"action"`
	DurationID    string `json:"durationId"`
	PaymentMethod string `json:"paymentMethod"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// Create handles POST /api/membership/add
func (h *MembershipHandler) Create(c *fiber.Ctx) error {
	var req service.CreateMembershipRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Membership", err)
	}

	m, err := h.membershipService.CreateMembership(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Membership", err)
	}
	return respondOK(c, fiber.StatusCreated, "Membership created successfully", m)
}

// Update handles PUT /api/membership/update/:membershipNumber
func (h *MembershipHandler) Update(c *fiber.Ctx) error {
	number := c.Params("membershipNumber")
	telemetry.SetSpanAttribute(c, "membership.number", number)

	var req updateMembershipRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Membership", err)
	}

	var (
		m       *domain.Membership
		err     error
		message string
	)
	switch req.Action {
	case "extend":
		m, err = h.membershipService.ExtendMembership(c.UserContext(), number, service.ExtendMembershipRequest{
			DurationID:    req.DurationID,
			PaymentMethod: req.PaymentMethod,
		})
		message = "Membership extended successfully"
	case "cancel":
		m, err = h.membershipService.CancelMembership(c.UserContext(), number)
		message = "Membership cancelled successfully"
	case "":
		m, err = h.membershipService.UpdateProfile(c.UserContext(), number, service.UpdateProfileRequest{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Address:   req.Address,
		})
		message = "Membership updated successfully"
	default:
		err = domain.NewValidationError("action", "must be one of: extend, cancel")
	}
	if err != nil {
		return respondError(c, "Membership", err)
	}
	return respondOK(c, fiber.StatusOK, message, m)
}

// Get handles GET /api/membership/get/:membershipNumber
func (h *MembershipHandler) Get(c *fiber.Ctx) error {
	m, err := h.membershipService.GetMembership(c.UserContext(), c.Params("membershipNumber"))
	if err != nil {
		return respondError(c, "Membership", err)
	}
	return respondOK(c, fiber.StatusOK, "", m)
}

// List handles GET /api/membership/list/all
func (h *MembershipHandler) List(c *fiber.Ctx) error {
	ms, err := h.membershipService.ListMemberships(c.UserContext())
	if err != nil {
		return respondError(c, "Membership", err)
	}
	return respondOK(c, fiber.StatusOK, "", ms)
}
