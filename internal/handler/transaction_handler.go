package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/mansoorceksport/clubhouse/internal/service"
)

// TransactionHandler serves the ledger under /api/transactions
type TransactionHandler struct {
	ledger *service.LedgerService
}

func NewTransactionHandler(ledger *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// Create handles POST /api/transactions/create
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req service.RecordTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Ledger", err)
	}
	t, err := h.ledger.Record(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Ledger", err)
	}
	return respondOK(c, fiber.StatusCreated, "Transaction recorded successfully", t)
}

// List handles GET /api/transactions/list?type=&status=&membershipNumber=
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	ts, err := h.ledger.List(c.UserContext(), domain.TransactionFilter{
		Type:             c.Query("type"),
		Status:           c.Query("status"),
		MembershipNumber: c.Query("membershipNumber"),
	})
	if err != nil {
		return respondError(c, "Ledger", err)
	}
	return respondOK(c, fiber.StatusOK, "", ts)
}

// Get handles GET /api/transactions/get/:id
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	t, err := h.ledger.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Ledger", err)
	}
	return respondOK(c, fiber.StatusOK, "", t)
}

// ListByMembership handles GET /api/transactions/membership/:membershipNumber
func (h *TransactionHandler) ListByMembership(c *fiber.Ctx) error {
	ts, err := h.ledger.ListByMembership(c.UserContext(), c.Params("membershipNumber"))
	if err != nil {
		return respondError(c, "Ledger", err)
	}
	return respondOK(c, fiber.StatusOK, "", ts)
}
