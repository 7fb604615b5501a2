package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/oklog/ulid/v2"
)

// LedgerService appends and reads transactions. There is no way to change or
// remove an entry once written.
type LedgerService struct {
	txnRepo domain.TransactionRepository
	now     func() time.Time
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(txnRepo domain.TransactionRepository) *LedgerService {
	return &LedgerService{
		txnRepo: txnRepo,
		now:     utcNow,
	}
}

// RecordTransactionRequest is a manually entered ledger entry.
type RecordTransactionRequest struct {
	MembershipNumber string  `json:"membershipNumber"`
	Type             string  `json:"type" validate:"required,oneof=membership event other"`
	Description      string  `json:"description" validate:"required"`
	Amount           float64 `json:"amount" validate:"gte=0"`
	PaymentMethod    string  `json:"paymentMethod" validate:"omitempty,oneof=cash card online free"`
	Status           string  `json:"status" validate:"omitempty,oneof=pending completed failed cancelled"`
}

// Record validates and appends a manual entry.
func (s *LedgerService) Record(ctx context.Context, req RecordTransactionRequest) (*domain.Transaction, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	t := &domain.Transaction{
		MembershipNumber: req.MembershipNumber,
		Type:             req.Type,
		Description:      req.Description,
		Amount:           req.Amount,
		PaymentMethod:    req.PaymentMethod,
		Status:           req.Status,
	}
	if err := s.append(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// append stamps the id, date and defaults, then persists t.
func (s *LedgerService) append(ctx context.Context, t *domain.Transaction) error {
	t.TransactionID = NewTransactionID()
	if t.TransactionDate.IsZero() {
		t.TransactionDate = s.now()
	}
	if t.PaymentMethod == "" {
		t.PaymentMethod = domain.PaymentMethodCash
	}
	if t.Status == "" {
		t.Status = domain.TransactionStatusCompleted
	}

	if err := s.txnRepo.Append(ctx, t); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// List returns matching entries, newest first.
func (s *LedgerService) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	verr := &domain.ValidationError{}
	if filter.Type != "" && !contains(domain.TransactionTypes, filter.Type) {
		verr.Add("type", "must be one of: membership, event, other")
	}
	if filter.Status != "" && !contains(domain.TransactionStatuses, filter.Status) {
		verr.Add("status", "must be one of: pending, completed, failed, cancelled")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return s.txnRepo.List(ctx, filter)
}

func (s *LedgerService) ListByMembership(ctx context.Context, number string) ([]*domain.Transaction, error) {
	return s.txnRepo.List(ctx, domain.TransactionFilter{MembershipNumber: number})
}

func (s *LedgerService) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	t, err := s.txnRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	return t, err
}

// NewTransactionID returns a sortable, collision-free public id.
func NewTransactionID() string {
	return "TXN-" + ulid.Make().String()
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
