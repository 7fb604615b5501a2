package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
)

// MembershipService drives the membership lifecycle. Every lifecycle change
// appends exactly one ledger entry.
type MembershipService struct {
	membershipRepo domain.MembershipRepository
	durationRepo   domain.DurationRepository
	ledger         *LedgerService
	now            func() time.Time
}

// NewMembershipService creates a new MembershipService instance
func NewMembershipService(
	membershipRepo domain.MembershipRepository,
	durationRepo domain.DurationRepository,
	ledger *LedgerService,
) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		durationRepo:   durationRepo,
		ledger:         ledger,
		now:            utcNow,
	}
}

type CreateMembershipRequest struct {
	MembershipNumber string `json:"membershipNumber" validate:"required"`
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required"`
	Address          string `json:"address" validate:"required"`
	DurationID       string `json:"durationId" validate:"required"`
	PaymentMethod    string `json:"paymentMethod" validate:"omitempty,oneof=cash card online"`
}

type ExtendMembershipRequest struct {
	DurationID    string `json:"durationId" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,oneof=cash card online"`
}

// UpdateProfileRequest changes personal fields only. Empty fields are kept.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (s *MembershipService) CreateMembership(ctx context.Context, req CreateMembershipRequest) (*domain.Membership, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.membershipRepo.GetByNumber(ctx, req.MembershipNumber); err == nil {
		return nil, domain.ErrDuplicateMembership
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	d, err := s.resolveDuration(ctx, req.DurationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	m := domain.NewMembership(req.MembershipNumber, domain.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}, d, now)

	if err := s.membershipRepo.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicateMembership
		}
		return nil, err
	}

	err = s.ledger.append(ctx, &domain.Transaction{
		MembershipNumber: m.MembershipNumber,
		Type:             domain.TransactionTypeMembership,
		Description:      fmt.Sprintf("New %s membership created for %s", d.Label(), m.FullName()),
		Amount:           d.Price,
		PaymentMethod:    req.PaymentMethod,
		TransactionDate:  now,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MembershipService) ExtendMembership(ctx context.Context, number string, req ExtendMembershipRequest) (*domain.Membership, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	m, err := s.getStored(ctx, number)
	if err != nil {
		return nil, err
	}

	d, err := s.resolveDuration(ctx, req.DurationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := m.Extend(d, now); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	err = s.ledger.append(ctx, &domain.Transaction{
		MembershipNumber: m.MembershipNumber,
		Type:             domain.TransactionTypeMembership,
		Description:      fmt.Sprintf("Membership extended by %s", d.Label()),
		Amount:           d.Price,
		PaymentMethod:    req.PaymentMethod,
		TransactionDate:  now,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CancelMembership ends the membership now. Cancelling twice still records a
// zero entry but keeps the first cancellation date.
func (s *MembershipService) CancelMembership(ctx context.Context, number string) (*domain.Membership, error) {
	m, err := s.getStored(ctx, number)
	if err != nil {
		return nil, err
	}

	now := s.now()
	m.Cancel(now)
	if err := s.membershipRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	err = s.ledger.append(ctx, &domain.Transaction{
		MembershipNumber: m.MembershipNumber,
		Type:             domain.TransactionTypeMembership,
		Description:      "Membership cancelled",
		Amount:           0,
		TransactionDate:  now,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MembershipService) UpdateProfile(ctx context.Context, number string, req UpdateProfileRequest) (*domain.Membership, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	m, err := s.getStored(ctx, number)
	if err != nil {
		return nil, err
	}

	m.ApplyProfile(domain.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err := s.membershipRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	m.Status = domain.EffectiveStatus(m, s.now())
	return m, nil
}

// GetMembership returns the membership with its effective status.
func (s *MembershipService) GetMembership(ctx context.Context, number string) (*domain.Membership, error) {
	m, err := s.getStored(ctx, number)
	if err != nil {
		return nil, err
	}
	m.Status = domain.EffectiveStatus(m, s.now())
	return m, nil
}

// ListMemberships returns all memberships with their effective status.
func (s *MembershipService) ListMemberships(ctx context.Context) ([]*domain.Membership, error) {
	memberships, err := s.membershipRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, m := range memberships {
		m.Status = domain.EffectiveStatus(m, now)
	}
	return memberships, nil
}

func (s *MembershipService) getStored(ctx context.Context, number string) (*domain.Membership, error) {
	m, err := s.membershipRepo.GetByNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrMembershipNotFound
	}
	return m, err
}

func (s *MembershipService) resolveDuration(ctx context.Context, id string) (*domain.DurationOption, error) {
	d, err := s.durationRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("durationId", "Invalid duration selected")
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
