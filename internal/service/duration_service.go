package service

import (
	"context"
	"errors"

	"github.com/mansoorceksport/clubhouse/internal/domain"
)

// DurationService manages the catalog of purchasable membership lengths
type DurationService struct {
	durationRepo domain.DurationRepository
}

// NewDurationService creates a new DurationService instance
func NewDurationService(durationRepo domain.DurationRepository) *DurationService {
	return &DurationService{durationRepo: durationRepo}
}

type CreateDurationRequest struct {
	DurationMonths int     `json:"durationMonths" validate:"gt=0"`
	Price          float64 `json:"price" validate:"gte=0"`
}

// UpdateDurationRequest carries the fields to change. Nil fields are kept.
type UpdateDurationRequest struct {
	DurationMonths *int     `json:"durationMonths" validate:"omitempty,gt=0"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
}

// ListDurations returns every option sorted by months ascending.
func (s *DurationService) ListDurations(ctx context.Context) ([]*domain.DurationOption, error) {
	return s.durationRepo.List(ctx)
}

func (s *DurationService) GetDuration(ctx context.Context, id string) (*domain.DurationOption, error) {
	d, err := s.durationRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrDurationNotFound
	}
	return d, err
}

func (s *DurationService) CreateDuration(ctx context.Context, req CreateDurationRequest) (*domain.DurationOption, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	// The unique index also guards this; the lookup gives a clean error for
	// the common case.
	if _, err := s.durationRepo.GetByMonths(ctx, req.DurationMonths); err == nil {
		return nil, domain.ErrDuplicateDuration
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	d := &domain.DurationOption{DurationMonths: req.DurationMonths, Price: req.Price}
	if err := s.durationRepo.Create(ctx, d); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicateDuration
		}
		return nil, err
	}
	return d, nil
}

func (s *DurationService) UpdateDuration(ctx context.Context, id string, req UpdateDurationRequest) (*domain.DurationOption, error) {
	d, err := s.GetDuration(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	if req.DurationMonths != nil && *req.DurationMonths != d.DurationMonths {
		existing, err := s.durationRepo.GetByMonths(ctx, *req.DurationMonths)
		switch {
		case err == nil && existing.ID != d.ID:
			return nil, domain.ErrDuplicateDuration
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		d.DurationMonths = *req.DurationMonths
	}
	if req.Price != nil {
		d.Price = *req.Price
	}

	if err := s.durationRepo.Update(ctx, d); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, domain.ErrDuplicateDuration
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrDurationNotFound
		}
		return nil, err
	}
	return d, nil
}

// DeleteDuration removes an option. Memberships bought with it keep their
// copied months and price.
func (s *DurationService) DeleteDuration(ctx context.Context, id string) error {
	err := s.durationRepo.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrDurationNotFound
	}
	return err
}
