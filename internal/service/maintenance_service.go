package service

import (
	"context"
	"errors"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
)

// MaintenanceService manages facility maintenance tasks
type MaintenanceService struct {
	repo domain.MaintenanceRepository
	now  func() time.Time
}

// NewMaintenanceService creates a new MaintenanceService instance
func NewMaintenanceService(repo domain.MaintenanceRepository) *MaintenanceService {
	return &MaintenanceService{repo: repo, now: utcNow}
}

type CreateMaintenanceRequest struct {
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description" validate:"required"`
	Category      string    `json:"category" validate:"required,oneof=facility equipment cleaning repairs other"`
	Priority      string    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	ScheduledDate time.Time `json:"scheduledDate" validate:"required"`
	Cost          float64   `json:"cost" validate:"gte=0"`
	AssignedTo    string    `json:"assignedTo"`
	Notes         string    `json:"notes"`
}

// UpdateMaintenanceRequest changes only the fields that are set.
type UpdateMaintenanceRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category" validate:"omitempty,oneof=facility equipment cleaning repairs other"`
	Priority       string     `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status         string     `json:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
	AssignedTo     string     `json:"assignedTo"`
	Cost           *float64   `json:"cost" validate:"omitempty,gte=0"`
	ScheduledDate  *time.Time `json:"scheduledDate"`
	CompletionDate *time.Time `json:"completionDate"`
	Notes          string     `json:"notes"`
}

func (s *MaintenanceService) CreateTask(ctx context.Context, req CreateMaintenanceRequest) (*domain.MaintenanceTask, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.MaintenancePriorityMedium
	}

	t := &domain.MaintenanceTask{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      priority,
		Status:        domain.MaintenanceStatusPending,
		AssignedTo:    req.AssignedTo,
		Cost:          req.Cost,
		ScheduledDate: req.ScheduledDate.UTC(),
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns tasks earliest scheduled first.
func (s *MaintenanceService) ListTasks(ctx context.Context) ([]*domain.MaintenanceTask, error) {
	return s.repo.List(ctx)
}

func (s *MaintenanceService) GetTask(ctx context.Context, id string) (*domain.MaintenanceTask, error) {
	t, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrMaintenanceNotFound
	}
	return t, err
}

func (s *MaintenanceService) UpdateTask(ctx context.Context, id string, req UpdateMaintenanceRequest) (*domain.MaintenanceTask, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Category != "" {
		t.Category = req.Category
	}
	if req.Priority != "" {
		t.Priority = req.Priority
	}
	if req.AssignedTo != "" {
		t.AssignedTo = req.AssignedTo
	}
	if req.Cost != nil {
		t.Cost = *req.Cost
	}
	if req.ScheduledDate != nil {
		t.ScheduledDate = req.ScheduledDate.UTC()
	}
	if req.CompletionDate != nil {
		done := req.CompletionDate.UTC()
		t.CompletionDate = &done
	}
	if req.Notes != "" {
		t.Notes = req.Notes
	}
	if req.Status != "" {
		t.SetStatus(req.Status, s.now())
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrMaintenanceNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *MaintenanceService) DeleteTask(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrMaintenanceNotFound
	}
	return err
}
