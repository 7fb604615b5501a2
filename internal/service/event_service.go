package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
)

// EventService manages club events and seat registrations
type EventService struct {
	eventRepo      domain.EventRepository
	membershipRepo domain.MembershipRepository
	ledger         *LedgerService
	now            func() time.Time
}

// NewEventService creates a new EventService instance
func NewEventService(
	eventRepo domain.EventRepository,
	membershipRepo domain.MembershipRepository,
	ledger *LedgerService,
) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		membershipRepo: membershipRepo,
		ledger:         ledger,
		now:            utcNow,
	}
}

type CreateEventRequest struct {
	EventName   string    `json:"eventName" validate:"required"`
	EventDate   time.Time `json:"eventDate" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Capacity    int       `json:"capacity" validate:"gt=0"`
}

// UpdateEventRequest changes only the fields that are set.
type UpdateEventRequest struct {
	EventName   string     `json:"eventName"`
	EventDate   *time.Time `json:"eventDate"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Capacity    *int       `json:"capacity" validate:"omitempty,gt=0"`
	Status      string     `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

// EventMember is a registered member joined with their membership details.
type EventMember struct {
	MembershipNumber string    `json:"membershipNumber"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	RegisteredAt     time.Time `json:"registeredAt"`
}

type EventMembers struct {
	EventName          string        `json:"eventName"`
	TotalRegistrations int           `json:"totalRegistrations"`
	Members            []EventMember `json:"members"`
}

func (s *EventService) CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.Event, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	e := &domain.Event{
		EventName:   req.EventName,
		EventDate:   req.EventDate.UTC(),
		Location:    req.Location,
		Description: req.Description,
		Capacity:    req.Capacity,
		Status:      domain.EventStatusUpcoming,
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) (*domain.Event, error) {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	if req.EventName != "" {
		e.EventName = req.EventName
	}
	if req.EventDate != nil {
		e.EventDate = req.EventDate.UTC()
	}
	if req.Location != "" {
		e.Location = req.Location
	}
	if req.Description != "" {
		e.Description = req.Description
	}
	if req.Capacity != nil {
		if *req.Capacity < e.Registrations {
			return nil, capacityTooLow()
		}
		e.Capacity = *req.Capacity
	}
	if req.Status != "" {
		e.Status = req.Status
	}

	if err := s.eventRepo.Update(ctx, e); err != nil {
		switch {
		case errors.Is(err, domain.ErrCapacityTooLow):
			return nil, capacityTooLow()
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func capacityTooLow() error {
	return domain.NewValidationError("capacity", "cannot be less than current registrations")
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	err := s.eventRepo.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrEventNotFound
	}
	return err
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrEventNotFound
	}
	return e, err
}

// ListEvents returns events soonest first.
func (s *EventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return s.eventRepo.List(ctx)
}

// Register admits a member to an event and records a zero-amount entry.
func (s *EventService) Register(ctx context.Context, eventID, number string) (*domain.Event, error) {
	if number == "" {
		return nil, domain.NewValidationError("membershipNumber", "is required")
	}

	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.IsFull() {
		return nil, domain.ErrEventFull
	}

	m, err := s.membershipRepo.GetByNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := domain.CheckRegistrationEligibility(e, m, now); err != nil {
		if errors.Is(err, domain.ErrMembershipExpired) && m.Status == domain.MembershipStatusActive {
			if markErr := s.membershipRepo.MarkExpired(ctx, m.MembershipNumber); markErr != nil {
				log.Printf("[Events] failed to persist expiry of %s: %v", m.MembershipNumber, markErr)
			}
		}
		return nil, err
	}

	reg := domain.EventRegistration{MembershipNumber: number, RegisteredAt: now}
	ok, err := s.eventRepo.AddRegistration(ctx, eventID, reg)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race: re-read to report why the seat was refused
		return nil, s.registrationConflict(ctx, eventID, number)
	}

	err = s.ledger.append(ctx, &domain.Transaction{
		MembershipNumber: number,
		Type:             domain.TransactionTypeEvent,
		Description:      fmt.Sprintf("Registered for event: %s", e.EventName),
		Amount:           0,
		PaymentMethod:    domain.PaymentMethodFree,
		TransactionDate:  now,
	})
	if err != nil {
		return nil, err
	}

	e.Registrations++
	e.RegisteredMembers = append(e.RegisteredMembers, reg)
	return e, nil
}

func (s *EventService) registrationConflict(ctx context.Context, eventID, number string) error {
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if e.IsRegistered(number) {
		return domain.ErrAlreadyRegistered
	}
	return domain.ErrEventFull
}

// Unregister releases a member's seat and records a zero-amount entry.
func (s *EventService) Unregister(ctx context.Context, eventID, number string) (*domain.Event, error) {
	if number == "" {
		return nil, domain.NewValidationError("membershipNumber", "is required")
	}

	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.Registrations <= 0 {
		return nil, domain.ErrNoRegistrations
	}

	if _, err := s.membershipRepo.GetByNumber(ctx, number); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}
	if !e.IsRegistered(number) {
		return nil, domain.ErrNotRegistered
	}

	ok, err := s.eventRepo.RemoveRegistration(ctx, eventID, number)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotRegistered
	}

	err = s.ledger.append(ctx, &domain.Transaction{
		MembershipNumber: number,
		Type:             domain.TransactionTypeEvent,
		Description:      fmt.Sprintf("Unregistered from event: %s", e.EventName),
		Amount:           0,
		PaymentMethod:    domain.PaymentMethodFree,
		TransactionDate:  s.now(),
	})
	if err != nil {
		return nil, err
	}

	e.Registrations--
	kept := e.RegisteredMembers[:0]
	for _, r := range e.RegisteredMembers {
		if r.MembershipNumber != number {
			kept = append(kept, r)
		}
	}
	e.RegisteredMembers = kept
	return e, nil
}

// Members lists the registered members of an event with their contact
// details. Members whose membership record is gone are shown as unknown.
func (s *EventService) Members(ctx context.Context, eventID string) (*EventMembers, error) {
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	numbers := make([]string, 0, len(e.RegisteredMembers))
	for _, r := range e.RegisteredMembers {
		numbers = append(numbers, r.MembershipNumber)
	}
	memberships, err := s.membershipRepo.GetByNumbers(ctx, numbers)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[string]*domain.Membership, len(memberships))
	for _, m := range memberships {
		byNumber[m.MembershipNumber] = m
	}

	out := &EventMembers{
		EventName:          e.EventName,
		TotalRegistrations: e.Registrations,
		Members:            make([]EventMember, 0, len(e.RegisteredMembers)),
	}
	for _, r := range e.RegisteredMembers {
		member := EventMember{
			MembershipNumber: r.MembershipNumber,
			Name:             "Unknown",
			Email:            "N/A",
			Phone:            "N/A",
			RegisteredAt:     r.RegisteredAt,
		}
		if m, ok := byNumber[r.MembershipNumber]; ok {
			member.Name = m.FullName()
			member.Email = m.Email
			member.Phone = m.Phone
		}
		out.Members = append(out.Members, member)
	}
	return out, nil
}
