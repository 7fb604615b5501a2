package domain

import (
	"context"
	"time"
)

// Event status constants
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

var EventStatuses = []string{EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled}

// Event is a club event members can register for.
type Event struct {
	ID                string              `bson:"_id,omitempty" json:"id"`
	EventName         string              `bson:"event_name" json:"eventName"`
	EventDate         time.Time           `bson:"event_date" json:"eventDate"`
	Location          string              `bson:"location" json:"location"`
	Description       string              `bson:"description" json:"description"`
	Capacity          int                 `bson:"capacity" json:"capacity"`
	Registrations     int                 `bson:"registrations" json:"registrations"`
	RegisteredMembers []EventRegistration `bson:"registered_members" json:"registeredMembers"`
	Status            string              `bson:"status" json:"status"`
	CreatedAt         time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updated_at" json:"updatedAt"`
}

// EventRegistration records a member's seat at an event.
type EventRegistration struct {
	MembershipNumber string    `bson:"membership_number" json:"membershipNumber"`
	RegisteredAt     time.Time `bson:"registered_at" json:"registeredAt"`
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.Registrations >= e.Capacity
}

// IsRegistered reports whether number holds a seat.
func (e *Event) IsRegistered(number string) bool {
	for _, r := range e.RegisteredMembers {
		if r.MembershipNumber == number {
			return true
		}
	}
	return false
}

// CheckRegistrationEligibility applies the admission rules for m at now.
func CheckRegistrationEligibility(e *Event, m *Membership, now time.Time) error {
	if e.IsFull() {
		return ErrEventFull
	}
	switch EffectiveStatus(m, now) {
	case MembershipStatusActive:
	case MembershipStatusExpired:
		return ErrMembershipExpired
	default:
		return ErrMembershipNotActive
	}
	if e.IsRegistered(m.MembershipNumber) {
		return ErrAlreadyRegistered
	}
	return nil
}

// EventRepository defines operations for managing events
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	// Update persists descriptive fields and capacity. It returns
	// ErrCapacityTooLow, leaving the event untouched, when the stored
	// registrations exceed the new capacity.
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
	// AddRegistration atomically admits number if the event still has a free
	// seat and the member is not yet registered. It reports whether the seat
	// was taken.
	AddRegistration(ctx context.Context, eventID string, reg EventRegistration) (bool, error)
	// RemoveRegistration atomically releases number's seat, never dropping
	// registrations below zero. It reports whether a seat was released.
	RemoveRegistration(ctx context.Context, eventID, number string) (bool, error)
}
