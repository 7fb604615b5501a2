package domain

import (
	"context"
	"time"
)

// Membership status constants
const (
	MembershipStatusActive    = "active"
	MembershipStatusExpired   = "expired"
	MembershipStatusCancelled = "cancelled"
)

// Membership is a person's paid access record with a bounded validity window.
type Membership struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	MembershipNumber string    `bson:"membership_number" json:"membershipNumber"`
	FirstName        string    `bson:"first_name" json:"firstName"`
	LastName         string    `bson:"last_name" json:"lastName"`
	Email            string    `bson:"email" json:"email"`
	Phone            string    `bson:"phone" json:"phone"`
	Address          string    `bson:"address" json:"address"`
	DurationMonths   int       `bson:"duration_months" json:"durationMonths"` // cumulative across extensions
	Duration         string    `bson:"duration" json:"duration"`              // "<durationMonths> months"
	StartDate        time.Time `bson:"start_date" json:"startDate"`
	EndDate          time.Time `bson:"end_date" json:"endDate"`
	Status           string    `bson:"status" json:"status"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name.
func (m *Membership) FullName() string {
	return m.FirstName + " " + m.LastName
}

// EffectiveStatus derives the status a membership has at now. An active
// membership whose end date has been reached is expired even if the sweep has
// not persisted that yet. The sweep uses the same predicate as its filter.
func EffectiveStatus(m *Membership, now time.Time) string {
	if m.Status == MembershipStatusActive && IsPastEnd(m.EndDate, now) {
		return MembershipStatusExpired
	}
	return m.Status
}

// IsPastEnd reports whether a term ending at end is over at now.
func IsPastEnd(end, now time.Time) bool {
	return !end.After(now)
}

// CalculateNewEndDate applies stacking logic for a purchase of durationMonths.
// If currentEnd is in the future, the new date extends from currentEnd.
// If currentEnd is in the past or nil, the new date starts from now.
// Month arithmetic is calendar based and done in UTC.
func CalculateNewEndDate(currentEnd *time.Time, durationMonths int, now time.Time) time.Time {
	now = now.UTC()

	if currentEnd != nil && currentEnd.After(now) {
		return currentEnd.UTC().AddDate(0, durationMonths, 0)
	}

	return now.AddDate(0, durationMonths, 0)
}

// NewMembership starts a fresh term of the given duration at now.
func NewMembership(number string, profile Profile, d *DurationOption, now time.Time) *Membership {
	now = now.UTC()
	end := CalculateNewEndDate(nil, d.DurationMonths, now)

	status := MembershipStatusActive
	if IsPastEnd(end, now) {
		status = MembershipStatusExpired
	}

	return &Membership{
		MembershipNumber: number,
		FirstName:        profile.FirstName,
		LastName:         profile.LastName,
		Email:            profile.Email,
		Phone:            profile.Phone,
		Address:          profile.Address,
		DurationMonths:   d.DurationMonths,
		Duration:         DurationLabel(d.DurationMonths),
		StartDate:        now,
		EndDate:          end,
		Status:           status,
	}
}

// Extend adds d's months to the membership. Remaining paid time is never
// lost, and a lapsed membership starts a new term at now.
func (m *Membership) Extend(d *DurationOption, now time.Time) error {
	if m.Status == MembershipStatusCancelled {
		return ErrMembershipCancelled
	}
	now = now.UTC()

	if EffectiveStatus(m, now) == MembershipStatusExpired {
		m.StartDate = now
	}
	end := m.EndDate
	m.EndDate = CalculateNewEndDate(&end, d.DurationMonths, now)
	m.DurationMonths += d.DurationMonths
	m.Duration = DurationLabel(m.DurationMonths)
	m.Status = MembershipStatusActive
	return nil
}

// Cancel ends the membership at now. Cancelling again keeps the original
// cancellation date.
func (m *Membership) Cancel(now time.Time) {
	if m.Status == MembershipStatusCancelled {
		return
	}
	m.Status = MembershipStatusCancelled
	m.EndDate = now.UTC()
}

// Profile holds the non-lifecycle personal fields of a membership.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// ApplyProfile overwrites the non-empty fields of p.
func (m *Membership) ApplyProfile(p Profile) {
	if p.FirstName != "" {
		m.FirstName = p.FirstName
	}
	if p.LastName != "" {
		m.LastName = p.LastName
	}
	if p.Email != "" {
		m.Email = p.Email
	}
	if p.Phone != "" {
		m.Phone = p.Phone
	}
	if p.Address != "" {
		m.Address = p.Address
	}
}

// MembershipRepository defines operations for managing memberships
type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	GetByNumber(ctx context.Context, number string) (*Membership, error)
	GetByNumbers(ctx context.Context, numbers []string) ([]*Membership, error)
	List(ctx context.Context) ([]*Membership, error)
	// Update persists lifecycle and profile fields of an existing membership.
	Update(ctx context.Context, m *Membership) error
	// MarkExpired flips a single active membership to expired.
	MarkExpired(ctx context.Context, number string) error
	// ExpireDue flips every active membership with end_date <= now to expired
	// and returns how many were changed.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
