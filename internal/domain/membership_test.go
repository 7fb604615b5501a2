package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestCalculateNewEndDate(t *testing.T) {
	now := date(2024, time.March, 15)

	tests := []struct {
		name           string
		now            time.Time
		currentEnd     *time.Time
		durationMonths int
		want           time.Time
	}{
		{
			name:           "nil currentEnd starts from now",
			currentEnd:     nil,
			durationMonths: 12,
			want:           date(2025, time.March, 15),
		},
		{
			name:           "past currentEnd starts from now",
			currentEnd:     timePtr(date(2024, time.February, 15)),
			durationMonths: 3,
			want:           date(2024, time.June, 15),
		},
		{
			name:           "currentEnd equal to now starts from now",
			currentEnd:     timePtr(now),
			durationMonths: 1,
			want:           date(2024, time.April, 15),
		},
		{
			name:           "future currentEnd stacks",
			currentEnd:     timePtr(date(2024, time.June, 15)),
			durationMonths: 12,
			want:           date(2025, time.June, 15),
		},
		{
			name:           "day overflow normalises forward",
			now:            date(2024, time.January, 31),
			currentEnd:     nil,
			durationMonths: 1,
			want:           date(2024, time.March, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := now
			if !tt.now.IsZero() {
				at = tt.now
			}
			assert.Equal(t, tt.want, CalculateNewEndDate(tt.currentEnd, tt.durationMonths, at))
		})
	}
}

func TestMembershipLifecycleScenario(t *testing.T) {
	d := &DurationOption{DurationMonths: 3, Price: 300}

	m := NewMembership("M-001", Profile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, d, date(2024, time.January, 1))
	assert.Equal(t, date(2024, time.January, 1), m.StartDate)
	assert.Equal(t, date(2024, time.April, 1), m.EndDate)
	assert.Equal(t, MembershipStatusActive, m.Status)
	assert.Equal(t, "3 months", m.Duration)

	require.NoError(t, m.Extend(d, date(2024, time.February, 1)))
	assert.Equal(t, date(2024, time.July, 1), m.EndDate)
	assert.Equal(t, date(2024, time.January, 1), m.StartDate)
	assert.Equal(t, 6, m.DurationMonths)
	assert.Equal(t, "6 months", m.Duration)
}

func TestExtendLapsedMembershipRestartsTerm(t *testing.T) {
	d := &DurationOption{DurationMonths: 1, Price: 50}
	m := NewMembership("M-002", Profile{}, d, date(2024, time.January, 1))

	now := date(2024, time.May, 10)
	assert.Equal(t, MembershipStatusExpired, EffectiveStatus(m, now))

	require.NoError(t, m.Extend(d, now))
	assert.Equal(t, now, m.StartDate)
	assert.Equal(t, date(2024, time.June, 10), m.EndDate)
	assert.Equal(t, MembershipStatusActive, m.Status)
	assert.Equal(t, 2, m.DurationMonths)
}

func TestExtendCancelledMembershipIsRejected(t *testing.T) {
	d := &DurationOption{DurationMonths: 1}
	m := NewMembership("M-003", Profile{}, d, date(2024, time.January, 1))
	m.Cancel(date(2024, time.January, 5))

	err := m.Extend(d, date(2024, time.January, 6))
	assert.ErrorIs(t, err, ErrMembershipCancelled)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, MembershipStatusCancelled, m.Status)
	assert.Equal(t, date(2024, time.January, 5), m.EndDate)
}

func TestCancelKeepsFirstCancellationDate(t *testing.T) {
	m := NewMembership("M-004", Profile{}, &DurationOption{DurationMonths: 6}, date(2024, time.January, 1))

	m.Cancel(date(2024, time.February, 1))
	m.Cancel(date(2024, time.March, 1))

	assert.Equal(t, MembershipStatusCancelled, m.Status)
	assert.Equal(t, date(2024, time.February, 1), m.EndDate)
}

func TestEffectiveStatus(t *testing.T) {
	end := date(2024, time.April, 1)
	tests := []struct {
		name   string
		status string
		now    time.Time
		want   string
	}{
		{"active before end", MembershipStatusActive, end.Add(-time.Second), MembershipStatusActive},
		{"active at end", MembershipStatusActive, end, MembershipStatusExpired},
		{"active after end", MembershipStatusActive, end.Add(time.Hour), MembershipStatusExpired},
		{"cancelled after end", MembershipStatusCancelled, end.Add(time.Hour), MembershipStatusCancelled},
		{"expired before end", MembershipStatusExpired, end.Add(-time.Hour), MembershipStatusExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Membership{Status: tt.status, EndDate: end}
			assert.Equal(t, tt.want, EffectiveStatus(m, tt.now))
		})
	}
}

func TestApplyProfileSkipsEmptyFields(t *testing.T) {
	m := &Membership{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "1", Address: "London"}
	m.ApplyProfile(Profile{Phone: "2"})

	assert.Equal(t, "Ada Lovelace", m.FullName())
	assert.Equal(t, "ada@example.com", m.Email)
	assert.Equal(t, "2", m.Phone)
	assert.Equal(t, "London", m.Address)
}

func genTime(t *rapid.T, label string) time.Time {
	secs := rapid.Int64Range(date(2000, time.January, 1).Unix(), date(2040, time.January, 1).Unix()).Draw(t, label)
	return time.Unix(secs, 0).UTC()
}

func TestExtendNeverLosesPaidTime(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := genTime(t, "start")
		first := rapid.IntRange(1, 24).Draw(t, "first")
		second := rapid.IntRange(1, 24).Draw(t, "second")
		gap := time.Duration(rapid.Int64Range(0, int64(3*365*24*time.Hour)).Draw(t, "gap"))

		m := NewMembership("M", Profile{}, &DurationOption{DurationMonths: first}, start)
		prevEnd := m.EndDate
		now := start.Add(gap)

		if err := m.Extend(&DurationOption{DurationMonths: second}, now); err != nil {
			t.Fatalf("extend: %v", err)
		}

		base := now
		if prevEnd.After(now) {
			base = prevEnd
		}
		if !m.EndDate.Equal(base.AddDate(0, second, 0)) {
			t.Fatalf("end = %v, want %v", m.EndDate, base.AddDate(0, second, 0))
		}
		if m.EndDate.Before(prevEnd) {
			t.Fatalf("end moved backwards: %v < %v", m.EndDate, prevEnd)
		}
		if m.DurationMonths != first+second {
			t.Fatalf("durationMonths = %d, want %d", m.DurationMonths, first+second)
		}
		if m.Status != MembershipStatusActive {
			t.Fatalf("status = %s, want active", m.Status)
		}
		if m.StartDate.After(m.EndDate) {
			t.Fatalf("start %v after end %v", m.StartDate, m.EndDate)
		}
	})
}

func TestNewMembershipIsActiveUntilEnd(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := genTime(t, "start")
		months := rapid.IntRange(1, 36).Draw(t, "months")

		m := NewMembership("M", Profile{}, &DurationOption{DurationMonths: months}, start)
		if !m.EndDate.After(m.StartDate) {
			t.Fatalf("end %v not after start %v", m.EndDate, m.StartDate)
		}
		if EffectiveStatus(m, m.EndDate.Add(-time.Second)) != MembershipStatusActive {
			t.Fatalf("expected active just before end")
		}
		if EffectiveStatus(m, m.EndDate) != MembershipStatusExpired {
			t.Fatalf("expected expired at end")
		}
	})
}
