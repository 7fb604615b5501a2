package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type membershipFixture struct {
	svc         *MembershipService
	memberships *fakeMembershipRepo
	durations   *fakeDurationRepo
	txns        *fakeTransactionRepo
	clock       *fixedClock
}

func newMembershipFixture(t *testing.T, now time.Time) *membershipFixture {
	t.Helper()
	f := &membershipFixture{
		memberships: newFakeMembershipRepo(),
		durations:   newFakeDurationRepo(),
		txns:        &fakeTransactionRepo{},
		clock:       newClock(now),
	}
	ledger := NewLedgerService(f.txns)
	ledger.now = f.clock.Now
	f.svc = NewMembershipService(f.memberships, f.durations, ledger)
	f.svc.now = f.clock.Now
	return f
}

func (f *membershipFixture) duration(t *testing.T, months int, price float64) *domain.DurationOption {
	t.Helper()
	d := &domain.DurationOption{DurationMonths: months, Price: price}
	require.NoError(t, f.durations.Create(context.Background(), d))
	return d
}

func createRequest(number, durationID string) CreateMembershipRequest {
	return CreateMembershipRequest{
		MembershipNumber: number,
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            "ada@example.com",
		Phone:            "555-0100",
		Address:          "12 Analytical St",
		DurationID:       durationID,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMembershipLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, day(2024, time.January, 1))
	d := f.duration(t, 3, 300)

	m, err := f.svc.CreateMembership(ctx, createRequest("M-100", d.ID))
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.April, 1), m.EndDate)
	assert.Equal(t, domain.MembershipStatusActive, m.Status)

	f.clock.Set(day(2024, time.February, 1))
	m, err = f.svc.ExtendMembership(ctx, "M-100", ExtendMembershipRequest{DurationID: d.ID})
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.July, 1), m.EndDate)
	assert.Equal(t, 6, m.DurationMonths)
	assert.Equal(t, "6 months", m.Duration)

	txns := f.txns.all()
	require.Len(t, txns, 2)
	for _, txn := range txns {
		assert.Equal(t, 300.0, txn.Amount)
		assert.Equal(t, domain.TransactionTypeMembership, txn.Type)
		assert.Equal(t, domain.PaymentMethodCash, txn.PaymentMethod)
		assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
		assert.Regexp(t, `^TXN-[0-9A-Z]{26}$`, txn.TransactionID)
	}
	assert.NotEqual(t, txns[0].TransactionID, txns[1].TransactionID)

	// Deleting the option later does not touch what was bought
	require.NoError(t, f.durations.Delete(ctx, d.ID))
	stored, err := f.svc.GetMembership(ctx, "M-100")
	require.NoError(t, err)
	assert.Equal(t, 6, stored.DurationMonths)
}

func TestCreateMembershipValidation(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, day(2024, time.January, 1))

	_, err := f.svc.CreateMembership(ctx, CreateMembershipRequest{Email: "nope"})
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]bool{}
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	for _, name := range []string{"membershipNumber", "firstName", "lastName", "email", "phone", "address", "durationId"} {
		assert.True(t, fields[name], "expected %s to be reported", name)
	}
	assert.Empty(t, f.txns.all())
}

func TestCreateMembershipRejectsUnknownDurationAndDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, day(2024, time.January, 1))
	d := f.duration(t, 1, 50)

	_, err := f.svc.CreateMembership(ctx, createRequest("M-1", "missing"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "durationId: Invalid duration selected")

	_, err = f.svc.CreateMembership(ctx, createRequest("M-1", d.ID))
	require.NoError(t, err)

	_, err = f.svc.CreateMembership(ctx, createRequest("M-1", d.ID))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, f.txns.all(), 1)
}

func TestExtendExpiredMembershipRestartsFromNow(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, day(2024, time.January, 1))
	d := f.duration(t, 1, 50)

	_, err := f.svc.CreateMembership(ctx, createRequest("M-2", d.ID))
	require.NoError(t, err)

	f.clock.Set(day(2024, time.June, 15))
	got, err := f.svc.GetMembership(ctx, "M-2")
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipStatusExpired, got.Status)

	m, err := f.svc.ExtendMembership(ctx, "M-2", ExtendMembershipRequest{DurationID: d.ID, PaymentMethod: domain.PaymentMethodCard})
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.June, 15), m.StartDate)
	assert.Equal(t, day(2024, time.July, 15), m.EndDate)
	assert.Equal(t, domain.MembershipStatusActive, m.Status)
	assert.Equal(t, domain.PaymentMethodCard, f.txns.all()[1].PaymentMethod)
}

func TestCancelMembership(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, day(2024, time.January, 1))
	d := f.duration(t, 12, 1000)

	_, err := f.svc.CreateMembership(ctx, createRequest("M-3", d.ID))
	require.NoError(t, err)

	f.clock.Set(day(2024, time.March, 1))
	m, err := f.svc.CancelMembership(ctx, "M-3")
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipStatusCancelled, m.Status)
	assert.Equal(t, day(2024, time.March, 1), m.EndDate)

	f.clock.Set(day(2024, time.April, 1))
	m, err = f.svc.CancelMembership(ctx, "M-3")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.March, 1), m.EndDate)

	_, err = f.svc.ExtendMembership(ctx, "M-3", ExtendMembershipRequest{DurationID: d.ID})
	assert.ErrorIs(t, err, domain.ErrMembershipCancelled)

	txns := f.txns.all()
	require.Len(t, txns, 3)
	assert.Equal(t, 0.0, txns[1].Amount)
	assert.Equal(t, "Membership cancelled", txns[2].Description)

	_, err = f.svc.CancelMembership(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProfileLeavesLifecycleAlone(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, day(2024, time.January, 1))
	d := f.duration(t, 3, 300)

	created, err := f.svc.CreateMembership(ctx, createRequest("M-4", d.ID))
	require.NoError(t, err)

	m, err := f.svc.UpdateProfile(ctx, "M-4", UpdateProfileRequest{Phone: "555-0199"})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", m.Phone)
	assert.Equal(t, "Ada", m.FirstName)
	assert.Equal(t, created.EndDate, m.EndDate)
	assert.Len(t, f.txns.all(), 1)

	_, err = f.svc.UpdateProfile(ctx, "M-4", UpdateProfileRequest{Email: "bad"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.UpdateProfile(ctx, "missing", UpdateProfileRequest{Phone: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMembershipsReportsEffectiveStatus(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t, day(2024, time.May, 1))
	f.memberships.put(domain.Membership{MembershipNumber: "A", Status: domain.MembershipStatusActive, EndDate: day(2024, time.April, 1)})
	f.memberships.put(domain.Membership{MembershipNumber: "B", Status: domain.MembershipStatusActive, EndDate: day(2024, time.June, 1)})

	list, err := f.svc.ListMemberships(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.MembershipStatusExpired, list[0].Status)
	assert.Equal(t, domain.MembershipStatusActive, list[1].Status)

	// Reads never persist the lazy expiry
	assert.Equal(t, domain.MembershipStatusActive, f.memberships.stored("A").Status)
}
