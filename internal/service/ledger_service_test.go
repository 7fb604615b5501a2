package service

import (
	"context"
	"testing"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRecordAndList(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTransactionRepo{}
	svc := NewLedgerService(repo)
	svc.now = newClock(day(2024, time.January, 10)).Now

	_, err := svc.Record(ctx, RecordTransactionRequest{Type: "refund", Amount: -1, PaymentMethod: "barter"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "type")
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "paymentMethod")
	assert.Contains(t, err.Error(), "description")

	first, err := svc.Record(ctx, RecordTransactionRequest{
		MembershipNumber: "M-1",
		Type:             domain.TransactionTypeOther,
		Description:      "Locker rental",
		Amount:           20,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodCash, first.PaymentMethod)
	assert.Equal(t, domain.TransactionStatusCompleted, first.Status)
	assert.Equal(t, day(2024, time.January, 10), first.TransactionDate)

	second, err := svc.Record(ctx, RecordTransactionRequest{
		Type:          domain.TransactionTypeOther,
		Description:   "Towel",
		Amount:        2,
		PaymentMethod: domain.PaymentMethodCard,
		Status:        domain.TransactionStatusPending,
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.TransactionID, all[0].TransactionID)

	pending, err := svc.List(ctx, domain.TransactionFilter{Status: domain.TransactionStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.List(ctx, domain.TransactionFilter{Type: "bogus"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	byMember, err := svc.ListByMembership(ctx, "M-1")
	require.NoError(t, err)
	assert.Len(t, byMember, 1)

	got, err := svc.Get(ctx, first.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, "Locker rental", got.Description)

	_, err = svc.Get(ctx, "TXN-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
