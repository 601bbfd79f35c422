package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/lending-engine/internal/domain/model"
)

func entryWithDues(fees, interest, principal float64) model.ScheduleEntry {
	f := decimal.NewFromFloat(fees)
	i := decimal.NewFromFloat(interest)
	p := decimal.NewFromFloat(principal)
	return model.ScheduleEntry{
		Sequence:      1,
		DueDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		FeesDue:       f,
		InterestDue:   i,
		PrincipalDue:  p,
		TotalDue:      f.Add(i).Add(p),
		FeesPaid:      decimal.Zero,
		InterestPaid:  decimal.Zero,
		PrincipalPaid: decimal.Zero,
		TotalPaid:     decimal.Zero,
	}
}

func TestAllocatePayment_PriorityOrder(t *testing.T) {
	entry := entryWithDues(50, 100, 850)
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// 120 covers all fees, then part of interest, nothing to principal.
	updated, res, err := model.AllocatePayment(entry, decimal.NewFromInt(120), now)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(50).Equal(res.FeesApplied))
	assert.True(t, decimal.NewFromInt(70).Equal(res.InterestApplied))
	assert.True(t, res.PrincipalApplied.IsZero())
	assert.True(t, res.RemainingAfter.IsZero())

	assert.True(t, decimal.NewFromInt(50).Equal(updated.FeesPaid))
	assert.True(t, decimal.NewFromInt(70).Equal(updated.InterestPaid))
	assert.False(t, updated.IsPaid)
}

func TestAllocatePayment_CapsAtOutstandingPerBucket(t *testing.T) {
	entry := entryWithDues(50, 100, 850)
	entry.FeesPaid = decimal.NewFromInt(30)
	entry.TotalPaid = decimal.NewFromInt(30)
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	updated, res, err := model.AllocatePayment(entry, decimal.NewFromInt(500), now)
	require.NoError(t, err)

	// Only 20 of fees remained outstanding.
	assert.True(t, decimal.NewFromInt(20).Equal(res.FeesApplied))
	assert.True(t, decimal.NewFromInt(100).Equal(res.InterestApplied))
	assert.True(t, decimal.NewFromInt(380).Equal(res.PrincipalApplied))
	assert.True(t, decimal.NewFromInt(50).Equal(updated.FeesPaid))
}

func TestAllocatePayment_ExcessReturnedNotSwallowed(t *testing.T) {
	entry := entryWithDues(0, 100, 900)
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	updated, res, err := model.AllocatePayment(entry, decimal.NewFromInt(1500), now)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(500).Equal(res.RemainingAfter))
	assert.True(t, updated.IsPaid)
	assert.True(t, res.Applied().Equal(decimal.NewFromInt(1000)))
}

func TestAllocatePayment_EpsilonTolerance(t *testing.T) {
	entry := entryWithDues(0, 0, 100)
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// 99.995 is within the 0.01 epsilon of the 100.00 due.
	updated, _, err := model.AllocatePayment(entry, decimal.NewFromFloat(99.995), now)
	require.NoError(t, err)
	assert.True(t, updated.IsPaid, "sub-cent residue should not keep an entry open")

	// 99.98 is not.
	entry2 := entryWithDues(0, 0, 100)
	updated2, _, err := model.AllocatePayment(entry2, decimal.NewFromFloat(99.98), now)
	require.NoError(t, err)
	assert.False(t, updated2.IsPaid)
}

func TestAllocatePayment_RejectsNonPositiveAmount(t *testing.T) {
	entry := entryWithDues(0, 10, 90)
	now := time.Now().UTC()

	_, _, err := model.AllocatePayment(entry, decimal.Zero, now)
	assert.ErrorIs(t, err, model.ErrNonPositivePayment)

	_, _, err = model.AllocatePayment(entry, decimal.NewFromInt(-5), now)
	assert.ErrorIs(t, err, model.ErrNonPositivePayment)
}

func TestAllocatePayment_RecomputesLateDaysWhenPastDue(t *testing.T) {
	entry := entryWithDues(0, 10, 90)
	lateNow := entry.DueDate.AddDate(0, 0, 12)

	updated, _, err := model.AllocatePayment(entry, decimal.NewFromInt(10), lateNow)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.LateDays)

	onTime := entry.DueDate.AddDate(0, 0, -1)
	updated2, _, err := model.AllocatePayment(entry, decimal.NewFromInt(10), onTime)
	require.NoError(t, err)
	assert.Equal(t, 0, updated2.LateDays)
}

func TestScheduleEntry_OutstandingFloorsAtZero(t *testing.T) {
	entry := entryWithDues(0, 0, 100)
	entry.PrincipalPaid = decimal.NewFromFloat(100.005)
	entry.TotalPaid = entry.PrincipalPaid

	assert.True(t, entry.OutstandingPrincipal().IsZero())
	assert.True(t, entry.Outstanding().IsZero())
}
