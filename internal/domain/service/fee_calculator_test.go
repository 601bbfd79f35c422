package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/lending-engine/internal/domain/service"
	"github.com/microfin/lending-engine/internal/domain/valueobject"
)

func TestApplyFee(t *testing.T) {
	fixed, err := valueobject.NewFixedFee(valueobject.FeeTypeProcessing, decimal.NewFromInt(150))
	require.NoError(t, err)
	pct, err := valueobject.NewPercentageFee(valueobject.FeeTypeOrigination, decimal.NewFromFloat(1.5))
	require.NoError(t, err)

	base := decimal.NewFromInt(10_000)

	assert.True(t, decimal.NewFromInt(150).Equal(service.ApplyFee(base, fixed)),
		"fixed fee ignores the base amount")
	assert.True(t, decimal.NewFromInt(150).Equal(service.ApplyFee(decimal.NewFromInt(1), fixed)))

	got := service.ApplyFee(base, pct)
	assert.True(t, decimal.NewFromInt(150).Equal(got), "1.5%% of 10000 = 150, got %s", got)
}

func TestTotalUpfrontFees(t *testing.T) {
	processing, err := valueobject.NewFixedFee(valueobject.FeeTypeProcessing, decimal.NewFromInt(100))
	require.NoError(t, err)
	origination, err := valueobject.NewPercentageFee(valueobject.FeeTypeOrigination, decimal.NewFromInt(2))
	require.NoError(t, err)
	late, err := valueobject.NewFixedFee(valueobject.FeeTypeLatePayment, decimal.NewFromInt(999))
	require.NoError(t, err)

	principal := decimal.NewFromInt(5000)
	total := service.TotalUpfrontFees(principal, []valueobject.FeeSpec{processing, origination, late})

	// 100 fixed + 2% of 5000 (100) = 200; the late fee applies to the
	// outstanding balance during servicing and must not be charged at
	// origination.
	assert.True(t, decimal.NewFromInt(200).Equal(total), "expected 200, got %s", total)

	assert.True(t, service.TotalUpfrontFees(principal, nil).IsZero())
}

func TestCalculateLatePenalty_GracePeriod(t *testing.T) {
	cfg, err := valueobject.NewDailyRatePenalty(decimal.NewFromInt(1), 7)
	require.NoError(t, err)

	due := decimal.NewFromInt(1000)
	dueDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Exactly at the grace boundary nothing accrues.
	assert.True(t, service.CalculateLatePenalty(due, dueDate, dueDate.AddDate(0, 0, 7), cfg).IsZero())

	// One day past grace charges one day.
	got := service.CalculateLatePenalty(due, dueDate, dueDate.AddDate(0, 0, 8), cfg)
	assert.True(t, decimal.NewFromInt(10).Equal(got), "1%% of 1000 for 1 chargeable day, got %s", got)

	// Ten days past grace charges ten days.
	got = service.CalculateLatePenalty(due, dueDate, dueDate.AddDate(0, 0, 17), cfg)
	assert.True(t, decimal.NewFromInt(100).Equal(got))

	// Not yet due at all.
	assert.True(t, service.CalculateLatePenalty(due, dueDate, dueDate.AddDate(0, 0, -1), cfg).IsZero())
}

func TestCalculateLatePenalty_FlatModes(t *testing.T) {
	dueDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	due := decimal.NewFromInt(500)

	fixed, err := valueobject.NewFixedPenalty(decimal.NewFromInt(20), 5)
	require.NoError(t, err)
	assert.True(t, service.CalculateLatePenalty(due, dueDate, dueDate.AddDate(0, 0, 6), fixed).Equal(decimal.NewFromInt(20)))
	assert.True(t, service.CalculateLatePenalty(due, dueDate, dueDate.AddDate(0, 0, 60), fixed).Equal(decimal.NewFromInt(20)),
		"fixed penalty does not grow with lateness")

	pct, err := valueobject.NewPercentagePenalty(decimal.NewFromInt(4), 5)
	require.NoError(t, err)
	assert.True(t, service.CalculateLatePenalty(due, dueDate, dueDate.AddDate(0, 0, 6), pct).Equal(decimal.NewFromInt(20)))
	assert.True(t, service.CalculateLatePenalty(due, dueDate, dueDate.AddDate(0, 0, 60), pct).Equal(decimal.NewFromInt(20)),
		"percentage penalty is one-time, not per day")
}

func TestTieredPenalty_Boundaries(t *testing.T) {
	due := decimal.NewFromInt(1000)
	basePct := decimal.NewFromInt(2) // 2% of 1000 = 20 at x1.0

	tests := []struct {
		daysOverdue int
		expected    int64
	}{
		{1, 20},   // x1.0
		{7, 20},   // x1.0, inclusive upper bound
		{8, 30},   // x1.5
		{30, 30},  // x1.5, inclusive upper bound
		{31, 40},  // x2.0
		{60, 40},  // x2.0, inclusive upper bound
		{61, 60},  // x3.0
		{365, 60}, // x3.0, unbounded
	}
	for _, tt := range tests {
		got := service.TieredPenalty(due, tt.daysOverdue, basePct)
		assert.True(t, decimal.NewFromInt(tt.expected).Equal(got),
			"%d days overdue: expected %d, got %s", tt.daysOverdue, tt.expected, got)
	}
}
