package valueobject_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/lending-engine/internal/domain/valueobject"
)

func TestFixedPenalty(t *testing.T) {
	p, err := valueobject.NewFixedPenalty(decimal.NewFromInt(25), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, p.GracePeriodDays())
	assert.Equal(t, "FIXED", p.String())

	// Flat regardless of how many chargeable days have passed.
	assert.True(t, decimal.NewFromInt(25).Equal(p.Charge(decimal.NewFromInt(1000), 1)))
	assert.True(t, decimal.NewFromInt(25).Equal(p.Charge(decimal.NewFromInt(1000), 60)))
	assert.True(t, p.Charge(decimal.NewFromInt(1000), 0).IsZero())

	_, err = valueobject.NewFixedPenalty(decimal.NewFromInt(-1), 0)
	assert.Error(t, err)
	_, err = valueobject.NewFixedPenalty(decimal.NewFromInt(1), -1)
	assert.Error(t, err)
}

func TestPercentagePenalty(t *testing.T) {
	p, err := valueobject.NewPercentagePenalty(decimal.NewFromInt(5), 3)
	require.NoError(t, err)

	assert.Equal(t, "PERCENTAGE", p.String())

	// One-time 5% of the due amount; not scaled by days.
	charge := p.Charge(decimal.NewFromInt(800), 1)
	assert.True(t, decimal.NewFromInt(40).Equal(charge), "5%% of 800 = 40, got %s", charge)
	assert.True(t, charge.Equal(p.Charge(decimal.NewFromInt(800), 30)))
	assert.True(t, p.Charge(decimal.NewFromInt(800), 0).IsZero())

	_, err = valueobject.NewPercentagePenalty(decimal.NewFromInt(-5), 0)
	assert.Error(t, err)
}

func TestDailyRatePenalty(t *testing.T) {
	p, err := valueobject.NewDailyRatePenalty(decimal.NewFromFloat(0.5), 0)
	require.NoError(t, err)

	assert.Equal(t, "DAILY_RATE", p.String())

	// 0.5% of 1000 per day = 5/day.
	assert.True(t, decimal.NewFromInt(5).Equal(p.Charge(decimal.NewFromInt(1000), 1)))
	assert.True(t, decimal.NewFromInt(50).Equal(p.Charge(decimal.NewFromInt(1000), 10)))
	assert.True(t, p.Charge(decimal.NewFromInt(1000), 0).IsZero())
	assert.True(t, p.Charge(decimal.NewFromInt(1000), -3).IsZero())

	_, err = valueobject.NewDailyRatePenalty(decimal.NewFromFloat(-0.5), 0)
	assert.Error(t, err)
}

func TestPenaltyCharge_Rounding(t *testing.T) {
	p, err := valueobject.NewDailyRatePenalty(decimal.NewFromFloat(0.333), 0)
	require.NoError(t, err)

	charge := p.Charge(decimal.NewFromFloat(123.45), 3)
	assert.Equal(t, int32(-2), charge.Exponent(), "charges are rounded to 2 decimal places")
}
