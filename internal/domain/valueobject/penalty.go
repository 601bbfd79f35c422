package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// PenaltyConfig – sum type over the three penalty calculation modes
// ---------------------------------------------------------------------------

var oneHundred = decimal.NewFromInt(100)

// PenaltyConfig is the policy for charging a late payment. Each
// implementation carries exactly the fields its calculation mode needs, so a
// FIXED config cannot accidentally hold a daily rate.
type PenaltyConfig interface {
	// GracePeriodDays is the number of days after the due date during which
	// no penalty accrues.
	GracePeriodDays() int
	// Charge computes the penalty for the given due amount once the grace
	// period has been exceeded by chargeableDays (> 0). The result is
	// rounded to 2 decimal places and never negative.
	Charge(dueAmount decimal.Decimal, chargeableDays int) decimal.Decimal
	// String names the calculation mode (FIXED, PERCENTAGE, DAILY_RATE).
	String() string
}

// FixedPenalty charges a flat amount once the grace period is exceeded,
// regardless of how late the payment is.
type FixedPenalty struct {
	amount decimal.Decimal
	grace  int
}

// NewFixedPenalty creates a flat late penalty.
func NewFixedPenalty(amount decimal.Decimal, gracePeriodDays int) (FixedPenalty, error) {
	if amount.IsNegative() {
		return FixedPenalty{}, fmt.Errorf("penalty amount must not be negative, got %s", amount)
	}
	if gracePeriodDays < 0 {
		return FixedPenalty{}, fmt.Errorf("grace period days must not be negative, got %d", gracePeriodDays)
	}
	return FixedPenalty{amount: amount, grace: gracePeriodDays}, nil
}

func (p FixedPenalty) GracePeriodDays() int { return p.grace }

func (p FixedPenalty) Charge(_ decimal.Decimal, chargeableDays int) decimal.Decimal {
	if chargeableDays <= 0 {
		return decimal.Zero
	}
	return p.amount.Round(2)
}

func (p FixedPenalty) String() string { return "FIXED" }

// PercentagePenalty charges a one-time percentage of the due amount once the
// grace period is exceeded. The charge does not scale with the number of
// days late; the accruing variant is DailyRatePenalty.
type PercentagePenalty struct {
	percentage decimal.Decimal
	grace      int
}

// NewPercentagePenalty creates a one-time percentage late penalty.
func NewPercentagePenalty(percentage decimal.Decimal, gracePeriodDays int) (PercentagePenalty, error) {
	if percentage.IsNegative() {
		return PercentagePenalty{}, fmt.Errorf("penalty percentage must not be negative, got %s", percentage)
	}
	if gracePeriodDays < 0 {
		return PercentagePenalty{}, fmt.Errorf("grace period days must not be negative, got %d", gracePeriodDays)
	}
	return PercentagePenalty{percentage: percentage, grace: gracePeriodDays}, nil
}

func (p PercentagePenalty) GracePeriodDays() int { return p.grace }

func (p PercentagePenalty) Charge(dueAmount decimal.Decimal, chargeableDays int) decimal.Decimal {
	if chargeableDays <= 0 {
		return decimal.Zero
	}
	return dueAmount.Mul(p.percentage).Div(oneHundred).Round(2)
}

func (p PercentagePenalty) String() string { return "PERCENTAGE" }

// DailyRatePenalty accrues linearly: dueAmount * dailyRate% per chargeable
// day past the grace period.
type DailyRatePenalty struct {
	dailyRate decimal.Decimal
	grace     int
}

// NewDailyRatePenalty creates an accruing late penalty.
func NewDailyRatePenalty(dailyRate decimal.Decimal, gracePeriodDays int) (DailyRatePenalty, error) {
	if dailyRate.IsNegative() {
		return DailyRatePenalty{}, fmt.Errorf("daily rate must not be negative, got %s", dailyRate)
	}
	if gracePeriodDays < 0 {
		return DailyRatePenalty{}, fmt.Errorf("grace period days must not be negative, got %d", gracePeriodDays)
	}
	return DailyRatePenalty{dailyRate: dailyRate, grace: gracePeriodDays}, nil
}

func (p DailyRatePenalty) GracePeriodDays() int { return p.grace }

func (p DailyRatePenalty) Charge(dueAmount decimal.Decimal, chargeableDays int) decimal.Decimal {
	if chargeableDays <= 0 {
		return decimal.Zero
	}
	days := decimal.NewFromInt(int64(chargeableDays))
	return dueAmount.Mul(p.dailyRate).Div(oneHundred).Mul(days).Round(2)
}

func (p DailyRatePenalty) String() string { return "DAILY_RATE" }
