package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/lending-engine/internal/domain/model"
	"github.com/microfin/lending-engine/internal/domain/valueobject"
)

var oneHundred = decimal.NewFromInt(100)

// ApplyFee computes a fee against the given base amount. FIXED specs return
// their amount verbatim; PERCENTAGE specs return base * percentage / 100.
// Which base to pass is determined by the fee type: upfront fee types apply
// against the loan principal, servicing fee types against the due or
// outstanding balance (see valueobject.FeeType.Basis). A zero-valued spec
// yields a zero fee rather than an error.
func ApplyFee(baseAmount decimal.Decimal, spec valueobject.FeeSpec) decimal.Decimal {
	switch spec.CalculationType() {
	case valueobject.CalculationTypePercentage:
		return baseAmount.Mul(spec.Percentage()).Div(oneHundred).Round(2)
	default:
		return spec.Amount().Round(2)
	}
}

// TotalUpfrontFees sums the fees that apply against the loan principal at
// origination. Specs whose type applies to the outstanding balance are
// skipped; they are charged during servicing, not at disbursement.
func TotalUpfrontFees(principal decimal.Decimal, specs []valueobject.FeeSpec) decimal.Decimal {
	total := decimal.Zero
	for _, spec := range specs {
		if spec.Type().Basis() != valueobject.FeeBasisPrincipal {
			continue
		}
		total = total.Add(ApplyFee(principal, spec))
	}
	return total.Round(2)
}

// CalculateLatePenalty computes the penalty owed on a due amount as of the
// given date. Days within the grace period never accrue a penalty; beyond
// it the configured policy decides whether the charge is flat (FIXED and
// PERCENTAGE) or accrues per chargeable day (DAILY_RATE).
func CalculateLatePenalty(
	dueAmount decimal.Decimal,
	dueDate, asOf time.Time,
	cfg valueobject.PenaltyConfig,
) decimal.Decimal {
	daysLate := model.DaysLate(dueDate, asOf)
	chargeableDays := daysLate - cfg.GracePeriodDays()
	if chargeableDays <= 0 {
		return decimal.Zero
	}
	return cfg.Charge(dueAmount, chargeableDays)
}

// Escalation tiers for TieredPenalty. Boundaries are inclusive on the upper
// bound of each range and the tiers are contiguous over daysOverdue >= 0.
var penaltyTiers = []struct {
	maxDays    int
	multiplier decimal.Decimal
}{
	{maxDays: 7, multiplier: decimal.NewFromFloat(1.0)},
	{maxDays: 30, multiplier: decimal.NewFromFloat(1.5)},
	{maxDays: 60, multiplier: decimal.NewFromFloat(2.0)},
}

var topTierMultiplier = decimal.NewFromFloat(3.0)

// TieredPenalty computes dueAmount * basePercentage/100 scaled by an
// escalation multiplier that grows with days overdue: x1.0 up to 7 days,
// x1.5 through 30, x2.0 through 60, x3.0 beyond.
func TieredPenalty(dueAmount decimal.Decimal, daysOverdue int, basePercentage decimal.Decimal) decimal.Decimal {
	multiplier := topTierMultiplier
	for _, tier := range penaltyTiers {
		if daysOverdue <= tier.maxDays {
			multiplier = tier.multiplier
			break
		}
	}
	effective := basePercentage.Mul(multiplier)
	return dueAmount.Mul(effective).Div(oneHundred).Round(2)
}
