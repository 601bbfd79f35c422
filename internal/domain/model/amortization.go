package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ScheduleEntry is one periodic installment of a repayment schedule. The due
// buckets are fixed at generation time (fees may later grow through penalty
// assessment); the paid buckets only ever increase, and IsPaid flips to true
// exactly once, when TotalPaid covers TotalDue.
type ScheduleEntry struct {
	Sequence      int
	DueDate       time.Time
	PrincipalDue  decimal.Decimal
	InterestDue   decimal.Decimal
	FeesDue       decimal.Decimal
	TotalDue      decimal.Decimal
	PrincipalPaid decimal.Decimal
	InterestPaid  decimal.Decimal
	FeesPaid      decimal.Decimal
	TotalPaid     decimal.Decimal
	IsPaid        bool
	LateDays      int
}

// OutstandingFees returns the unpaid part of the fees bucket, floored at zero.
func (e ScheduleEntry) OutstandingFees() decimal.Decimal {
	return floorZero(e.FeesDue.Sub(e.FeesPaid))
}

// OutstandingInterest returns the unpaid part of the interest bucket.
func (e ScheduleEntry) OutstandingInterest() decimal.Decimal {
	return floorZero(e.InterestDue.Sub(e.InterestPaid))
}

// OutstandingPrincipal returns the unpaid part of the principal bucket.
func (e ScheduleEntry) OutstandingPrincipal() decimal.Decimal {
	return floorZero(e.PrincipalDue.Sub(e.PrincipalPaid))
}

// Outstanding returns the total unpaid amount of the entry.
func (e ScheduleEntry) Outstanding() decimal.Decimal {
	return floorZero(e.TotalDue.Sub(e.TotalPaid))
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// DaysLate returns the whole days elapsed from dueDate to asOf, floored at
// zero. Partial days do not count.
func DaysLate(dueDate, asOf time.Time) int {
	days := int(asOf.Sub(dueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ScheduleResult is the output of schedule generation. TotalInterest is the
// sum of the per-period rounded InterestDue values, so it matches the
// schedule exactly and may differ from the closed-form annuity figure by a
// few cents.
type ScheduleResult struct {
	MonthlyPayment decimal.Decimal
	TotalInterest  decimal.Decimal
	Schedule       []ScheduleEntry
}

// GenerateSchedule computes a standard equal-installment (annuity) repayment
// schedule from validated loan terms.
//
// The calculation uses:
//
//	monthlyRate = annualRatePercent / 100 / 12
//	payment     = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with a zero-rate fallback of P / n. Period interest is rounded to 2
// decimal places; the final period's principal absorbs the rounding residue
// so that the principal portions sum to the original principal exactly.
// Due dates advance by calendar months from the start date, carrying across
// year boundaries.
func GenerateSchedule(terms LoanTerms) (ScheduleResult, error) {
	if err := terms.Validate(); err != nil {
		return ScheduleResult{}, fmt.Errorf("invalid loan terms: %w", err)
	}

	monthlyRate := terms.MonthlyRate()
	periods := decimal.NewFromInt(int64(terms.TermMonths))

	var monthlyPayment decimal.Decimal
	if monthlyRate.IsZero() {
		monthlyPayment = terms.Principal.Div(periods).Round(2)
	} else {
		// P * r * (1+r)^n / ((1+r)^n - 1)
		factor := one.Add(monthlyRate).Pow(periods)
		monthlyPayment = terms.Principal.
			Mul(monthlyRate).
			Mul(factor).
			Div(factor.Sub(one)).
			Round(2)
	}

	schedule := make([]ScheduleEntry, 0, terms.TermMonths)
	remaining := terms.Principal
	totalInterest := decimal.Zero

	for period := 1; period <= terms.TermMonths; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := monthlyPayment.Sub(interest)

		// Last period: the remaining balance becomes the principal portion,
		// absorbing accumulated rounding so the balance reaches exactly zero.
		if period == terms.TermMonths {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)
		totalInterest = totalInterest.Add(interest)
		total := principalPart.Add(interest).Round(2)

		schedule = append(schedule, ScheduleEntry{
			Sequence:      period,
			DueDate:       terms.StartDate.AddDate(0, period, 0),
			PrincipalDue:  principalPart,
			InterestDue:   interest,
			FeesDue:       decimal.Zero,
			TotalDue:      total,
			PrincipalPaid: decimal.Zero,
			InterestPaid:  decimal.Zero,
			FeesPaid:      decimal.Zero,
			TotalPaid:     decimal.Zero,
		})
	}

	return ScheduleResult{
		MonthlyPayment: monthlyPayment,
		TotalInterest:  totalInterest.Round(2),
		Schedule:       schedule,
	}, nil
}
