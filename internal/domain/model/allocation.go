package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// paidEpsilon absorbs sub-cent float residue when deciding whether an entry
// is fully paid.
var paidEpsilon = decimal.NewFromFloat(0.01)

// ErrNonPositivePayment is returned when a payment of zero or less is
// allocated.
var ErrNonPositivePayment = errors.New("payment amount must be positive")

// PaymentAllocationResult records how a single payment was split across one
// schedule entry. It is a record of the allocation decision and is never
// mutated after creation.
type PaymentAllocationResult struct {
	Sequence         int
	FeesApplied      decimal.Decimal
	InterestApplied  decimal.Decimal
	PrincipalApplied decimal.Decimal
	// RemainingAfter is the part of the payment the entry could not absorb.
	// It is the caller's responsibility to apply it to the next entry or
	// record it as an overpayment credit; dropping it loses money.
	RemainingAfter decimal.Decimal
}

// Applied returns the total amount absorbed by the entry.
func (r PaymentAllocationResult) Applied() decimal.Decimal {
	return r.FeesApplied.Add(r.InterestApplied).Add(r.PrincipalApplied)
}

// AllocatePayment splits a payment across one schedule entry in priority
// order fees, then interest, then principal, each capped at that bucket's
// outstanding amount. The returned entry replaces the input; paid amounts
// only ever increase. LateDays is recomputed when the entry is past due at
// allocation time.
//
// Allocation must not run concurrently for the same entry; callers serialize
// per loan (the repository's optimistic version check enforces this).
func AllocatePayment(entry ScheduleEntry, amount decimal.Decimal, now time.Time) (ScheduleEntry, PaymentAllocationResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return entry, PaymentAllocationResult{}, ErrNonPositivePayment
	}

	remaining := amount

	fees := decimal.Min(remaining, entry.OutstandingFees())
	remaining = remaining.Sub(fees)

	interest := decimal.Min(remaining, entry.OutstandingInterest())
	remaining = remaining.Sub(interest)

	principal := decimal.Min(remaining, entry.OutstandingPrincipal())
	remaining = remaining.Sub(principal)

	entry.FeesPaid = entry.FeesPaid.Add(fees)
	entry.InterestPaid = entry.InterestPaid.Add(interest)
	entry.PrincipalPaid = entry.PrincipalPaid.Add(principal)
	entry.TotalPaid = entry.TotalPaid.Add(fees).Add(interest).Add(principal)

	if entry.TotalPaid.GreaterThanOrEqual(entry.TotalDue.Sub(paidEpsilon)) {
		entry.IsPaid = true
	}
	if now.After(entry.DueDate) {
		entry.LateDays = DaysLate(entry.DueDate, now)
	}

	return entry, PaymentAllocationResult{
		Sequence:         entry.Sequence,
		FeesApplied:      fees,
		InterestApplied:  interest,
		PrincipalApplied: principal,
		RemainingAfter:   remaining,
	}, nil
}
