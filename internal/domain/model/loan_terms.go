package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanTerms are the immutable commercial terms a schedule is generated from.
// Once a schedule exists the terms never change; a reschedule produces a new
// schedule from new terms rather than editing entries in place.
type LoanTerms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	TermMonths        int
	StartDate         time.Time
}

// NewLoanTerms validates and constructs loan terms. Validation failures name
// the offending field so callers can surface them directly.
func NewLoanTerms(
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	termMonths int,
	startDate time.Time,
) (LoanTerms, error) {
	terms := LoanTerms{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermMonths:        termMonths,
		StartDate:         startDate,
	}
	if err := terms.Validate(); err != nil {
		return LoanTerms{}, err
	}
	return terms, nil
}

// Validate checks each field and reports the first violation.
func (t LoanTerms) Validate() error {
	if t.Principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("principal must be positive, got %s", t.Principal)
	}
	if t.AnnualRatePercent.IsNegative() {
		return fmt.Errorf("annual rate percent must not be negative, got %s", t.AnnualRatePercent)
	}
	if t.TermMonths < 1 {
		return fmt.Errorf("term months must be at least 1, got %d", t.TermMonths)
	}
	if t.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	return nil
}

// MonthlyRate returns the periodic rate as a decimal fraction
// (AnnualRatePercent / 100 / 12).
func (t LoanTerms) MonthlyRate() decimal.Decimal {
	return t.AnnualRatePercent.Div(decimal.NewFromInt(1200))
}
