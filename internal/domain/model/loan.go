package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/microfin/lending-engine/internal/domain/event"
	"github.com/microfin/lending-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy carrying the
// domain events the mutation produced.
type Loan struct {
	id                  string
	tenantID            string
	loanNumber          string
	borrowerID          string
	terms               LoanTerms
	currency            string
	borrowerCreditScore int
	borrowerDTIRatio    decimal.Decimal
	status              valueobject.LoanStatus
	schedule            []ScheduleEntry
	monthlyPayment      decimal.Decimal
	totalInterest       decimal.Decimal
	outstandingBalance  decimal.Decimal
	version             int
	createdAt           time.Time
	updatedAt           time.Time
	domainEvents        []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan creates a loan, generates its repayment schedule and loan number,
// and books any upfront fees against the first installment. The loan starts
// ACTIVE.
func NewLoan(
	tenantID, borrowerID, currency string,
	terms LoanTerms,
	borrowerCreditScore int,
	borrowerDTIRatio decimal.Decimal,
	upfrontFees decimal.Decimal,
	now time.Time,
) (Loan, error) {
	if tenantID == "" {
		return Loan{}, errors.New("tenant ID is required")
	}
	if borrowerID == "" {
		return Loan{}, errors.New("borrower ID is required")
	}
	if currency == "" {
		return Loan{}, errors.New("currency is required")
	}
	if upfrontFees.IsNegative() {
		return Loan{}, fmt.Errorf("upfront fees must not be negative, got %s", upfrontFees)
	}

	result, err := GenerateSchedule(terms)
	if err != nil {
		return Loan{}, err
	}

	if upfrontFees.IsPositive() {
		first := &result.Schedule[0]
		first.FeesDue = first.FeesDue.Add(upfrontFees).Round(2)
		first.TotalDue = first.PrincipalDue.Add(first.InterestDue).Add(first.FeesDue).Round(2)
	}

	id := uuid.New().String()
	loanNumber := valueobject.NewLoanNumber()

	loan := Loan{
		id:                  id,
		tenantID:            tenantID,
		loanNumber:          loanNumber,
		borrowerID:          borrowerID,
		terms:               terms,
		currency:            currency,
		borrowerCreditScore: borrowerCreditScore,
		borrowerDTIRatio:    borrowerDTIRatio,
		status:              valueobject.LoanStatusActive,
		schedule:            result.Schedule,
		monthlyPayment:      result.MonthlyPayment,
		totalInterest:       result.TotalInterest,
		outstandingBalance:  terms.Principal,
		version:             1,
		createdAt:           now,
		updatedAt:           now,
	}

	loan.domainEvents = append(loan.domainEvents, event.NewLoanOriginated(
		id, tenantID, loanNumber, borrowerID,
		terms.Principal, currency, terms.AnnualRatePercent, terms.TermMonths,
		result.MonthlyPayment, result.TotalInterest, upfrontFees,
		result.Schedule[0].DueDate,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, tenantID, loanNumber, borrowerID string,
	terms LoanTerms,
	currency string,
	borrowerCreditScore int,
	borrowerDTIRatio decimal.Decimal,
	status valueobject.LoanStatus,
	schedule []ScheduleEntry,
	monthlyPayment, totalInterest, outstandingBalance decimal.Decimal,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                  id,
		tenantID:            tenantID,
		loanNumber:          loanNumber,
		borrowerID:          borrowerID,
		terms:               terms,
		currency:            currency,
		borrowerCreditScore: borrowerCreditScore,
		borrowerDTIRatio:    borrowerDTIRatio,
		status:              status,
		schedule:            schedule,
		monthlyPayment:      monthlyPayment,
		totalInterest:       totalInterest,
		outstandingBalance:  outstandingBalance,
		version:             version,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// ApplyPayment allocates a payment across the unpaid schedule entries in
// sequence order (fees, then interest, then principal within each entry) and
// returns the allocation record per touched entry. Any amount the schedule
// cannot absorb is returned as unapplied; the caller records it as an
// overpayment credit rather than losing it.
func (l Loan) ApplyPayment(amount decimal.Decimal, now time.Time) (Loan, []PaymentAllocationResult, decimal.Decimal, error) {
	if !l.status.AcceptsPayments() {
		return l, nil, decimal.Zero, fmt.Errorf("loan %s does not accept payments in status %s", l.id, l.status)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, nil, decimal.Zero, ErrNonPositivePayment
	}

	next := l
	next.schedule = l.Schedule() // defensive copy, mutated below
	next.domainEvents = copyEvents(l.domainEvents)

	remaining := amount
	var allocations []PaymentAllocationResult
	feesTotal, interestTotal, principalTotal := decimal.Zero, decimal.Zero, decimal.Zero

	for i := range next.schedule {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if next.schedule[i].IsPaid {
			continue
		}

		entry, res, err := AllocatePayment(next.schedule[i], remaining, now)
		if err != nil {
			return l, nil, decimal.Zero, err
		}
		next.schedule[i] = entry
		remaining = res.RemainingAfter

		if res.Applied().IsPositive() {
			allocations = append(allocations, res)
			feesTotal = feesTotal.Add(res.FeesApplied)
			interestTotal = interestTotal.Add(res.InterestApplied)
			principalTotal = principalTotal.Add(res.PrincipalApplied)
		}
	}

	next.outstandingBalance = floorZero(l.outstandingBalance.Sub(principalTotal))
	next.updatedAt = now

	next.domainEvents = append(next.domainEvents, event.NewPaymentAllocated(
		l.id, l.tenantID,
		amount, feesTotal, interestTotal, principalTotal, remaining,
		next.outstandingBalance,
	))

	if next.allEntriesPaid() {
		next.status = valueobject.LoanStatusPaidOff
		next.outstandingBalance = decimal.Zero
		next.domainEvents = append(next.domainEvents, event.NewLoanPaidOff(l.id, l.tenantID))
	}

	return next, allocations, remaining, nil
}

// AddPenalty books a late penalty against the fees bucket of the given
// schedule entry and marks the loan delinquent if it was active. TotalDue is
// recomputed to preserve the entry consistency invariant.
func (l Loan) AddPenalty(sequence int, penalty decimal.Decimal, now time.Time) (Loan, error) {
	if !l.status.AcceptsPayments() {
		return l, fmt.Errorf("cannot assess penalties on loan in status %s", l.status)
	}
	if penalty.LessThanOrEqual(decimal.Zero) {
		return l, fmt.Errorf("penalty must be positive, got %s", penalty)
	}
	if sequence < 1 || sequence > len(l.schedule) {
		return l, fmt.Errorf("schedule entry %d does not exist", sequence)
	}

	next := l
	next.schedule = l.Schedule()
	next.domainEvents = copyEvents(l.domainEvents)

	entry := &next.schedule[sequence-1]
	if entry.IsPaid {
		return l, fmt.Errorf("schedule entry %d is already settled", sequence)
	}

	entry.FeesDue = entry.FeesDue.Add(penalty).Round(2)
	entry.TotalDue = entry.PrincipalDue.Add(entry.InterestDue).Add(entry.FeesDue).Round(2)
	entry.LateDays = DaysLate(entry.DueDate, now)
	next.updatedAt = now

	next.domainEvents = append(next.domainEvents, event.NewPenaltyAssessed(
		l.id, l.tenantID, sequence, penalty, entry.LateDays,
	))

	if next.status.Equal(valueobject.LoanStatusActive) {
		next.status = valueobject.LoanStatusDelinquent
		next.domainEvents = append(next.domainEvents, event.NewLoanDelinquent(
			l.id, l.tenantID, next.outstandingBalance,
		))
	}

	return next, nil
}

// MarkDefault transitions DELINQUENT -> DEFAULT.
func (l Loan) MarkDefault(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusDelinquent) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusDefault
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next, nil
}

// WriteOff transitions DEFAULT -> WRITTEN_OFF.
func (l Loan) WriteOff(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusDefault) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusWrittenOff
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next, nil
}

// OverdueEntries returns the unpaid entries whose due date lies before asOf,
// in sequence order.
func (l Loan) OverdueEntries(asOf time.Time) []ScheduleEntry {
	var overdue []ScheduleEntry
	for _, e := range l.schedule {
		if !e.IsPaid && e.DueDate.Before(asOf) {
			overdue = append(overdue, e)
		}
	}
	return overdue
}

func (l Loan) allEntriesPaid() bool {
	for _, e := range l.schedule {
		if !e.IsPaid {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                           { return l.id }
func (l Loan) TenantID() string                     { return l.tenantID }
func (l Loan) LoanNumber() string                   { return l.loanNumber }
func (l Loan) BorrowerID() string                   { return l.borrowerID }
func (l Loan) Terms() LoanTerms                     { return l.terms }
func (l Loan) Currency() string                     { return l.currency }
func (l Loan) BorrowerCreditScore() int             { return l.borrowerCreditScore }
func (l Loan) BorrowerDTIRatio() decimal.Decimal    { return l.borrowerDTIRatio }
func (l Loan) Status() valueobject.LoanStatus       { return l.status }
func (l Loan) MonthlyPayment() decimal.Decimal      { return l.monthlyPayment }
func (l Loan) TotalInterest() decimal.Decimal       { return l.totalInterest }
func (l Loan) OutstandingBalance() decimal.Decimal  { return l.outstandingBalance }
func (l Loan) Version() int                         { return l.version }
func (l Loan) CreatedAt() time.Time                 { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                 { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent    { return l.domainEvents }

// Schedule returns a defensive copy of the repayment schedule.
func (l Loan) Schedule() []ScheduleEntry {
	if l.schedule == nil {
		return nil
	}
	out := make([]ScheduleEntry, len(l.schedule))
	copy(out, l.schedule)
	return out
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(events []event.DomainEvent) []event.DomainEvent {
	if events == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(events))
	copy(out, events)
	return out
}
