package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Loan lifecycle events
// ---------------------------------------------------------------------------

// LoanOriginated is raised when a loan is created and its repayment schedule
// generated.
type LoanOriginated struct {
	BaseEvent
	LoanNumber        string          `json:"loan_number"`
	BorrowerID        string          `json:"borrower_id"`
	Principal         decimal.Decimal `json:"principal"`
	Currency          string          `json:"currency"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	TermMonths        int             `json:"term_months"`
	MonthlyPayment    decimal.Decimal `json:"monthly_payment"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	UpfrontFees       decimal.Decimal `json:"upfront_fees"`
	FirstDueDate      time.Time       `json:"first_due_date"`
}

func NewLoanOriginated(
	loanID, tenantID, loanNumber, borrowerID string,
	principal decimal.Decimal, currency string,
	annualRatePercent decimal.Decimal, termMonths int,
	monthlyPayment, totalInterest, upfrontFees decimal.Decimal,
	firstDueDate time.Time,
) LoanOriginated {
	return LoanOriginated{
		BaseEvent:         NewBaseEvent("lending.loan.originated", loanID, "Loan", tenantID),
		LoanNumber:        loanNumber,
		BorrowerID:        borrowerID,
		Principal:         principal,
		Currency:          currency,
		AnnualRatePercent: annualRatePercent,
		TermMonths:        termMonths,
		MonthlyPayment:    monthlyPayment,
		TotalInterest:     totalInterest,
		UpfrontFees:       upfrontFees,
		FirstDueDate:      firstDueDate,
	}
}

// PaymentAllocated is raised when a payment has been split across the
// schedule.
type PaymentAllocated struct {
	BaseEvent
	Amount             decimal.Decimal `json:"amount"`
	FeesApplied        decimal.Decimal `json:"fees_applied"`
	InterestApplied    decimal.Decimal `json:"interest_applied"`
	PrincipalApplied   decimal.Decimal `json:"principal_applied"`
	UnappliedAmount    decimal.Decimal `json:"unapplied_amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

func NewPaymentAllocated(
	loanID, tenantID string,
	amount, fees, interest, principal, unapplied, outstanding decimal.Decimal,
) PaymentAllocated {
	return PaymentAllocated{
		BaseEvent:          NewBaseEvent("lending.loan.payment_allocated", loanID, "Loan", tenantID),
		Amount:             amount,
		FeesApplied:        fees,
		InterestApplied:    interest,
		PrincipalApplied:   principal,
		UnappliedAmount:    unapplied,
		OutstandingBalance: outstanding,
	}
}

// LoanPaidOff is raised when every schedule entry is settled.
type LoanPaidOff struct {
	BaseEvent
}

func NewLoanPaidOff(loanID, tenantID string) LoanPaidOff {
	return LoanPaidOff{
		BaseEvent: NewBaseEvent("lending.loan.paid_off", loanID, "Loan", tenantID),
	}
}

// LoanDelinquent is raised the first time a penalty is assessed against an
// active loan.
type LoanDelinquent struct {
	BaseEvent
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

func NewLoanDelinquent(loanID, tenantID string, outstanding decimal.Decimal) LoanDelinquent {
	return LoanDelinquent{
		BaseEvent:          NewBaseEvent("lending.loan.delinquent", loanID, "Loan", tenantID),
		OutstandingBalance: outstanding,
	}
}

// PenaltyAssessed is raised when a late penalty is added to a schedule
// entry's fees bucket.
type PenaltyAssessed struct {
	BaseEvent
	Sequence int             `json:"sequence"`
	Penalty  decimal.Decimal `json:"penalty"`
	LateDays int             `json:"late_days"`
}

func NewPenaltyAssessed(loanID, tenantID string, sequence int, penalty decimal.Decimal, lateDays int) PenaltyAssessed {
	return PenaltyAssessed{
		BaseEvent: NewBaseEvent("lending.loan.penalty_assessed", loanID, "Loan", tenantID),
		Sequence:  sequence,
		Penalty:   penalty,
		LateDays:  lateDays,
	}
}

// RiskScoreComputed is raised by the portfolio scoring job.
type RiskScoreComputed struct {
	BaseEvent
	Score            int    `json:"score"`
	Level            string `json:"level"`
	PredictedDefault bool   `json:"predicted_default"`
}

func NewRiskScoreComputed(loanID, tenantID string, score int, level string, predictedDefault bool) RiskScoreComputed {
	return RiskScoreComputed{
		BaseEvent:        NewBaseEvent("lending.loan.risk_score_computed", loanID, "Loan", tenantID),
		Score:            score,
		Level:            level,
		PredictedDefault: predictedDefault,
	}
}
