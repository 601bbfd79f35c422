package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// FeeSpecRequest describes one fee to charge at origination.
type FeeSpecRequest struct {
	Type            string          `json:"type"`
	CalculationType string          `json:"calculation_type"`
	Amount          decimal.Decimal `json:"amount,omitempty"`
	Percentage      decimal.Decimal `json:"percentage,omitempty"`
}

// OriginateLoanRequest carries the data needed to originate a loan and
// generate its repayment schedule.
type OriginateLoanRequest struct {
	TenantID          string           `json:"tenant_id"`
	BorrowerID        string           `json:"borrower_id"`
	Principal         decimal.Decimal  `json:"principal"`
	AnnualRatePercent decimal.Decimal  `json:"annual_rate_percent"`
	TermMonths        int              `json:"term_months"`
	StartDate         time.Time        `json:"start_date"`
	Currency          string           `json:"currency"`
	CreditScore       int              `json:"credit_score"`
	DTIRatio          decimal.Decimal  `json:"dti_ratio"`
	Fees              []FeeSpecRequest `json:"fees,omitempty"`
}

// RecordPaymentRequest carries the data for a loan payment.
type RecordPaymentRequest struct {
	TenantID string          `json:"tenant_id"`
	LoanID   string          `json:"loan_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// PenaltyConfigRequest selects and parameterizes the late-penalty policy for
// a penalty assessment run. Exactly one of Amount, Percentage or DailyRate is
// meaningful depending on Type (FIXED, PERCENTAGE, DAILY_RATE).
type PenaltyConfigRequest struct {
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount,omitempty"`
	Percentage      decimal.Decimal `json:"percentage,omitempty"`
	DailyRate       decimal.Decimal `json:"daily_rate,omitempty"`
	GracePeriodDays int             `json:"grace_period_days"`
}

// AssessPenaltiesRequest triggers a penalty assessment run for a tenant.
type AssessPenaltiesRequest struct {
	TenantID string               `json:"tenant_id"`
	Penalty  PenaltyConfigRequest `json:"penalty"`
	AsOf     time.Time            `json:"as_of,omitempty"`
}

// ScorePortfolioRequest triggers a risk scoring run for a tenant.
type ScorePortfolioRequest struct {
	TenantID string    `json:"tenant_id"`
	AsOf     time.Time `json:"as_of,omitempty"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	TenantID string `json:"tenant_id"`
	LoanID   string `json:"loan_id"`
}

// ListBorrowerLoansRequest identifies a borrower whose loans to list.
type ListBorrowerLoansRequest struct {
	TenantID   string `json:"tenant_id"`
	BorrowerID string `json:"borrower_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScheduleEntryResponse represents a single repayment schedule entry.
type ScheduleEntryResponse struct {
	Sequence      int             `json:"sequence"`
	DueDate       time.Time       `json:"due_date"`
	PrincipalDue  decimal.Decimal `json:"principal_due"`
	InterestDue   decimal.Decimal `json:"interest_due"`
	FeesDue       decimal.Decimal `json:"fees_due"`
	TotalDue      decimal.Decimal `json:"total_due"`
	PrincipalPaid decimal.Decimal `json:"principal_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid"`
	FeesPaid      decimal.Decimal `json:"fees_paid"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	IsPaid        bool            `json:"is_paid"`
	LateDays      int             `json:"late_days"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID                 string                  `json:"id"`
	TenantID           string                  `json:"tenant_id"`
	LoanNumber         string                  `json:"loan_number"`
	BorrowerID         string                  `json:"borrower_id"`
	Principal          decimal.Decimal         `json:"principal"`
	AnnualRatePercent  decimal.Decimal         `json:"annual_rate_percent"`
	TermMonths         int                     `json:"term_months"`
	StartDate          time.Time               `json:"start_date"`
	Currency           string                  `json:"currency"`
	Status             string                  `json:"status"`
	MonthlyPayment     decimal.Decimal         `json:"monthly_payment"`
	TotalInterest      decimal.Decimal         `json:"total_interest"`
	OutstandingBalance decimal.Decimal         `json:"outstanding_balance"`
	Schedule           []ScheduleEntryResponse `json:"schedule,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// AllocationResponse is the external representation of one allocation step.
type AllocationResponse struct {
	Sequence         int             `json:"sequence"`
	FeesApplied      decimal.Decimal `json:"fees_applied"`
	InterestApplied  decimal.Decimal `json:"interest_applied"`
	PrincipalApplied decimal.Decimal `json:"principal_applied"`
}

// PaymentResponse is the external representation of a payment result.
type PaymentResponse struct {
	LoanID             string               `json:"loan_id"`
	ReceiptNumber      string               `json:"receipt_number"`
	AmountPaid         decimal.Decimal      `json:"amount_paid"`
	Allocations        []AllocationResponse `json:"allocations"`
	UnappliedAmount    decimal.Decimal      `json:"unapplied_amount"`
	OutstandingBalance decimal.Decimal      `json:"outstanding_balance"`
	LoanStatus         string               `json:"loan_status"`
}

// AssessPenaltiesResponse summarizes a penalty assessment run.
type AssessPenaltiesResponse struct {
	LoansAssessed  int             `json:"loans_assessed"`
	TotalPenalties decimal.Decimal `json:"total_penalties"`
}

// RiskScoreResponse is the external representation of a loan's risk score.
type RiskScoreResponse struct {
	LoanID           string `json:"loan_id"`
	Score            int    `json:"score"`
	Level            string `json:"level"`
	PredictedDefault bool   `json:"predicted_default"`
}

// ScorePortfolioResponse summarizes a risk scoring run.
type ScorePortfolioResponse struct {
	LoansScored int                 `json:"loans_scored"`
	Scores      []RiskScoreResponse `json:"scores"`
}
