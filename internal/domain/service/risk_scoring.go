package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/lending-engine/internal/domain/model"
)

// RiskLevel buckets a numeric risk score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// defaultThreshold is the score at or above which a default is predicted.
const defaultThreshold = 70

// RiskFactors are the inputs to the scoring model. Out-of-range values are
// clamped rather than rejected: scoring never fails.
type RiskFactors struct {
	DaysPastDue        int
	PaymentConsistency decimal.Decimal // fraction of due installments paid, in [0,1]
	CreditScore        int
	DTIRatio           decimal.Decimal
	LoanAgeMonths      int
}

// RiskScore is the derived scoring result. It is recomputed on demand and is
// not authoritative state.
type RiskScore struct {
	Score            int       `json:"score"`
	Level            RiskLevel `json:"level"`
	PredictedDefault bool      `json:"predicted_default"`
}

// ScoreRisk computes a 0-100 risk score with a weighted additive model.
// Each factor contributes an independently capped number of points:
//
//	days past due        up to 40
//	payment consistency  up to 25
//	credit score         up to 15
//	DTI ratio            up to 10
//	loan age             up to 10
//
// The sum is clamped to [0,100]. The function is pure and its output is
// reproducible bit-for-bit for identical inputs.
func ScoreRisk(f RiskFactors) RiskScore {
	score := daysPastDuePoints(f.DaysPastDue) +
		consistencyPoints(f.PaymentConsistency) +
		creditScorePoints(f.CreditScore) +
		dtiPoints(f.DTIRatio) +
		loanAgePoints(f.LoanAgeMonths)

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return RiskScore{
		Score:            score,
		Level:            levelFor(score),
		PredictedDefault: score >= defaultThreshold,
	}
}

func daysPastDuePoints(days int) int {
	switch {
	case days > 90:
		return 40
	case days > 60:
		return 30
	case days > 30:
		return 20
	case days > 0:
		return 10
	default:
		return 0
	}
}

func consistencyPoints(consistency decimal.Decimal) int {
	// Clamp into [0,1]; negative or >1 inputs are nonsensical, not fatal.
	if consistency.IsNegative() {
		consistency = decimal.Zero
	}
	if consistency.GreaterThan(decimal.NewFromInt(1)) {
		consistency = decimal.NewFromInt(1)
	}
	points := decimal.NewFromInt(1).Sub(consistency).Mul(decimal.NewFromInt(25))
	return int(points.Round(0).IntPart())
}

func creditScorePoints(creditScore int) int {
	switch {
	case creditScore < 500:
		return 15
	case creditScore < 600:
		return 10
	case creditScore < 700:
		return 5
	default:
		return 0
	}
}

func dtiPoints(dti decimal.Decimal) int {
	switch {
	case dti.GreaterThan(decimal.NewFromFloat(0.5)):
		return 10
	case dti.GreaterThan(decimal.NewFromFloat(0.4)):
		return 7
	case dti.GreaterThan(decimal.NewFromFloat(0.3)):
		return 4
	default:
		return 0
	}
}

func loanAgePoints(months int) int {
	if months < 0 {
		months = 0
	}
	switch {
	case months < 3:
		return 10
	case months < 6:
		return 5
	default:
		return 0
	}
}

func levelFor(score int) RiskLevel {
	switch {
	case score >= 75:
		return RiskLevelCritical
	case score >= 50:
		return RiskLevelHigh
	case score >= 25:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// RiskFactorsFromLoan derives scoring inputs from a loan's schedule and
// borrower attributes as of the given date. Days past due comes from the
// earliest unpaid overdue entry; payment consistency is the fraction of
// entries due so far that are settled (1 when nothing is due yet); loan age
// is whole months since the start date.
func RiskFactorsFromLoan(loan model.Loan, asOf time.Time) RiskFactors {
	schedule := loan.Schedule()

	daysPastDue := 0
	due, paid := 0, 0
	for _, e := range schedule {
		if !e.DueDate.Before(asOf) {
			continue
		}
		due++
		if e.IsPaid {
			paid++
			continue
		}
		if daysPastDue == 0 {
			daysPastDue = model.DaysLate(e.DueDate, asOf)
		}
	}

	consistency := decimal.NewFromInt(1)
	if due > 0 {
		consistency = decimal.NewFromInt(int64(paid)).
			Div(decimal.NewFromInt(int64(due))).
			Round(4)
	}

	return RiskFactors{
		DaysPastDue:        daysPastDue,
		PaymentConsistency: consistency,
		CreditScore:        loan.BorrowerCreditScore(),
		DTIRatio:           loan.BorrowerDTIRatio(),
		LoanAgeMonths:      monthsBetween(loan.Terms().StartDate, asOf),
	}
}

func monthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
