package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/microfin/lending-engine/internal/application/dto"
	"github.com/microfin/lending-engine/internal/domain/model"
	"github.com/microfin/lending-engine/internal/domain/port"
	"github.com/microfin/lending-engine/internal/domain/service"
	"github.com/microfin/lending-engine/internal/domain/valueobject"
)

// OriginateLoanUseCase validates loan terms, generates the repayment
// schedule, books upfront fees and persists the new loan.
type OriginateLoanUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
}

// NewOriginateLoanUseCase wires dependencies.
func NewOriginateLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
) *OriginateLoanUseCase {
	return &OriginateLoanUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
	}
}

// Execute originates a loan.
func (uc *OriginateLoanUseCase) Execute(
	ctx context.Context,
	req dto.OriginateLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Validate the commercial terms.
	terms, err := model.NewLoanTerms(req.Principal, req.AnnualRatePercent, req.TermMonths, req.StartDate)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("validate terms: %w: %w", ErrInvalidInput, err)
	}

	// 2. Compute upfront fees against the principal.
	specs, err := parseFeeSpecs(req.Fees)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("parse fees: %w: %w", ErrInvalidInput, err)
	}
	upfrontFees := service.TotalUpfrontFees(terms.Principal, specs)

	// 3. Create the aggregate (generates schedule and loan number).
	loan, err := model.NewLoan(
		req.TenantID, req.BorrowerID, req.Currency,
		terms, req.CreditScore, req.DTIRatio, upfrontFees, now,
	)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	// 4. Persist.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 5. Publish domain events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan), nil
}

func parseFeeSpecs(reqs []dto.FeeSpecRequest) ([]valueobject.FeeSpec, error) {
	specs := make([]valueobject.FeeSpec, 0, len(reqs))
	for _, r := range reqs {
		feeType, err := valueobject.NewFeeType(r.Type)
		if err != nil {
			return nil, err
		}
		calcType, err := valueobject.NewCalculationType(r.CalculationType)
		if err != nil {
			return nil, err
		}

		var spec valueobject.FeeSpec
		if calcType == valueobject.CalculationTypeFixed {
			spec, err = valueobject.NewFixedFee(feeType, r.Amount)
		} else {
			spec, err = valueobject.NewPercentageFee(feeType, r.Percentage)
		}
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func toLoanResponse(loan model.Loan) dto.LoanResponse {
	sched := loan.Schedule()
	entries := make([]dto.ScheduleEntryResponse, len(sched))
	for i, e := range sched {
		entries[i] = dto.ScheduleEntryResponse{
			Sequence:      e.Sequence,
			DueDate:       e.DueDate,
			PrincipalDue:  e.PrincipalDue,
			InterestDue:   e.InterestDue,
			FeesDue:       e.FeesDue,
			TotalDue:      e.TotalDue,
			PrincipalPaid: e.PrincipalPaid,
			InterestPaid:  e.InterestPaid,
			FeesPaid:      e.FeesPaid,
			TotalPaid:     e.TotalPaid,
			IsPaid:        e.IsPaid,
			LateDays:      e.LateDays,
		}
	}

	terms := loan.Terms()
	return dto.LoanResponse{
		ID:                 loan.ID(),
		TenantID:           loan.TenantID(),
		LoanNumber:         loan.LoanNumber(),
		BorrowerID:         loan.BorrowerID(),
		Principal:          terms.Principal,
		AnnualRatePercent:  terms.AnnualRatePercent,
		TermMonths:         terms.TermMonths,
		StartDate:          terms.StartDate,
		Currency:           loan.Currency(),
		Status:             loan.Status().String(),
		MonthlyPayment:     loan.MonthlyPayment(),
		TotalInterest:      loan.TotalInterest(),
		OutstandingBalance: loan.OutstandingBalance(),
		Schedule:           entries,
		CreatedAt:          loan.CreatedAt(),
		UpdatedAt:          loan.UpdatedAt(),
	}
}
