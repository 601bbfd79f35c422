package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/microfin/lending-engine/internal/application/dto"
	"github.com/microfin/lending-engine/internal/domain/model"
	"github.com/microfin/lending-engine/internal/domain/port"
	"github.com/microfin/lending-engine/internal/domain/valueobject"
)

// RecordPaymentUseCase applies a payment to a loan's repayment schedule.
type RecordPaymentUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
}

// NewRecordPaymentUseCase wires dependencies.
func NewRecordPaymentUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
	}
}

// Execute allocates a payment across the loan's unpaid schedule entries and
// persists the result. Any excess the schedule cannot absorb is reported in
// the response as an unapplied amount, never silently dropped.
func (uc *RecordPaymentUseCase) Execute(
	ctx context.Context,
	req dto.RecordPaymentRequest,
) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	// 1. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Allocate.
	loan, allocations, unapplied, err := loan.ApplyPayment(req.Amount, now)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("apply payment: %w", err)
	}

	// 3. Persist the mutated schedule.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Publish events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.PaymentResponse{
		LoanID:             loan.ID(),
		ReceiptNumber:      valueobject.NewReceiptNumber(),
		AmountPaid:         req.Amount,
		Allocations:        toAllocationResponses(allocations),
		UnappliedAmount:    unapplied,
		OutstandingBalance: loan.OutstandingBalance(),
		LoanStatus:         loan.Status().String(),
	}, nil
}

func toAllocationResponses(allocations []model.PaymentAllocationResult) []dto.AllocationResponse {
	out := make([]dto.AllocationResponse, len(allocations))
	for i, a := range allocations {
		out[i] = dto.AllocationResponse{
			Sequence:         a.Sequence,
			FeesApplied:      a.FeesApplied,
			InterestApplied:  a.InterestApplied,
			PrincipalApplied: a.PrincipalApplied,
		}
	}
	return out
}
