package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/lending-engine/internal/application/dto"
	"github.com/microfin/lending-engine/internal/application/usecase"
	"github.com/microfin/lending-engine/internal/domain/model"
)

func originateRequest() dto.OriginateLoanRequest {
	return dto.OriginateLoanRequest{
		TenantID:          "tenant-001",
		BorrowerID:        "borrower-001",
		Principal:         decimal.NewFromInt(100_000),
		AnnualRatePercent: decimal.NewFromInt(12),
		TermMonths:        12,
		StartDate:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Currency:          "USD",
		CreditScore:       700,
		DTIRatio:          decimal.NewFromFloat(0.3),
	}
}

func TestOriginateLoan_Execute(t *testing.T) {
	t.Run("originates a loan with a full schedule", func(t *testing.T) {
		loanRepo := &mockLoanRepository{}
		publisher := &mockEventPublisher{}
		uc := usecase.NewOriginateLoanUseCase(loanRepo, publisher)

		resp, err := uc.Execute(context.Background(), originateRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, resp.ID)
		assert.Regexp(t, `^LN-`, resp.LoanNumber)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Len(t, resp.Schedule, 12)
		assert.True(t, decimal.NewFromFloat(8884.88).Equal(resp.MonthlyPayment),
			"expected 8884.88, got %s", resp.MonthlyPayment)
		assert.True(t, decimal.NewFromInt(100_000).Equal(resp.OutstandingBalance))

		require.Len(t, loanRepo.savedLoans, 1)
		require.NotEmpty(t, publisher.publishedEvents)
		assert.Equal(t, "lending.loan.originated", publisher.publishedEvents[0].EventType())
	})

	t.Run("books upfront fees against the first installment", func(t *testing.T) {
		loanRepo := &mockLoanRepository{}
		publisher := &mockEventPublisher{}
		uc := usecase.NewOriginateLoanUseCase(loanRepo, publisher)

		req := originateRequest()
		req.Fees = []dto.FeeSpecRequest{
			{Type: "PROCESSING", CalculationType: "FIXED", Amount: decimal.NewFromInt(100)},
			{Type: "ORIGINATION", CalculationType: "PERCENTAGE", Percentage: decimal.NewFromInt(1)},
		}

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		// 100 fixed + 1% of 100000 = 1100 on the first entry only.
		first := resp.Schedule[0]
		assert.True(t, decimal.NewFromInt(1100).Equal(first.FeesDue), "got %s", first.FeesDue)
		assert.True(t, resp.Schedule[1].FeesDue.IsZero())
	})

	t.Run("rejects invalid terms as client error", func(t *testing.T) {
		uc := usecase.NewOriginateLoanUseCase(&mockLoanRepository{}, &mockEventPublisher{})

		req := originateRequest()
		req.Principal = decimal.Zero

		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrInvalidInput)
	})

	t.Run("rejects unknown fee types", func(t *testing.T) {
		uc := usecase.NewOriginateLoanUseCase(&mockLoanRepository{}, &mockEventPublisher{})

		req := originateRequest()
		req.Fees = []dto.FeeSpecRequest{{Type: "MYSTERY", CalculationType: "FIXED", Amount: decimal.NewFromInt(1)}}

		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrInvalidInput)
	})

	t.Run("propagates repository failures", func(t *testing.T) {
		loanRepo := &mockLoanRepository{
			saveFunc: func(ctx context.Context, _ model.Loan) error {
				return fmt.Errorf("connection reset")
			},
		}
		uc := usecase.NewOriginateLoanUseCase(loanRepo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), originateRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save loan")
		assert.NotErrorIs(t, err, usecase.ErrInvalidInput)
	})
}
