package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/lending-engine/internal/application/dto"
	"github.com/microfin/lending-engine/internal/application/usecase"
	"github.com/microfin/lending-engine/internal/domain/model"
)

func TestAssessPenalties_Execute(t *testing.T) {
	dailyRatePenalty := dto.PenaltyConfigRequest{
		Type:            "DAILY_RATE",
		DailyRate:       decimal.NewFromInt(1),
		GracePeriodDays: 7,
	}

	t.Run("books penalties on entries past grace", func(t *testing.T) {
		loan := zeroRateLoan(t)
		// First installment is 10 days overdue: 3 chargeable days past the
		// 7-day grace at 1%/day of the 100 due = 3.00.
		asOf := loan.Schedule()[0].DueDate.AddDate(0, 0, 10)

		loanRepo := &mockLoanRepository{
			findActiveFunc: func(ctx context.Context, tenantID string) ([]model.Loan, error) {
				return []model.Loan{loan}, nil
			},
		}
		publisher := &mockEventPublisher{}
		uc := usecase.NewAssessPenaltiesUseCase(loanRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.AssessPenaltiesRequest{
			TenantID: "tenant-001",
			Penalty:  dailyRatePenalty,
			AsOf:     asOf,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, resp.LoansAssessed)
		assert.True(t, decimal.NewFromInt(3).Equal(resp.TotalPenalties), "got %s", resp.TotalPenalties)

		require.Len(t, loanRepo.savedLoans, 1)
		saved := loanRepo.savedLoans[0]
		assert.Equal(t, "DELINQUENT", saved.Status().String())
		assert.True(t, decimal.NewFromInt(3).Equal(saved.Schedule()[0].FeesDue))

		types := make([]string, 0, len(publisher.publishedEvents))
		for _, e := range publisher.publishedEvents {
			types = append(types, e.EventType())
		}
		assert.Contains(t, types, "lending.loan.penalty_assessed")
		assert.Contains(t, types, "lending.loan.delinquent")
	})

	t.Run("skips entries inside the grace period", func(t *testing.T) {
		loan := zeroRateLoan(t)
		asOf := loan.Schedule()[0].DueDate.AddDate(0, 0, 5) // within 7-day grace

		loanRepo := &mockLoanRepository{
			findActiveFunc: func(ctx context.Context, tenantID string) ([]model.Loan, error) {
				return []model.Loan{loan}, nil
			},
		}
		uc := usecase.NewAssessPenaltiesUseCase(loanRepo, &mockEventPublisher{})

		resp, err := uc.Execute(context.Background(), dto.AssessPenaltiesRequest{
			TenantID: "tenant-001",
			Penalty:  dailyRatePenalty,
			AsOf:     asOf,
		})
		require.NoError(t, err)

		assert.Equal(t, 0, resp.LoansAssessed)
		assert.True(t, resp.TotalPenalties.IsZero())
		assert.Empty(t, loanRepo.savedLoans, "untouched loans must not be rewritten")
	})

	t.Run("charges multiple overdue entries on one loan", func(t *testing.T) {
		loan := zeroRateLoan(t)
		// Two installments overdue by more than the grace period.
		asOf := loan.Schedule()[1].DueDate.AddDate(0, 0, 10)

		loanRepo := &mockLoanRepository{
			findActiveFunc: func(ctx context.Context, tenantID string) ([]model.Loan, error) {
				return []model.Loan{loan}, nil
			},
		}
		uc := usecase.NewAssessPenaltiesUseCase(loanRepo, &mockEventPublisher{})

		resp, err := uc.Execute(context.Background(), dto.AssessPenaltiesRequest{
			TenantID: "tenant-001",
			Penalty:  dailyRatePenalty,
			AsOf:     asOf,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, resp.LoansAssessed)
		require.Len(t, loanRepo.savedLoans, 1)
		saved := loanRepo.savedLoans[0]
		assert.True(t, saved.Schedule()[0].FeesDue.IsPositive())
		assert.True(t, saved.Schedule()[1].FeesDue.IsPositive())
		assert.True(t, saved.Schedule()[2].FeesDue.IsZero())
	})

	t.Run("rejects unknown penalty types as client error", func(t *testing.T) {
		uc := usecase.NewAssessPenaltiesUseCase(&mockLoanRepository{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.AssessPenaltiesRequest{
			TenantID: "tenant-001",
			Penalty:  dto.PenaltyConfigRequest{Type: "EXPONENTIAL"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrInvalidInput)
	})

	t.Run("fixed penalty charges a flat amount per entry", func(t *testing.T) {
		loan := zeroRateLoan(t)
		// 20 days past the first due date, before the second falls due.
		asOf := loan.Schedule()[0].DueDate.AddDate(0, 0, 20)

		loanRepo := &mockLoanRepository{
			findActiveFunc: func(ctx context.Context, tenantID string) ([]model.Loan, error) {
				return []model.Loan{loan}, nil
			},
		}
		uc := usecase.NewAssessPenaltiesUseCase(loanRepo, &mockEventPublisher{})

		resp, err := uc.Execute(context.Background(), dto.AssessPenaltiesRequest{
			TenantID: "tenant-001",
			Penalty: dto.PenaltyConfigRequest{
				Type:            "FIXED",
				Amount:          decimal.NewFromInt(15),
				GracePeriodDays: 0,
			},
			AsOf: asOf,
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(15).Equal(resp.TotalPenalties))
	})
}
