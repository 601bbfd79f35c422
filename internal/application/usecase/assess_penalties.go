package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/lending-engine/internal/application/dto"
	"github.com/microfin/lending-engine/internal/domain/port"
	"github.com/microfin/lending-engine/internal/domain/service"
	"github.com/microfin/lending-engine/internal/domain/valueobject"
)

// AssessPenaltiesUseCase runs late-payment detection over a tenant's active
// loans and books penalties against overdue schedule entries.
type AssessPenaltiesUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
}

// NewAssessPenaltiesUseCase wires dependencies.
func NewAssessPenaltiesUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
) *AssessPenaltiesUseCase {
	return &AssessPenaltiesUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
	}
}

// Execute assesses penalties for every active loan with an entry past its
// grace period. Each overdue entry is charged at most once per run; entries
// still inside the grace period are skipped.
func (uc *AssessPenaltiesUseCase) Execute(
	ctx context.Context,
	req dto.AssessPenaltiesRequest,
) (dto.AssessPenaltiesResponse, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	cfg, err := parsePenaltyConfig(req.Penalty)
	if err != nil {
		return dto.AssessPenaltiesResponse{}, fmt.Errorf("parse penalty config: %w: %w", ErrInvalidInput, err)
	}

	loans, err := uc.loanRepo.FindActive(ctx, req.TenantID)
	if err != nil {
		return dto.AssessPenaltiesResponse{}, fmt.Errorf("find active loans: %w", err)
	}

	assessed := 0
	total := decimal.Zero

	for _, loan := range loans {
		touched := false

		for _, entry := range loan.OverdueEntries(asOf) {
			penalty := service.CalculateLatePenalty(entry.Outstanding(), entry.DueDate, asOf, cfg)
			if !penalty.IsPositive() {
				continue
			}

			loan, err = loan.AddPenalty(entry.Sequence, penalty, asOf)
			if err != nil {
				return dto.AssessPenaltiesResponse{}, fmt.Errorf("add penalty to loan %s: %w", loan.ID(), err)
			}
			total = total.Add(penalty)
			touched = true
		}

		if !touched {
			continue
		}

		if err := uc.loanRepo.Save(ctx, loan); err != nil {
			return dto.AssessPenaltiesResponse{}, fmt.Errorf("save loan %s: %w", loan.ID(), err)
		}
		if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
			return dto.AssessPenaltiesResponse{}, fmt.Errorf("publish events for loan %s: %w", loan.ID(), err)
		}
		assessed++
	}

	return dto.AssessPenaltiesResponse{
		LoansAssessed:  assessed,
		TotalPenalties: total.Round(2),
	}, nil
}

func parsePenaltyConfig(req dto.PenaltyConfigRequest) (valueobject.PenaltyConfig, error) {
	switch req.Type {
	case "FIXED":
		cfg, err := valueobject.NewFixedPenalty(req.Amount, req.GracePeriodDays)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	case "PERCENTAGE":
		cfg, err := valueobject.NewPercentagePenalty(req.Percentage, req.GracePeriodDays)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	case "DAILY_RATE":
		cfg, err := valueobject.NewDailyRatePenalty(req.DailyRate, req.GracePeriodDays)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	default:
		return nil, fmt.Errorf("invalid penalty type: %q", req.Type)
	}
}
