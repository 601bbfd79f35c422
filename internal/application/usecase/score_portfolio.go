package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/microfin/lending-engine/internal/application/dto"
	"github.com/microfin/lending-engine/internal/domain/event"
	"github.com/microfin/lending-engine/internal/domain/port"
	"github.com/microfin/lending-engine/internal/domain/service"
)

// ScorePortfolioUseCase recomputes risk scores for a tenant's active loans
// and caches them for the reporting layer. The score is derived state; the
// cache TTL bounds how stale a dashboard read can be.
type ScorePortfolioUseCase struct {
	loanRepo  port.LoanRepository
	cache     port.RiskScoreCache
	publisher port.EventPublisher
	cacheTTL  time.Duration
}

// NewScorePortfolioUseCase wires dependencies.
func NewScorePortfolioUseCase(
	loanRepo port.LoanRepository,
	cache port.RiskScoreCache,
	publisher port.EventPublisher,
	cacheTTL time.Duration,
) *ScorePortfolioUseCase {
	return &ScorePortfolioUseCase{
		loanRepo:  loanRepo,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTL,
	}
}

// Execute scores every active loan for the tenant.
func (uc *ScorePortfolioUseCase) Execute(
	ctx context.Context,
	req dto.ScorePortfolioRequest,
) (dto.ScorePortfolioResponse, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	loans, err := uc.loanRepo.FindActive(ctx, req.TenantID)
	if err != nil {
		return dto.ScorePortfolioResponse{}, fmt.Errorf("find active loans: %w", err)
	}

	scores := make([]dto.RiskScoreResponse, 0, len(loans))
	events := make([]event.DomainEvent, 0, len(loans))

	for _, loan := range loans {
		factors := service.RiskFactorsFromLoan(loan, asOf)
		score := service.ScoreRisk(factors)

		if err := uc.cache.Put(ctx, req.TenantID, loan.ID(), score, uc.cacheTTL); err != nil {
			return dto.ScorePortfolioResponse{}, fmt.Errorf("cache score for loan %s: %w", loan.ID(), err)
		}

		scores = append(scores, dto.RiskScoreResponse{
			LoanID:           loan.ID(),
			Score:            score.Score,
			Level:            string(score.Level),
			PredictedDefault: score.PredictedDefault,
		})
		events = append(events, event.NewRiskScoreComputed(
			loan.ID(), req.TenantID, score.Score, string(score.Level), score.PredictedDefault,
		))
	}

	if err := uc.publisher.Publish(ctx, events...); err != nil {
		return dto.ScorePortfolioResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.ScorePortfolioResponse{
		LoansScored: len(scores),
		Scores:      scores,
	}, nil
}
