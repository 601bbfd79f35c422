package port

import (
	"context"
	"errors"
	"time"

	"github.com/microfin/lending-engine/internal/domain/event"
	"github.com/microfin/lending-engine/internal/domain/model"
	"github.com/microfin/lending-engine/internal/domain/service"
)

// ErrLoanNotFound is returned when no loan matches the lookup.
var ErrLoanNotFound = errors.New("loan not found")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves loans together with their schedules.
// Save enforces optimistic locking on the loan's version, which serializes
// concurrent allocations against the same loan.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, tenantID, id string) (model.Loan, error)
	FindByBorrowerID(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error)
	FindActive(ctx context.Context, tenantID string) ([]model.Loan, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Risk score cache port
// ---------------------------------------------------------------------------

// RiskScoreCache stores derived risk scores with a TTL for the reporting
// layer. Scores are recomputed by the portfolio job; a miss is not an error.
type RiskScoreCache interface {
	Put(ctx context.Context, tenantID, loanID string, score service.RiskScore, ttl time.Duration) error
	Get(ctx context.Context, tenantID, loanID string) (service.RiskScore, bool, error)
}
