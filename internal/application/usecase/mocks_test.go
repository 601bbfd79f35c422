package usecase_test

import (
	"context"
	"time"

	"github.com/microfin/lending-engine/internal/domain/event"
	"github.com/microfin/lending-engine/internal/domain/model"
	"github.com/microfin/lending-engine/internal/domain/service"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockLoanRepository struct {
	saveFunc             func(ctx context.Context, loan model.Loan) error
	findByIDFunc         func(ctx context.Context, tenantID, id string) (model.Loan, error)
	findByBorrowerIDFunc func(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error)
	findActiveFunc       func(ctx context.Context, tenantID string) ([]model.Loan, error)

	savedLoans []model.Loan
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	m.savedLoans = append(m.savedLoans, loan)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, tenantID, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.Loan{}, nil
}

func (m *mockLoanRepository) FindByBorrowerID(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error) {
	if m.findByBorrowerIDFunc != nil {
		return m.findByBorrowerIDFunc(ctx, tenantID, borrowerID)
	}
	return nil, nil
}

func (m *mockLoanRepository) FindActive(ctx context.Context, tenantID string) ([]model.Loan, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, tenantID)
	}
	return nil, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, events...)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	return nil
}

type cachedScore struct {
	tenantID string
	loanID   string
	score    service.RiskScore
	ttl      time.Duration
}

type mockRiskScoreCache struct {
	putFunc func(ctx context.Context, tenantID, loanID string, score service.RiskScore, ttl time.Duration) error
	getFunc func(ctx context.Context, tenantID, loanID string) (service.RiskScore, bool, error)

	putCalls []cachedScore
}

func (m *mockRiskScoreCache) Put(ctx context.Context, tenantID, loanID string, score service.RiskScore, ttl time.Duration) error {
	m.putCalls = append(m.putCalls, cachedScore{tenantID: tenantID, loanID: loanID, score: score, ttl: ttl})
	if m.putFunc != nil {
		return m.putFunc(ctx, tenantID, loanID, score, ttl)
	}
	return nil
}

func (m *mockRiskScoreCache) Get(ctx context.Context, tenantID, loanID string) (service.RiskScore, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, tenantID, loanID)
	}
	return service.RiskScore{}, false, nil
}
