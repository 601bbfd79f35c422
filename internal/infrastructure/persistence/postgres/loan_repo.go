package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/microfin/lending-engine/internal/domain/model"
	"github.com/microfin/lending-engine/internal/domain/port"
	"github.com/microfin/lending-engine/internal/domain/valueobject"
	pkgpostgres "github.com/microfin/lending-engine/pkg/postgres"
)

// LoanRepo implements port.LoanRepository on PostgreSQL.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

const loanColumns = `
	id, tenant_id, loan_number, borrower_id,
	principal, annual_rate_percent, term_months, start_date,
	currency, credit_score, dti_ratio,
	status, monthly_payment, total_interest, outstanding_balance,
	version, created_at, updated_at
`

// Save persists a loan and its schedule in one transaction. The loan row
// uses optimistic locking on version; schedule rows are upserted because the
// paid buckets and fees mutate on allocation and penalty assessment.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return saveLoan(ctx, tx, loan)
	})
}

func saveLoan(ctx context.Context, tx pkgpostgres.Querier, loan model.Loan) error {
	loanQuery := `
		INSERT INTO loans (
			id, tenant_id, loan_number, borrower_id,
			principal, annual_rate_percent, term_months, start_date,
			currency, credit_score, dti_ratio,
			status, monthly_payment, total_interest, outstanding_balance,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (id) DO UPDATE SET
			status              = EXCLUDED.status,
			outstanding_balance = EXCLUDED.outstanding_balance,
			version             = loans.version + 1,
			updated_at          = EXCLUDED.updated_at
		WHERE loans.version = $16
	`
	terms := loan.Terms()
	tag, err := tx.Exec(ctx, loanQuery,
		loan.ID(), loan.TenantID(), loan.LoanNumber(), loan.BorrowerID(),
		terms.Principal, terms.AnnualRatePercent, terms.TermMonths, terms.StartDate,
		loan.Currency(), loan.BorrowerCreditScore(), loan.BorrowerDTIRatio(),
		loan.Status().String(), loan.MonthlyPayment(), loan.TotalInterest(), loan.OutstandingBalance(),
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.New("optimistic locking conflict on loan")
	}

	entryQuery := `
		INSERT INTO schedule_entries (
			loan_id, sequence, due_date,
			principal_due, interest_due, fees_due, total_due,
			principal_paid, interest_paid, fees_paid, total_paid,
			is_paid, late_days
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (loan_id, sequence) DO UPDATE SET
			fees_due       = EXCLUDED.fees_due,
			total_due      = EXCLUDED.total_due,
			principal_paid = EXCLUDED.principal_paid,
			interest_paid  = EXCLUDED.interest_paid,
			fees_paid      = EXCLUDED.fees_paid,
			total_paid     = EXCLUDED.total_paid,
			is_paid        = EXCLUDED.is_paid,
			late_days      = EXCLUDED.late_days
	`
	for _, entry := range loan.Schedule() {
		_, err := tx.Exec(ctx, entryQuery,
			loan.ID(), entry.Sequence, entry.DueDate,
			entry.PrincipalDue, entry.InterestDue, entry.FeesDue, entry.TotalDue,
			entry.PrincipalPaid, entry.InterestPaid, entry.FeesPaid, entry.TotalPaid,
			entry.IsPaid, entry.LateDays,
		)
		if err != nil {
			return fmt.Errorf("save schedule entry %d: %w", entry.Sequence, err)
		}
	}

	return nil
}

// FindByID retrieves a loan and its schedule.
func (r *LoanRepo) FindByID(ctx context.Context, tenantID, id string) (model.Loan, error) {
	query := `SELECT` + loanColumns + `FROM loans WHERE tenant_id = $1 AND id = $2`

	loan, err := scanLoanRow(r.pool.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return model.Loan{}, err
	}
	return r.withSchedule(ctx, loan)
}

// FindByBorrowerID retrieves all loans for a borrower, newest first.
func (r *LoanRepo) FindByBorrowerID(ctx context.Context, tenantID, borrowerID string) ([]model.Loan, error) {
	query := `SELECT` + loanColumns + `
		FROM loans
		WHERE tenant_id = $1 AND borrower_id = $2
		ORDER BY created_at DESC
	`
	return r.queryLoans(ctx, query, tenantID, borrowerID)
}

// FindActive retrieves loans that still accept payments (ACTIVE or
// DELINQUENT), ordered by creation time for stable batch iteration.
func (r *LoanRepo) FindActive(ctx context.Context, tenantID string) ([]model.Loan, error) {
	query := `SELECT` + loanColumns + `
		FROM loans
		WHERE tenant_id = $1 AND status IN ('ACTIVE', 'DELINQUENT')
		ORDER BY created_at
	`
	return r.queryLoans(ctx, query, tenantID)
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *LoanRepo) queryLoans(ctx context.Context, query string, args ...any) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loan, err = r.withSchedule(ctx, loan)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (r *LoanRepo) withSchedule(ctx context.Context, loan model.Loan) (model.Loan, error) {
	schedule, err := r.loadSchedule(ctx, loan.ID())
	if err != nil {
		return model.Loan{}, err
	}
	terms := loan.Terms()
	return model.ReconstructLoan(
		loan.ID(), loan.TenantID(), loan.LoanNumber(), loan.BorrowerID(),
		terms, loan.Currency(), loan.BorrowerCreditScore(), loan.BorrowerDTIRatio(),
		loan.Status(), schedule,
		loan.MonthlyPayment(), loan.TotalInterest(), loan.OutstandingBalance(),
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	), nil
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, tenantID, loanNumber, borrowerID string
		principal, annualRatePercent         decimal.Decimal
		termMonths                           int
		startDate                            time.Time
		currency                             string
		creditScore                          int
		dtiRatio                             decimal.Decimal
		statusStr                            string
		monthlyPayment, totalInterest        decimal.Decimal
		outstandingBalance                   decimal.Decimal
		version                              int
		createdAt, updatedAt                 time.Time
	)

	err := s.Scan(
		&id, &tenantID, &loanNumber, &borrowerID,
		&principal, &annualRatePercent, &termMonths, &startDate,
		&currency, &creditScore, &dtiRatio,
		&statusStr, &monthlyPayment, &totalInterest, &outstandingBalance,
		&version, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, port.ErrLoanNotFound
	}
	if err != nil {
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}

	terms := model.LoanTerms{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermMonths:        termMonths,
		StartDate:         startDate,
	}
	return model.ReconstructLoan(
		id, tenantID, loanNumber, borrowerID,
		terms, currency, creditScore, dtiRatio,
		status, nil,
		monthlyPayment, totalInterest, outstandingBalance,
		version, createdAt, updatedAt,
	), nil
}

func (r *LoanRepo) loadSchedule(ctx context.Context, loanID string) ([]model.ScheduleEntry, error) {
	query := `
		SELECT sequence, due_date,
		       principal_due, interest_due, fees_due, total_due,
		       principal_paid, interest_paid, fees_paid, total_paid,
		       is_paid, late_days
		FROM schedule_entries
		WHERE loan_id = $1
		ORDER BY sequence
	`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var schedule []model.ScheduleEntry
	for rows.Next() {
		var e model.ScheduleEntry
		if err := rows.Scan(
			&e.Sequence, &e.DueDate,
			&e.PrincipalDue, &e.InterestDue, &e.FeesDue, &e.TotalDue,
			&e.PrincipalPaid, &e.InterestPaid, &e.FeesPaid, &e.TotalPaid,
			&e.IsPaid, &e.LateDays,
		); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		schedule = append(schedule, e)
	}
	return schedule, rows.Err()
}
