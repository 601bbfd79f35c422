package usecase

import (
	"context"
	"fmt"

	"github.com/microfin/lending-engine/internal/application/dto"
	"github.com/microfin/lending-engine/internal/domain/port"
)

// ListBorrowerLoansUseCase retrieves all loans held by one borrower.
type ListBorrowerLoansUseCase struct {
	loanRepo port.LoanRepository
}

// NewListBorrowerLoansUseCase wires dependencies.
func NewListBorrowerLoansUseCase(loanRepo port.LoanRepository) *ListBorrowerLoansUseCase {
	return &ListBorrowerLoansUseCase{loanRepo: loanRepo}
}

// Execute lists the borrower's loans, newest first.
func (uc *ListBorrowerLoansUseCase) Execute(
	ctx context.Context,
	req dto.ListBorrowerLoansRequest,
) ([]dto.LoanResponse, error) {
	loans, err := uc.loanRepo.FindByBorrowerID(ctx, req.TenantID, req.BorrowerID)
	if err != nil {
		return nil, fmt.Errorf("find loans for borrower: %w", err)
	}

	out := make([]dto.LoanResponse, len(loans))
	for i, loan := range loans {
		out[i] = toLoanResponse(loan)
	}
	return out, nil
}
