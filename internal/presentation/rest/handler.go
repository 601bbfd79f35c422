package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/microfin/lending-engine/internal/application/dto"
	"github.com/microfin/lending-engine/internal/application/usecase"
	"github.com/microfin/lending-engine/internal/domain/model"
	"github.com/microfin/lending-engine/internal/domain/port"
	"github.com/microfin/lending-engine/internal/domain/valueobject"
)

// LendingHandler exposes the lending use cases over HTTP.
type LendingHandler struct {
	originate     *usecase.OriginateLoanUseCase
	payment       *usecase.RecordPaymentUseCase
	penalties     *usecase.AssessPenaltiesUseCase
	scoring       *usecase.ScorePortfolioUseCase
	getLoan       *usecase.GetLoanUseCase
	borrowerLoans *usecase.ListBorrowerLoansUseCase
	logger        *slog.Logger
}

// NewLendingHandler creates the HTTP handler for the lending API.
func NewLendingHandler(
	originate *usecase.OriginateLoanUseCase,
	payment *usecase.RecordPaymentUseCase,
	penalties *usecase.AssessPenaltiesUseCase,
	scoring *usecase.ScorePortfolioUseCase,
	getLoan *usecase.GetLoanUseCase,
	borrowerLoans *usecase.ListBorrowerLoansUseCase,
	logger *slog.Logger,
) *LendingHandler {
	return &LendingHandler{
		originate:     originate,
		payment:       payment,
		penalties:     penalties,
		scoring:       scoring,
		getLoan:       getLoan,
		borrowerLoans: borrowerLoans,
		logger:        logger,
	}
}

// RegisterRoutes attaches the lending API routes to the given router.
func (h *LendingHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/loans", h.originateLoan).Methods(http.MethodPost)
	r.HandleFunc("/loans/{id}", h.handleGetLoan).Methods(http.MethodGet)
	r.HandleFunc("/loans/{id}/payments", h.recordPayment).Methods(http.MethodPost)
	r.HandleFunc("/borrowers/{id}/loans", h.listBorrowerLoans).Methods(http.MethodGet)
	r.HandleFunc("/jobs/penalty-assessment", h.assessPenalties).Methods(http.MethodPost)
	r.HandleFunc("/jobs/risk-scoring", h.scorePortfolio).Methods(http.MethodPost)
}

func (h *LendingHandler) originateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.OriginateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.originate.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "originate loan", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *LendingHandler) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	req := dto.GetLoanRequest{
		TenantID: r.URL.Query().Get("tenant_id"),
		LoanID:   mux.Vars(r)["id"],
	}

	resp, err := h.getLoan.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "get loan", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LendingHandler) listBorrowerLoans(w http.ResponseWriter, r *http.Request) {
	req := dto.ListBorrowerLoansRequest{
		TenantID:   r.URL.Query().Get("tenant_id"),
		BorrowerID: mux.Vars(r)["id"],
	}

	resp, err := h.borrowerLoans.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "list borrower loans", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LendingHandler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.LoanID = mux.Vars(r)["id"]

	resp, err := h.payment.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "record payment", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LendingHandler) assessPenalties(w http.ResponseWriter, r *http.Request) {
	var req dto.AssessPenaltiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.penalties.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "assess penalties", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LendingHandler) scorePortfolio(w http.ResponseWriter, r *http.Request) {
	var req dto.ScorePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.scoring.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "score portfolio", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// respondError maps domain and application errors to HTTP status codes.
func (h *LendingHandler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, port.ErrLoanNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, model.ErrNonPositivePayment):
		status = http.StatusBadRequest
	case errors.Is(err, valueobject.ErrInvalidStatusTransition):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(op+" failed", "error", err, "path", r.URL.Path)
		writeError(w, status, "internal error")
		return
	}
	h.logger.Warn(op+" rejected", "error", err, "path", r.URL.Path)
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
