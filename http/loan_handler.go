package http

import (
	"net/http"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/service"
)

type LoanHandler struct {
	service *service.LoanService
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

type loanCalculationResponse struct {
	domain.Amortization
	AnnualSchedule []domain.SchedulePeriod `json:"annualSchedule"`
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var terms domain.LoanTerms
	if !decodeJSON(w, r, &terms) {
		return
	}

	result, err := h.service.CalculateLoan(r.Context(), terms)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	sendJSON(w, r, http.StatusOK, loanCalculationResponse{
		Amortization:   result,
		AnnualSchedule: finance.AnnualSchedule(result.Schedule),
	})
}

// Defaults lists the rate and term assumed for each loan purpose.
func (h *LoanHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, r, http.StatusOK, h.service.Defaults())
}
