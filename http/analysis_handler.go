package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"loan-advisor/domain"
	"loan-advisor/logger"
	"loan-advisor/render"
	"loan-advisor/service"
)

type AnalysisHandler struct {
	service *service.AnalysisService
}

func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.AnalysisInput
	if !decodeJSON(w, r, &input) {
		return
	}

	report, err := h.service.Create(r.Context(), input)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/analyses/"+report.ID)
	sendJSON(w, r, http.StatusCreated, report)
}

func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, r, http.StatusOK, report)
}

func (h *AnalysisHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.AnalysisInput
	if !decodeJSON(w, r, &input) {
		return
	}

	report, err := h.service.Recompute(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, r, http.StatusOK, report)
}

// Summary serves the printable HTML summary of an analysis.
func (h *AnalysisHandler) Summary(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	page, err := render.HTML(report)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		logger.FromContext(r.Context()).Warn("error writing summary", "error", err)
	}
}

type debtSummaryRequest struct {
	Debts []domain.DebtObligation `json:"debts"`
}

func (h *AnalysisHandler) SummarizeDebts(w http.ResponseWriter, r *http.Request) {
	var req debtSummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := h.service.SummarizeDebts(req.Debts)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, r, http.StatusOK, summary)
}
