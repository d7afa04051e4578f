package http

import (
	"log/slog"
	"net/http"

	"loan-amortizer/domain"
	"loan-amortizer/service"
)

type LoanHandler struct {
	responder
	service *service.LoanService
}

func NewLoanHandler(service *service.LoanService, metrics *Metrics, logger *slog.Logger) *LoanHandler {
	return &LoanHandler{responder: newResponder(logger, metrics), service: service}
}

// CalculatePayment handles POST /loan/payment.
func (h *LoanHandler) CalculatePayment(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if !h.decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.CalculatePayment(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !finite(result.YearlyPayment, result.TotalPayment, result.TotalInterest) {
		h.writeNonFinite(w, r)
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}

// CalculateSchedule handles POST /loan/schedule. Any non-finite entry makes
// the summed totals non-finite, so the totals cover the whole schedule.
func (h *LoanHandler) CalculateSchedule(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if !h.decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.CalculateSchedule(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !finite(result.YearlyPayment, result.TotalPrincipal, result.TotalInterest, result.TotalPayment) {
		h.writeNonFinite(w, r)
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}
