package http

import (
	"log/slog"
	"net/http"

	"loan-amortizer/domain"
	"loan-amortizer/service"
)

type TermRecommendationHandler struct {
	responder
	service *service.TermRecommendationService
}

func NewTermRecommendationHandler(service *service.TermRecommendationService, metrics *Metrics, logger *slog.Logger) *TermRecommendationHandler {
	return &TermRecommendationHandler{responder: newResponder(logger, metrics), service: service}
}

// RecommendTerm handles POST /loan/recommend-term.
func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	var input domain.TermRecommendationInput
	if !h.decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.RecommendTerm(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}
