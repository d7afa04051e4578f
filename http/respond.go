package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"loan-amortizer/domain"
	"loan-amortizer/service"
)

// KindNonFiniteResult labels accepted inputs whose result overflowed to NaN
// or an infinity and so cannot be encoded as JSON.
const KindNonFiniteResult = "non_finite_result"

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

// responder writes JSON bodies and logs through the injected logger.
type responder struct {
	logger  *slog.Logger
	metrics *Metrics
}

func newResponder(logger *slog.Logger, metrics *Metrics) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger, metrics: metrics}
}

// decodeJSON enforces a JSON content type and rejects unknown fields.
func (rs responder) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		rs.writeJSON(w, r, http.StatusUnsupportedMediaType, errorResponse{Error: "Content-Type must be application/json"})
		return false
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		rs.logger.DebugContext(r.Context(), "invalid request body",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		rs.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func (rs responder) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		rs.logger.ErrorContext(r.Context(), "failed to encode response",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rs.logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

// writeError maps calculation errors onto status codes. Rejected parameters
// are 422; anything else is an internal failure.
func (rs responder) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var loanErr *domain.LoanError
	if errors.As(err, &loanErr) {
		rs.metrics.ObserveRejection(string(loanErr.Kind))
		rs.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: loanErr.Msg, Kind: string(loanErr.Kind)})
		return
	}

	var reqErr *service.RequestError
	if errors.As(err, &reqErr) {
		rs.metrics.ObserveRejection("invalid_request")
		rs.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: reqErr.Msg, Kind: "invalid_request", Field: reqErr.Field})
		return
	}

	rs.logger.ErrorContext(r.Context(), "calculation failed",
		"request_id", RequestIDFromContext(r.Context()),
		"error", err,
	)
	rs.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// writeNonFinite rejects a result JSON cannot represent.
func (rs responder) writeNonFinite(w http.ResponseWriter, r *http.Request) {
	rs.metrics.ObserveRejection(KindNonFiniteResult)
	rs.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
		Error: "inputs are valid but the result overflows a 64-bit float",
		Kind:  KindNonFiniteResult,
	})
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
