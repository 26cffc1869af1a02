package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ruler-hq/ruler/pkg/rules"
)

// evaluateRequest is the wire shape for POST /rules/evaluate.
type evaluateRequest struct {
	ClauseID string          `json:"clause_id"`
	Inputs   []evaluateInput `json:"inputs"`
}

// evaluateInput is one submitted field value.
type evaluateInput struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// maxEvaluateBody bounds the request body size.
const maxEvaluateBody = 1 << 20

// EvaluateHandler serves POST /rules/evaluate.
type EvaluateHandler struct {
	validator *rules.Validator
	logger    *slog.Logger
}

// NewEvaluateHandler creates the evaluate handler.
func NewEvaluateHandler(validator *rules.Validator, logger *slog.Logger) *EvaluateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluateHandler{validator: validator, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *EvaluateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEvaluateBody))
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request",
			"request body must be JSON with clause_id and inputs")
		return
	}
	if req.ClauseID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "clause_id is required")
		return
	}

	inputs := make(map[string]any, len(req.Inputs))
	for _, input := range req.Inputs {
		if input.Key == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "input key must not be empty")
			return
		}
		inputs[input.Key] = input.Value
	}

	result, err := h.validator.Validate(r.Context(), req.ClauseID, inputs)
	if err != nil {
		if errors.Is(err, rules.ErrClauseNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "validation failed",
			"clause_id", req.ClauseID,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal_error",
			"validation could not be completed")
		return
	}

	h.logger.InfoContext(r.Context(), "validation completed",
		"clause_id", req.ClauseID,
		"status", result.Status,
		"total_issues", result.TotalIssues,
	)

	writeJSON(w, http.StatusOK, result)
}
