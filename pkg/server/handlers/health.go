package handlers

import (
	"net/http"
	"time"

	"ruler-hq/ruler/pkg/rulebook/manager"
)

// RulebookInfo reports the state of the loaded rulebook. The rulebook
// manager satisfies it.
type RulebookInfo interface {
	Version() string
	Stats() manager.RegistryStats
	LastLoadError() error
}

// HealthHandler reports service liveness and rulebook state.
type HealthHandler struct {
	rulebook RulebookInfo
}

// NewHealthHandler creates a health check handler.
func NewHealthHandler(rulebook RulebookInfo) *HealthHandler {
	return &HealthHandler{rulebook: rulebook}
}

// ServeHTTP implements http.Handler. The service is healthy when a
// rulebook is loaded; a failed reload that kept the previous rules still
// reports healthy with the load error attached.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats := h.rulebook.Stats()

	response := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"rulebook": map[string]any{
			"version":      h.rulebook.Version(),
			"clause_count": stats.ClauseCount,
			"rule_count":   stats.TotalRules,
		},
	}

	status := http.StatusOK
	if stats.ClauseCount == 0 {
		response["status"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := h.rulebook.LastLoadError(); err != nil {
		response["last_load_error"] = err.Error()
	}

	writeJSON(w, status, response)
}
