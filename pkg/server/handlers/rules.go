package handlers

import (
	"net/http"

	"ruler-hq/ruler/pkg/rulebook/ast"
	"ruler-hq/ruler/pkg/rules"
)

// clauseSummary is the listing shape for one clause.
type clauseSummary struct {
	ClauseID            string            `json:"clause_id"`
	Category            map[string]string `json:"expense_category"`
	RequiredFieldsCount int               `json:"required_fields_count"`
	RuleCount           int               `json:"rule_count"`
}

// fieldDetail is the wire shape for one declared input field.
type fieldDetail struct {
	Key           string            `json:"key"`
	Type          string            `json:"type"`
	Required      bool              `json:"required"`
	Label         map[string]string `json:"label,omitempty"`
	AllowedValues []string          `json:"allowed_values,omitempty"`
	Description   string            `json:"description,omitempty"`
}

// clauseDetail is the full shape for one clause.
type clauseDetail struct {
	ClauseID   string            `json:"clause_id"`
	Category   map[string]string `json:"expense_category"`
	Fields     []fieldDetail     `json:"fields"`
	RuleCount  int               `json:"rule_count"`
	SourceFile string            `json:"source_file,omitempty"`
}

// RulesHandler serves the clause listing and detail endpoints.
type RulesHandler struct {
	validator *rules.Validator
	rulebook  RulebookInfo
}

// NewRulesHandler creates the rules handler.
func NewRulesHandler(validator *rules.Validator, rulebook RulebookInfo) *RulesHandler {
	return &RulesHandler{validator: validator, rulebook: rulebook}
}

// List serves GET /rules.
func (h *RulesHandler) List(w http.ResponseWriter, r *http.Request) {
	clauses := h.validator.Clauses()

	summaries := make([]clauseSummary, 0, len(clauses))
	for _, clause := range clauses {
		summaries = append(summaries, clauseSummary{
			ClauseID:            clause.ClauseID,
			Category:            clause.Category,
			RequiredFieldsCount: len(clause.RequiredFields()),
			RuleCount:           clause.RuleCount(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rules":   summaries,
		"count":   len(summaries),
		"version": h.rulebook.Version(),
	})
}

// Get serves GET /rules/{clause_id}.
func (h *RulesHandler) Get(w http.ResponseWriter, r *http.Request) {
	clause, err := h.validator.LookupClause(r.PathValue("clause_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, clauseToDetail(clause))
}

// DemoOptions serves GET /rules/{clause_id}/demo_options.
func (h *RulesHandler) DemoOptions(w http.ResponseWriter, r *http.Request) {
	clause, err := h.validator.LookupClause(r.PathValue("clause_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"clause_id": clause.ClauseID,
		"options":   rules.BuildDemoOptions(clause),
	})
}

func clauseToDetail(clause *ast.Clause) clauseDetail {
	fields := make([]fieldDetail, 0, len(clause.Fields))
	for _, f := range clause.Fields {
		fields = append(fields, fieldDetail{
			Key:           f.Key,
			Type:          f.Type,
			Required:      f.Required,
			Label:         f.Label,
			AllowedValues: f.AllowedValues,
			Description:   f.Description,
		})
	}

	return clauseDetail{
		ClauseID:   clause.ClauseID,
		Category:   clause.Category,
		Fields:     fields,
		RuleCount:  clause.RuleCount(),
		SourceFile: clause.SourceFile,
	}
}
