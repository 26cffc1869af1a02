package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ruler-hq/ruler/pkg/config"
	"ruler-hq/ruler/pkg/rulebook/ast"
	"ruler-hq/ruler/pkg/rulebook/manager"
	"ruler-hq/ruler/pkg/rules"
	"ruler-hq/ruler/pkg/rules/reason"
	"ruler-hq/ruler/pkg/telemetry/logging"
	"ruler-hq/ruler/pkg/telemetry/metrics"
)

const serverTaxonomy = `
reasons:
  missing_field:
    label: "Missing Required Field"
    description: "The {field_name} field is required. {field_context}"
    suggested_fix: "Provide a value for {field_name}."
  amount_exceeds_limit:
    label: "Amount Exceeds Limit"
    description: "The amount {amount} {currency} exceeds the limit of {limit} {currency}."
    suggested_fix: "Reduce the amount to {limit} {currency} or below."
`

type fakeRulebook struct {
	clauses []*ast.Clause
}

func (f *fakeRulebook) Clause(id string) (*ast.Clause, bool) {
	for _, c := range f.clauses {
		if c.ClauseID == id {
			return c, true
		}
	}
	return nil, false
}

func (f *fakeRulebook) Clauses() []*ast.Clause { return f.clauses }
func (f *fakeRulebook) Version() string        { return "test-version" }
func (f *fakeRulebook) LastLoadError() error   { return nil }

func (f *fakeRulebook) Stats() manager.RegistryStats {
	total := 0
	for _, c := range f.clauses {
		total += c.RuleCount()
	}
	return manager.RegistryStats{
		ClauseCount: len(f.clauses),
		TotalRules:  total,
		Version:     "test-version",
	}
}

func fptr(v float64) *float64 { return &v }

func testHandler(t *testing.T, clauses ...*ast.Clause) http.Handler {
	t.Helper()

	taxonomy, err := reason.ParseTaxonomy([]byte(serverTaxonomy))
	if err != nil {
		t.Fatalf("ParseTaxonomy() error = %v", err)
	}

	rulebook := &fakeRulebook{clauses: clauses}
	validator := rules.NewValidator(rulebook, reason.NewResolver(taxonomy), rules.ValidatorConfig{
		Logger: logging.Discard(),
	})

	srv := NewServer(Options{
		Config: &config.ServerConfig{
			ListenAddress:   "127.0.0.1:0",
			ShutdownTimeout: time.Second,
		},
		Metrics:   &config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Validator: validator,
		Rulebook:  rulebook,
		Collector: metrics.NewCollector("ruler", nil),
		Logger:    logging.Discard(),
	})
	return srv.Handler()
}

func taxiClause() *ast.Clause {
	return &ast.Clause{
		ClauseID: "TAXI_001",
		Category: map[string]string{"en": "Taxi"},
		Fields: []*ast.FieldDef{
			{Key: "amount", Type: "money", Required: true},
			{Key: "route", Type: "string", Required: true},
		},
		Root: &ast.RuleNode{
			Kind: ast.KindGroup,
			Children: []*ast.RuleNode{
				{Kind: ast.KindRequired, Field: "amount", Constraints: &ast.Constraints{QualifyCode: true}},
				{Kind: ast.KindRequired, Field: "route", Constraints: &ast.Constraints{QualifyCode: true}},
				{Kind: ast.KindAmountConstraint, Field: "amount", Constraints: &ast.Constraints{MaxAmountJPY: fptr(20000)}},
			},
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := testHandler(t, taxiClause())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
	rulebook := body["rulebook"].(map[string]any)
	if rulebook["clause_count"] != 1.0 {
		t.Errorf("clause_count = %v, want 1", rulebook["clause_count"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestHealthEndpoint_NoRulebook(t *testing.T) {
	handler := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 with no clauses loaded", w.Code)
	}
}

func TestListRules(t *testing.T) {
	handler := testHandler(t, taxiClause())

	req := httptest.NewRequest(http.MethodGet, "/rules", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Rules []struct {
			ClauseID            string `json:"clause_id"`
			RequiredFieldsCount int    `json:"required_fields_count"`
			RuleCount           int    `json:"rule_count"`
		} `json:"rules"`
		Count   int    `json:"count"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Count != 1 || len(body.Rules) != 1 {
		t.Fatalf("count = %d, rules = %d", body.Count, len(body.Rules))
	}
	if body.Rules[0].ClauseID != "TAXI_001" || body.Rules[0].RequiredFieldsCount != 2 {
		t.Errorf("rule = %+v", body.Rules[0])
	}
	if body.Version != "test-version" {
		t.Errorf("version = %q", body.Version)
	}
}

func TestGetRule(t *testing.T) {
	handler := testHandler(t, taxiClause())

	req := httptest.NewRequest(http.MethodGet, "/rules/TAXI_001", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		ClauseID string `json:"clause_id"`
		Fields   []struct {
			Key      string `json:"key"`
			Required bool   `json:"required"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.ClauseID != "TAXI_001" || len(body.Fields) != 2 {
		t.Errorf("body = %+v", body)
	}
}

func TestGetRule_NotFound(t *testing.T) {
	handler := testHandler(t, taxiClause())

	req := httptest.NewRequest(http.MethodGet, "/rules/NOPE_001", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDemoOptions(t *testing.T) {
	handler := testHandler(t, taxiClause())

	req := httptest.NewRequest(http.MethodGet, "/rules/TAXI_001/demo_options", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		ClauseID string `json:"clause_id"`
		Options  map[string][]struct {
			Label string `json:"label"`
			Type  string `json:"type"`
		} `json:"options"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Options["amount"]) == 0 || body.Options["amount"][0].Type != "money" {
		t.Errorf("amount options = %+v", body.Options["amount"])
	}
}

func TestEvaluate(t *testing.T) {
	handler := testHandler(t, taxiClause())

	body := `{
		"clause_id": "TAXI_001",
		"inputs": [
			{"key": "amount", "value": 35000},
			{"key": "route", "value": "Tokyo → Narita"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/rules/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result struct {
		ClauseID    string   `json:"clause_id"`
		Status      string   `json:"status"`
		Reasons     []string `json:"reasons"`
		TotalIssues int      `json:"total_issues"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Status != "NG" {
		t.Errorf("status = %q, want NG", result.Status)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != "amount_exceeds_limit" {
		t.Errorf("reasons = %v", result.Reasons)
	}
}

func TestEvaluate_Passes(t *testing.T) {
	handler := testHandler(t, taxiClause())

	body := `{
		"clause_id": "TAXI_001",
		"inputs": [
			{"key": "amount", "value": 3000},
			{"key": "route", "value": "Shinjuku → Shibuya"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/rules/evaluate", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var result struct {
		Status  string   `json:"status"`
		Reasons []string `json:"reasons"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Status != "OK" {
		t.Errorf("status = %q, want OK: %s", result.Status, w.Body.String())
	}
	if result.Reasons == nil {
		t.Error("reasons = null, want []")
	}
}

func TestEvaluate_BadRequests(t *testing.T) {
	handler := testHandler(t, taxiClause())

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"missing clause_id", `{"inputs": []}`, http.StatusBadRequest},
		{"empty input key", `{"clause_id": "TAXI_001", "inputs": [{"key": "", "value": 1}]}`, http.StatusBadRequest},
		{"unknown clause", `{"clause_id": "NOPE_001", "inputs": []}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/rules/evaluate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := testHandler(t, taxiClause())

	// Drive one request through the middleware so the request counter has
	// a sample to expose.
	warm := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), warm)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ruler_http_requests_total") {
		t.Errorf("metrics exposition missing request counter: %.200s", w.Body.String())
	}
}
