package manager

import (
	"os"
	"path/filepath"
	"testing"

	"ruler-hq/ruler/pkg/rulebook/ast"
	"ruler-hq/ruler/pkg/rulebook/parser"
	"ruler-hq/ruler/pkg/telemetry/logging"
)

const validRulebook = `
version: "1.0"
rules:
  - clause_id: "MEAL_001"
    expense_category:
      en: "Meals"
    required_fields:
      inputs:
        - key: "amount"
          type: "money"
          required: true
    validation_rules:
      amount_constraints:
        per_person_max_amount_jpy: 5000
`

const secondRulebook = `
version: "1.0"
rules:
  - clause_id: "TAXI_001"
    required_fields:
      inputs:
        - key: "amount"
          type: "money"
          required: true
`

func writeRulebook(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write rulebook: %v", err)
	}
	return path
}

func newTestManager(t *testing.T, path string) *RulebookManager {
	t.Helper()
	mgr, err := NewRulebookManager(&Config{Path: path}, parser.NewParser(), logging.Discard())
	if err != nil {
		t.Fatalf("NewRulebookManager() failed: %v", err)
	}
	return mgr
}

func TestRulebookManager_Load_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeRulebook(t, dir, "meals.yaml", validRulebook)

	mgr := newTestManager(t, path)
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	clause, ok := mgr.Clause("MEAL_001")
	if !ok {
		t.Fatal("Clause(MEAL_001) not found")
	}
	if clause.CategoryName() != "Meals" {
		t.Errorf("CategoryName() = %q, want Meals", clause.CategoryName())
	}
	if mgr.Version() == "" {
		t.Error("Version() is empty after load")
	}
}

func TestRulebookManager_Load_Directory(t *testing.T) {
	dir := t.TempDir()
	writeRulebook(t, dir, "01_meals.yaml", validRulebook)
	writeRulebook(t, dir, "02_taxi.yaml", secondRulebook)

	mgr := newTestManager(t, dir)
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	ids := mgr.ClauseIDs()
	want := []string{"MEAL_001", "TAXI_001"}
	if len(ids) != len(want) {
		t.Fatalf("ClauseIDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ClauseIDs()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestRulebookManager_Reload_KeepsPreviousOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeRulebook(t, dir, "meals.yaml", validRulebook)

	mgr := newTestManager(t, path)
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	versionBefore := mgr.Version()

	// Corrupt the rulebook and attempt a reload.
	writeRulebook(t, dir, "meals.yaml", "rules: [broken")
	if err := mgr.Reload(); err == nil {
		t.Fatal("Reload() succeeded, want parse error")
	}

	if _, ok := mgr.Clause("MEAL_001"); !ok {
		t.Error("previous clause set lost after failed reload")
	}
	if mgr.Version() != versionBefore {
		t.Error("registry version changed after failed reload")
	}
	if mgr.LastLoadError() == nil {
		t.Error("LastLoadError() = nil after failed reload")
	}
}

func TestRulebookManager_Reload_AppliesNewClauses(t *testing.T) {
	dir := t.TempDir()
	path := writeRulebook(t, dir, "meals.yaml", validRulebook)

	mgr := newTestManager(t, path)
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	hookCalled := false
	mgr.OnReload(func() { hookCalled = true })

	writeRulebook(t, dir, "meals.yaml", secondRulebook)
	if err := mgr.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	if _, ok := mgr.Clause("TAXI_001"); !ok {
		t.Error("Clause(TAXI_001) not found after reload")
	}
	if _, ok := mgr.Clause("MEAL_001"); ok {
		t.Error("Clause(MEAL_001) still present after reload")
	}
	if !hookCalled {
		t.Error("reload hook not invoked")
	}
}

func TestClauseRegistry_Replace(t *testing.T) {
	registry := NewClauseRegistry()

	clauses := []*ast.Clause{
		{ClauseID: "A_001", Root: &ast.RuleNode{Kind: ast.KindGroup}},
		{ClauseID: "B_001", Root: &ast.RuleNode{Kind: ast.KindGroup}},
	}
	if err := registry.Replace(clauses); err != nil {
		t.Fatalf("Replace() failed: %v", err)
	}

	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}

	v1 := registry.Version()
	if v1 == "" {
		t.Fatal("Version() empty after replace")
	}

	if err := registry.Replace(clauses[:1]); err != nil {
		t.Fatalf("Replace() failed: %v", err)
	}
	if registry.Version() == v1 {
		t.Error("Version() unchanged after clause set changed")
	}
	if registry.Has("B_001") {
		t.Error("Has(B_001) = true after removal")
	}
}

func TestClauseRegistry_Replace_Rejections(t *testing.T) {
	registry := NewClauseRegistry()

	tests := []struct {
		name    string
		clauses []*ast.Clause
	}{
		{"nil clause", []*ast.Clause{nil}},
		{"empty ID", []*ast.Clause{{ClauseID: ""}}},
		{"duplicate ID", []*ast.Clause{{ClauseID: "X"}, {ClauseID: "X"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := registry.Replace(tt.clauses); err == nil {
				t.Error("Replace() succeeded, want error")
			}
		})
	}
}

func TestRulebookLoader_RejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeRulebook(t, dir, "meals.yaml", validRulebook)

	config := DefaultLoaderConfig()
	config.MaxFileSize = 8
	loader := NewRulebookLoader(config, parser.NewParser())

	if _, err := loader.LoadFromFile(path); err == nil {
		t.Fatal("LoadFromFile() succeeded, want size error")
	}
}

func TestRulebookLoader_SkipsHiddenAndForeignFiles(t *testing.T) {
	dir := t.TempDir()
	writeRulebook(t, dir, "meals.yaml", validRulebook)
	writeRulebook(t, dir, ".hidden.yaml", "rules: [broken")
	writeRulebook(t, dir, "notes.txt", "not a rulebook")

	loader := NewRulebookLoader(nil, parser.NewParser())
	clauses, err := loader.LoadClauses(dir)
	if err != nil {
		t.Fatalf("LoadClauses() failed: %v", err)
	}
	if len(clauses) != 1 {
		t.Errorf("len(clauses) = %d, want 1", len(clauses))
	}
}
