package main

import (
	"bytes"
	"strings"
	"testing"
)

func resetLintFlags() {
	lintFlags.rulebook = ""
	lintFlags.taxonomy = ""
	lintFlags.strict = false
	lintFlags.format = "text"
}

func TestLintValidRulebook(t *testing.T) {
	resetLintFlags()
	lintFlags.rulebook = "testdata/valid-rulebook.yaml"
	lintFlags.taxonomy = "testdata/reasons.yaml"

	var buf bytes.Buffer
	lintCmd.SetOut(&buf)
	defer lintCmd.SetOut(nil)

	if err := lintRulebook(lintCmd, nil); err != nil {
		t.Errorf("lintRulebook() with valid rulebook returned error: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Clauses: 2") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestLintInvalidRulebook(t *testing.T) {
	resetLintFlags()
	lintFlags.rulebook = "testdata/invalid-rulebook.yaml"

	var buf bytes.Buffer
	lintCmd.SetOut(&buf)
	defer lintCmd.SetOut(nil)

	if err := lintRulebook(lintCmd, nil); err == nil {
		t.Error("lintRulebook() with invalid rulebook should return error")
	}
}

func TestLintNonexistentRulebook(t *testing.T) {
	resetLintFlags()
	lintFlags.rulebook = "testdata/nonexistent.yaml"

	var buf bytes.Buffer
	lintCmd.SetOut(&buf)
	defer lintCmd.SetOut(nil)

	if err := lintRulebook(lintCmd, nil); err == nil {
		t.Error("lintRulebook() with nonexistent file should return error")
	}
}

func TestLintMissingRulebookFlag(t *testing.T) {
	resetLintFlags()

	if err := lintRulebook(lintCmd, nil); err == nil {
		t.Error("lintRulebook() without --rulebook should return error")
	}
}

func TestLintJSONOutput(t *testing.T) {
	resetLintFlags()
	lintFlags.rulebook = "testdata/valid-rulebook.yaml"
	lintFlags.format = "json"

	var buf bytes.Buffer
	lintCmd.SetOut(&buf)
	defer lintCmd.SetOut(nil)

	if err := lintRulebook(lintCmd, nil); err != nil {
		t.Fatalf("lintRulebook() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"clause_count": 2`) {
		t.Errorf("output = %s", buf.String())
	}
}
