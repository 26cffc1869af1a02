package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "server.listen_address",
		Message: "missing required field",
	}

	expected := "config error in server.listen_address: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConfigError_NoField(t *testing.T) {
	err := NewConfigError("", "failed to load config")
	if err.Error() != "config error: failed to load config" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := NewCommandError("run", underlying)

	expected := "command run failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should unwrap CommandError")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  OutputFormat
		wantErr bool
	}{
		{FormatText, false},
		{FormatJSON, false},
		{"", false},
		{"csv", true},
	}

	for _, tt := range tests {
		_, err := NewFormatter(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewFormatter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{Indent: true}

	var buf bytes.Buffer
	data := map[string]any{"clause_id": "TAXI_001", "valid": true}
	if err := f.FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"clause_id": "TAXI_001"`) {
		t.Errorf("output = %s", out)
	}
}

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{}

	var buf bytes.Buffer
	if err := f.FormatTo(&buf, "3 clauses loaded"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "3 clauses loaded\n" {
		t.Errorf("output = %q", buf.String())
	}
}
