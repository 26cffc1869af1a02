package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("test message", "clause_id", "TRAVEL_001")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "test message" {
		t.Errorf("msg = %v, want test message", record["msg"])
	}
	if record["clause_id"] != "TRAVEL_001" {
		t.Errorf("clause_id = %v, want TRAVEL_001", record["clause_id"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record missing")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("New() accepted unknown level")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New() accepted unknown format")
	}
}

func TestParseLevel_Defaults(t *testing.T) {
	level, err := parseLevel("")
	if err != nil {
		t.Fatalf("parseLevel(\"\") failed: %v", err)
	}
	if level != slog.LevelInfo {
		t.Errorf("default level = %v, want info", level)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithClauseID(ctx, "HOTEL_001")

	FromContext(ctx, logger).Info("scoped")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["request_id"] != "req-123" {
		t.Errorf("request_id = %v, want req-123", record["request_id"])
	}
	if record["clause_id"] != "HOTEL_001" {
		t.Errorf("clause_id = %v, want HOTEL_001", record["clause_id"])
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}
}
