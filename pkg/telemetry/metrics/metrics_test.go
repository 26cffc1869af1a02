package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordValidation(t *testing.T) {
	collector := NewCollector("ruler", prometheus.NewRegistry())

	collector.Validation().RecordValidation("TRAVEL_001", "NG", 2*time.Millisecond)
	collector.Validation().RecordValidation("TRAVEL_001", "NG", 1*time.Millisecond)
	collector.Validation().RecordValidation("TRAVEL_001", "OK", 1*time.Millisecond)

	count := testutil.ToFloat64(
		collector.Validation().validationsTotal.WithLabelValues("TRAVEL_001", "NG"),
	)
	if count != 2 {
		t.Errorf("validations_total{NG} = %v, want 2", count)
	}
}

func TestCollector_RecordViolation(t *testing.T) {
	collector := NewCollector("ruler", prometheus.NewRegistry())

	collector.Validation().RecordViolation("HOTEL_001", "amount_exceeds_limit")

	count := testutil.ToFloat64(
		collector.Validation().violationsTotal.WithLabelValues("HOTEL_001", "amount_exceeds_limit"),
	)
	if count != 1 {
		t.Errorf("violations_total = %v, want 1", count)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector("ruler", prometheus.NewRegistry())
	collector.Request().RecordRequest("/rules/evaluate", "POST", "200", time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	collector.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "ruler_http_requests_total") {
		t.Error("exposition missing ruler_http_requests_total")
	}
}

func TestNewCollector_DefaultNamespace(t *testing.T) {
	collector := NewCollector("", prometheus.NewRegistry())
	if collector.namespace != "ruler" {
		t.Errorf("namespace = %q, want ruler", collector.namespace)
	}
}
