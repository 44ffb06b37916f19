package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestConversationMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)

	m.ObserveTurn("question", "pipeline", 0.25)
	m.ObserveTurn("general", "rule_based", 0.01)
	m.RecordProviderFailure("auth")
	m.SetProviderDisabled("llm", true)
	m.RecordExtraction("accepted")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	want := map[string]bool{
		"concierge_conversation_turns_total":          false,
		"concierge_conversation_turn_latency_seconds": false,
		"concierge_provider_failures_total":           false,
		"concierge_provider_disabled":                 false,
		"concierge_extraction_outcomes_total":         false,
	}
	for _, fam := range families {
		if _, ok := want[fam.GetName()]; ok {
			want[fam.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("metric %s not registered", name)
		}
	}
}

func TestConversationMetricsDisabledGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)

	m.SetProviderDisabled("llm", true)
	m.SetProviderDisabled("llm", false)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var disabled *dto.MetricFamily
	for _, fam := range families {
		if fam.GetName() == "concierge_provider_disabled" {
			disabled = fam
		}
	}
	if disabled == nil {
		t.Fatal("provider disabled gauge not found")
	}
	if got := disabled.GetMetric()[0].GetGauge().GetValue(); got != 0 {
		t.Fatalf("expected gauge 0 after re-enable, got %v", got)
	}
}

func TestConversationMetricsNilSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveTurn("question", "pipeline", 0.1)
	m.RecordProviderFailure("error")
	m.SetProviderDisabled("llm", true)
	m.RecordExtraction("empty")
}
