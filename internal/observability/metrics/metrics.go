package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for turn processing.
// All methods are nil-receiver safe so callers can run without metrics.
type ConversationMetrics struct {
	turnsTotal       *prometheus.CounterVec
	turnLatency      *prometheus.HistogramVec
	providerFailures *prometheus.CounterVec
	providerDisabled *prometheus.GaugeVec
	extractionsTotal *prometheus.CounterVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total processed turns",
		}, []string{"response_type", "tier"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of turn processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tier"}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "provider",
			Name:      "failures_total",
			Help:      "Total LLM provider failures",
		}, []string{"class"}),
		providerDisabled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "concierge",
			Subsystem: "provider",
			Name:      "disabled",
			Help:      "Whether the LLM provider is disabled (1) or available (0)",
		}, []string{"provider"}),
		extractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "extraction",
			Name:      "outcomes_total",
			Help:      "Field extraction outcomes",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.providerFailures, m.providerDisabled, m.extractionsTotal)
	return m
}

func (m *ConversationMetrics) ObserveTurn(responseType, tier string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(responseType, tier).Inc()
	m.turnLatency.WithLabelValues(tier).Observe(seconds)
}

func (m *ConversationMetrics) RecordProviderFailure(class string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(class).Inc()
}

func (m *ConversationMetrics) SetProviderDisabled(provider string, disabled bool) {
	if m == nil {
		return
	}
	v := 0.0
	if disabled {
		v = 1.0
	}
	m.providerDisabled.WithLabelValues(provider).Set(v)
}

func (m *ConversationMetrics) RecordExtraction(outcome string) {
	if m == nil {
		return
	}
	m.extractionsTotal.WithLabelValues(outcome).Inc()
}
