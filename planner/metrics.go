package planner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records Prometheus metrics for plan requests.
//
// All metrics use the "warplan" namespace:
//
//	warplan_plan_requests_total{provider,status}   counter
//	warplan_plan_latency_ms{provider,status}       histogram
//	warplan_llm_tokens_total{provider,direction}   counter (direction: input, output)
//	warplan_plan_steps                             histogram
//	warplan_llm_cost_usd_total{model}              counter
//
// status is "success", "invalid" or "error".
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
	steps    prometheus.Histogram
	cost     *prometheus.CounterVec
}

// Request outcomes used for the status label.
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// NewMetrics registers the planner metrics with registry. A nil registry
// uses prometheus.DefaultRegisterer. Registering twice with the same
// registry panics, as with any promauto collector.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warplan",
			Name:      "plan_requests_total",
			Help:      "Plan requests by provider and outcome",
		}, []string{"provider", "status"}),

		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "warplan",
			Name:      "plan_latency_ms",
			Help:      "End-to-end plan request duration in milliseconds",
			Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"provider", "status"}),

		tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warplan",
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by plan requests",
		}, []string{"provider", "direction"}),

		steps: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "warplan",
			Name:      "plan_steps",
			Help:      "Number of steps in accepted plans",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),

		cost: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warplan",
			Name:      "llm_cost_usd_total",
			Help:      "Estimated LLM spend in USD",
		}, []string{"model"}),
	}
}

// RecordRequest records the outcome and latency of one plan request.
func (m *Metrics) RecordRequest(provider, status string, latency time.Duration) {
	m.requests.WithLabelValues(provider, status).Inc()
	m.latency.WithLabelValues(provider, status).Observe(float64(latency.Milliseconds()))
}

// RecordTokens adds token usage for provider.
func (m *Metrics) RecordTokens(provider string, input, output int) {
	m.tokens.WithLabelValues(provider, "input").Add(float64(input))
	m.tokens.WithLabelValues(provider, "output").Add(float64(output))
}

// RecordSteps observes the step count of an accepted plan.
func (m *Metrics) RecordSteps(n int) {
	m.steps.Observe(float64(n))
}

// RecordCost adds estimated spend for model.
func (m *Metrics) RecordCost(model string, usd float64) {
	if usd <= 0 {
		return
	}
	m.cost.WithLabelValues(model).Add(usd)
}
