package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tool metrics
	ToolExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_tool_executions_total",
			Help: "Total number of tool executions",
		},
		[]string{"tool", "status"}, // status: success|error
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_tool_duration_seconds",
			Help:    "Tool execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tool"},
	)

	// Provider metrics
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_provider_calls_total",
			Help: "Total number of provider calls",
		},
		[]string{"provider", "operation", "status"}, // operation: quote|execute|create_token|balance|price
	)

	QuoteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_quote_latency_seconds",
			Help:    "Provider quote latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider"},
	)

	// Agent metrics
	AgentRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_agent_requests_total",
			Help: "Total number of agent requests",
		},
		[]string{"status"}, // status: success|error
	)

	AgentTurns = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_agent_turns",
			Help:    "Model round-trips per agent request",
			Buckets: []float64{1, 2, 3, 4, 5, 8, 10},
		},
		[]string{"model"},
	)
)

func init() {
	prometheus.MustRegister(
		ToolExecutions,
		ToolDuration,
		ProviderCalls,
		QuoteLatency,
		AgentRequests,
		AgentTurns,
	)
}

// ObserveQuote records the outcome and latency of one provider quote call.
func ObserveQuote(provider string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ProviderCalls.WithLabelValues(provider, "quote", status).Inc()
	QuoteLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveProviderCall records a non-quote provider call outcome.
func ObserveProviderCall(provider, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ProviderCalls.WithLabelValues(provider, operation, status).Inc()
}

// ObserveTool records one tool execution.
func ObserveTool(tool string, d time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	ToolExecutions.WithLabelValues(tool, status).Inc()
	ToolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
