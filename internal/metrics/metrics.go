// Package metrics defines custom Prometheus metrics for s3mcp.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// registerOnce ensures Register() is idempotent.
var registerOnce sync.Once

// Tool invocation metrics (rate, errors, duration).
var (
	// ToolInvocationsTotal counts tool invocations by tool name and outcome.
	// Status is "success" or "error"; an "error" result is still a completed
	// invocation whose payload carries the error field.
	ToolInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "s3mcp_tool_invocations_total",
			Help: "Total tool invocations",
		},
		[]string{"tool", "status"},
	)

	// ToolDuration observes tool invocation latency in seconds by tool name.
	// This is dominated by the S3 round trip.
	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "s3mcp_tool_duration_seconds",
			Help:    "Tool invocation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)
)

// Register registers all Prometheus collectors with the default registry.
// This must be called explicitly (typically from main) so that metrics
// registration can be made conditional on configuration. It is safe to call
// multiple times; subsequent calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ToolInvocationsTotal,
			ToolDuration,
		)
		// Initialize ToolInvocationsTotal so it appears in /metrics output
		// even before any tool has been invoked.
		ToolInvocationsTotal.WithLabelValues("list_buckets", "success")
	})
}

// RecordInvocation records one completed tool invocation.
func RecordInvocation(tool, status string, seconds float64) {
	ToolInvocationsTotal.WithLabelValues(tool, status).Inc()
	ToolDuration.WithLabelValues(tool).Observe(seconds)
}
