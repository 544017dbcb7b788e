package metrics

import (
	"testing"
)

func TestMetricsRegistered(t *testing.T) {
	// Register metrics explicitly (registration happens in main, not init).
	Register()
	// Safe to call again.
	Register()

	// Verify that recording does not panic.
	RecordInvocation("list_buckets", "success", 0.001)
	RecordInvocation("get_object", "error", 0.5)
	ToolInvocationsTotal.WithLabelValues("create_bucket", "success").Inc()
	ToolDuration.WithLabelValues("create_bucket").Observe(0.01)
}
