package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New("audit_pipeline_test", registry)

	m.RecordSuccess("publish")
	m.RecordSuccess("publish")
	m.RecordError("publish", "precondition_failed")

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.processedTotal.WithLabelValues("success", "publish")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.processedTotal.WithLabelValues("error", "publish")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.errorsTotal.WithLabelValues("precondition_failed", "publish")))
}

func TestPrometheusMetrics_InProgressGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New("audit_pipeline_test", registry)

	m.StartOperation("analyze")
	m.StartOperation("analyze")
	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.inProgress.WithLabelValues("analyze")))

	m.EndOperation("analyze")
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.inProgress.WithLabelValues("analyze")))
}

func TestPrometheusMetrics_DurationHistogram(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New("audit_pipeline_test", registry)

	m.RecordDuration("create", 0.25)
	m.RecordDuration("create", 0.75)

	count := testutil.CollectAndCount(m.durationSeconds)
	assert.Equal(t, 1, count)
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"audit-pipeline":   "audit_pipeline",
		"audit.pipeline":   "audit_pipeline",
		"Audit Pipeline":   "audit_pipeline",
		"audit/pipeline":   "audit_pipeline",
		"already_sanitary": "already_sanitary",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, sanitize(input), "input: %q", input)
	}
}
