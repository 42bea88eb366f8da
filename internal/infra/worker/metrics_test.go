package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewWorkerMetrics_SharedCollectors(t *testing.T) {
	a := NewWorkerMetrics()
	b := NewWorkerMetrics()

	assert.Same(t, a.RunsTotal, b.RunsTotal)
	assert.Same(t, a.ItemsDeliveredTotal, b.ItemsDeliveredTotal)
}

func TestWorkerMetrics_RecordRun(t *testing.T) {
	m := NewWorkerMetrics()
	success := m.RunsTotal.WithLabelValues("success")
	failure := m.RunsTotal.WithLabelValues("failure")
	sBefore, fBefore := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	m.RecordRun("success", 12)
	m.RecordRun("failure", 3)

	assert.Equal(t, sBefore+1, testutil.ToFloat64(success))
	assert.Equal(t, fBefore+1, testutil.ToFloat64(failure))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccessTimestamp), 0.0)
}

func TestWorkerMetrics_RecordItem(t *testing.T) {
	m := NewWorkerMetrics()
	counter := m.ItemsDeliveredTotal.WithLabelValues("hi", "degraded")
	before := testutil.ToFloat64(counter)

	m.RecordItem("hi", "degraded")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
