package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_CountsOutcomes(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncUnitOutcome("updated")
	rec.IncUnitOutcome("updated")
	rec.IncSectionOutcome("stale")
	rec.AddConflicts(3)
	rec.AddConflicts(0)
	rec.ObserveBatchDuration(time.Second)
	rec.ObserveUnitDuration("updated", time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(rec.unitOutcomes.WithLabelValues("updated")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.sectionOutcomes.WithLabelValues("stale")))
	require.Equal(t, 3.0, testutil.ToFloat64(rec.conflicts))
}

func TestNopRecorder_IsSafe(t *testing.T) {
	var rec Recorder = NopRecorder{}
	rec.ObserveBatchDuration(time.Second)
	rec.ObserveUnitDuration("unchanged", time.Second)
	rec.IncUnitOutcome("unchanged")
	rec.IncSectionOutcome("new")
	rec.AddConflicts(1)
}
