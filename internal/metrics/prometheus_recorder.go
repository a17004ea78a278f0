package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	batchDuration   prom.Histogram
	unitDuration    *prom.HistogramVec
	unitOutcomes    *prom.CounterVec
	sectionOutcomes *prom.CounterVec
	conflicts       prom.Counter
}

// NewPrometheusRecorder constructs and registers the pipeline metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		batchDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docgen",
			Name:      "batch_duration_seconds",
			Help:      "Total duration of one generation batch",
			Buckets:   prom.DefBuckets,
		}),
		unitDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docgen",
			Name:      "unit_duration_seconds",
			Help:      "Duration of one unit's pipeline by final status",
			Buckets:   prom.DefBuckets,
		}, []string{"status"}),
		unitOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docgen",
			Name:      "unit_outcomes_total",
			Help:      "Unit outcomes by final status",
		}, []string{"status"}),
		sectionOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docgen",
			Name:      "section_outcomes_total",
			Help:      "Section drift classifications",
		}, []string{"classification"}),
		conflicts: prom.NewCounter(prom.CounterOpts{
			Namespace: "docgen",
			Name:      "conflicts_total",
			Help:      "Sections left in conflict for human review",
		}),
	}
	reg.MustRegister(pr.batchDuration, pr.unitDuration, pr.unitOutcomes, pr.sectionOutcomes, pr.conflicts)
	return pr
}

func (p *PrometheusRecorder) ObserveBatchDuration(d time.Duration) {
	p.batchDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveUnitDuration(status string, d time.Duration) {
	p.unitDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncUnitOutcome(status string) {
	p.unitOutcomes.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncSectionOutcome(classification string) {
	p.sectionOutcomes.WithLabelValues(classification).Inc()
}

func (p *PrometheusRecorder) AddConflicts(n int) {
	if n > 0 {
		p.conflicts.Add(float64(n))
	}
}

// HTTPHandler serves the registry, for the watch-mode metrics endpoint.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
