// Package metrics defines the observability hooks of the generation
// pipeline. The default recorder does nothing; watch mode wires the
// Prometheus implementation and serves it over HTTP.
package metrics

import "time"

// Recorder receives pipeline observations. All methods must be cheap and
// safe to call from concurrent unit workers.
type Recorder interface {
	ObserveBatchDuration(d time.Duration)
	ObserveUnitDuration(status string, d time.Duration)
	IncUnitOutcome(status string)
	IncSectionOutcome(classification string)
	AddConflicts(n int)
}

// NopRecorder is the default Recorder when metrics are not configured.
type NopRecorder struct{}

func (NopRecorder) ObserveBatchDuration(time.Duration)        {}
func (NopRecorder) ObserveUnitDuration(string, time.Duration) {}
func (NopRecorder) IncUnitOutcome(string)                     {}
func (NopRecorder) IncSectionOutcome(string)                  {}
func (NopRecorder) AddConflicts(int)                          {}
