// Package metrics records pipeline activity.
package metrics

import "time"

// Feature labels a pipeline.
type Feature string

const (
	FeatureTOC       Feature = "toc"
	FeatureBacklinks Feature = "backlinks"
)

// Recorder receives per-page and per-run observations from the runner.
type Recorder interface {
	IncProcessed(f Feature)
	IncUpdated(f Feature)
	IncSkipped(f Feature)
	ObserveRunDuration(f Feature, d time.Duration)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) IncProcessed(Feature)                      {}
func (NoopRecorder) IncUpdated(Feature)                        {}
func (NoopRecorder) IncSkipped(Feature)                        {}
func (NoopRecorder) ObserveRunDuration(Feature, time.Duration) {}
