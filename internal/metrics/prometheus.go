package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	processed   *prom.CounterVec
	updated     *prom.CounterVec
	skipped     *prom.CounterVec
	runDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		processed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wikiblocks",
			Name:      "pages_processed_total",
			Help:      "Pages read by a pipeline",
		}, []string{"feature"}),
		updated: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wikiblocks",
			Name:      "pages_updated_total",
			Help:      "Pages whose managed block was written",
		}, []string{"feature"}),
		skipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wikiblocks",
			Name:      "pages_skipped_total",
			Help:      "Pages without placeholder or managed block",
		}, []string{"feature"}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "wikiblocks",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full pipeline run",
			Buckets:   prom.DefBuckets,
		}, []string{"feature"}),
	}
	reg.MustRegister(pr.processed, pr.updated, pr.skipped, pr.runDuration)
	return pr
}

func (p *PrometheusRecorder) IncProcessed(f Feature) {
	p.processed.WithLabelValues(string(f)).Inc()
}

func (p *PrometheusRecorder) IncUpdated(f Feature) {
	p.updated.WithLabelValues(string(f)).Inc()
}

func (p *PrometheusRecorder) IncSkipped(f Feature) {
	p.skipped.WithLabelValues(string(f)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(f Feature, d time.Duration) {
	p.runDuration.WithLabelValues(string(f)).Observe(d.Seconds())
}

// HTTPHandler serves the metrics in reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
