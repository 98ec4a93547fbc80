// Package telemetry exposes turn and generation metrics over prometheus.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jurema-br/nino/config"
)

// Telemetry owns the metric registry. A disabled instance records nothing and
// serves an empty registry, so call sites never branch.
type Telemetry struct {
	enabled  bool
	registry *prometheus.Registry

	turnsTotal         *prometheus.CounterVec
	generationDuration prometheus.Histogram
	historyFailures    prometheus.Counter
}

func New(cfg config.TelemetryConfig) *Telemetry {
	registry := prometheus.NewRegistry()
	t := &Telemetry{
		enabled:  cfg.Enabled,
		registry: registry,
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nino",
			Name:      "turns_total",
			Help:      "Chat turns by consultation type and outcome.",
		}, []string{"consultation_type", "outcome"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nino",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of model generations.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 180},
		}),
		historyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nino",
			Name:      "history_failures_total",
			Help:      "Best-effort history operations that failed.",
		}),
	}
	if cfg.Enabled {
		registry.MustRegister(t.turnsTotal, t.generationDuration, t.historyFailures)
	}
	return t
}

// Handler serves the registry for mounting at /metrics.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// RecordTurn counts a finished turn. Outcome is one of "ok", "validation",
// "missing_slot", "generation", "generation_timeout", "canceled".
func (t *Telemetry) RecordTurn(consultationType, outcome string) {
	if !t.enabled {
		return
	}
	t.turnsTotal.WithLabelValues(consultationType, outcome).Inc()
}

// RecordGeneration observes a completed generation's duration.
func (t *Telemetry) RecordGeneration(d time.Duration) {
	if !t.enabled {
		return
	}
	t.generationDuration.Observe(d.Seconds())
}

// RecordHistoryFailure counts an absorbed history store fault.
func (t *Telemetry) RecordHistoryFailure() {
	if !t.enabled {
		return
	}
	t.historyFailures.Inc()
}
