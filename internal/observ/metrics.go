package observ

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// File outcome labels for FilesTotal.
const (
	FileOK      = "ok"
	FileCached  = "cached"
	FileTooling = "tooling"
	FileSkipped = "skipped"
)

// Metrics holds the Prometheus collectors of a lint process. All methods
// are no-ops on a nil receiver.
type Metrics struct {
	FilesTotal    *prometheus.CounterVec
	FindingsTotal *prometheus.CounterVec
	ToolingTotal  *prometheus.CounterVec
	FileDuration  prometheus.Histogram
	RunsTotal     prometheus.Counter
	RunDuration   prometheus.Histogram
	WatchEvents   prometheus.Counter
}

// NewMetrics creates and registers all collectors.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		FilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swiftstyle_files_total",
				Help: "Files processed, by outcome",
			},
			[]string{"status"},
		),
		FindingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swiftstyle_findings_total",
				Help: "Style findings reported, by rule and severity",
			},
			[]string{"rule", "severity"},
		),
		ToolingTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swiftstyle_tooling_errors_total",
				Help: "Tooling diagnostics (lex, syntax, io, config, rule), by code",
			},
			[]string{"code"},
		),
		FileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "swiftstyle_file_duration_seconds",
				Help:    "Time to lint one file",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		RunsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "swiftstyle_runs_total",
				Help: "Completed lint runs",
			},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "swiftstyle_run_duration_seconds",
				Help:    "Wall time of a lint run",
				Buckets: prometheus.DefBuckets,
			},
		),
		WatchEvents: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "swiftstyle_watch_events_total",
				Help: "File system events received by the watcher",
			},
		),
	}
	registry.MustRegister(
		m.FilesTotal,
		m.FindingsTotal,
		m.ToolingTotal,
		m.FileDuration,
		m.RunsTotal,
		m.RunDuration,
		m.WatchEvents,
	)
	return m
}

// ObserveFile records one processed file.
func (m *Metrics) ObserveFile(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.FilesTotal.WithLabelValues(status).Inc()
	if status != FileSkipped {
		m.FileDuration.Observe(dur.Seconds())
	}
}

// ObserveFinding records one style finding.
func (m *Metrics) ObserveFinding(rule, severity string) {
	if m == nil {
		return
	}
	m.FindingsTotal.WithLabelValues(rule, severity).Inc()
}

// ObserveTooling records one tooling diagnostic.
func (m *Metrics) ObserveTooling(code string) {
	if m == nil {
		return
	}
	m.ToolingTotal.WithLabelValues(code).Inc()
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(dur time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.Inc()
	m.RunDuration.Observe(dur.Seconds())
}

// ObserveWatchEvent counts one file system event.
func (m *Metrics) ObserveWatchEvent() {
	if m == nil {
		return
	}
	m.WatchEvents.Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
