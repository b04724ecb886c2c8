// Package metrics holds the Prometheus collectors of the export pipeline
// and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace prefixes every metric name.
	Namespace = "deckforge"
)

// Export formats used as label values.
const (
	FormatPDF  = "pdf"
	FormatPPTX = "pptx"
)

// Outcomes used as label values.
const (
	OutcomeDone    = "done"
	OutcomeFailed  = "failed"
	OutcomeAborted = "aborted"
)

// Metrics holds every collector. A nil *Metrics records nothing, so
// orchestrators can run without a registry.
type Metrics struct {
	ExportsTotal       *prometheus.CounterVec
	ExportDuration     *prometheus.HistogramVec
	PagesExported      *prometheus.CounterVec
	ExportsInFlight    *prometheus.GaugeVec
	TextNodesSkipped   prometheus.Counter
	ImageFailures      *prometheus.CounterVec
	GenerationsTotal   *prometheus.CounterVec
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPRequestSeconds *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates and registers every collector on reg. A nil reg uses a fresh
// private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	m := &Metrics{gatherer: reg}

	m.ExportsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "export",
		Name:      "total",
		Help:      "Finished exports by format and outcome",
	}, []string{"format", "outcome"})
	m.ExportDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "export",
		Name:      "duration_seconds",
		Help:      "Wall time of finished exports",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"format"})
	m.PagesExported = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "export",
		Name:      "pages_total",
		Help:      "Pages committed to an export",
	}, []string{"format"})
	m.ExportsInFlight = f.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "export",
		Name:      "in_flight",
		Help:      "Exports currently running",
	}, []string{"format"})
	m.TextNodesSkipped = f.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "textlayer",
		Name:      "skipped_total",
		Help:      "Text instructions the PDF writer could not place",
	})
	m.ImageFailures = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "images",
		Name:      "failures_total",
		Help:      "Image fetches that failed",
	}, []string{"format"})
	m.GenerationsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "ai",
		Name:      "requests_total",
		Help:      "Generator calls by provider, operation and outcome",
	}, []string{"provider", "op", "outcome"})
	m.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
	m.HTTPRequestSeconds = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ExportStarted marks an export of format as running.
func (m *Metrics) ExportStarted(format string) {
	if m == nil {
		return
	}
	m.ExportsInFlight.WithLabelValues(format).Inc()
}

// ExportFinished records the outcome of an export that began at start.
func (m *Metrics) ExportFinished(format, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.ExportsInFlight.WithLabelValues(format).Dec()
	m.ExportsTotal.WithLabelValues(format, outcome).Inc()
	m.ExportDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
}

// PageCommitted counts one committed page.
func (m *Metrics) PageCommitted(format string) {
	if m == nil {
		return
	}
	m.PagesExported.WithLabelValues(format).Inc()
}

// TextSkipped counts text instructions the writer dropped.
func (m *Metrics) TextSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.TextNodesSkipped.Add(float64(n))
}

// ImageFailed counts failed image fetches.
func (m *Metrics) ImageFailed(format string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ImageFailures.WithLabelValues(format).Add(float64(n))
}

// Generation records one generator call.
func (m *Metrics) Generation(provider, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.GenerationsTotal.WithLabelValues(provider, op, outcome).Inc()
}

// Request records one HTTP request.
func (m *Metrics) Request(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
