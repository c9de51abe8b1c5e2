// Package metrics exposes prometheus instrumentation of the designer session.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	namespace = "pdf_formdesigner"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Field model
	MutationsTotal *prometheus.CounterVec
	FieldsTotal    prometheus.Gauge

	// Export
	ExportsTotal       *prometheus.CounterVec
	ExportDuration     prometheus.Histogram
	ExportsStaleTotal  prometheus.Counter
	FontFallbacksTotal prometheus.Counter

	// Persistence
	PersistErrorsTotal *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	logger *zap.Logger
}

// New creates and registers all metrics with the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, nil)
}

// NewWithRegistry creates and registers all metrics with a custom registry
func NewWithRegistry(registerer prometheus.Registerer, logger *zap.Logger) *Metrics {
	factory := promauto.With(registerer)

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Metrics{
		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_mutations_total",
				Help:      "Total number of field list mutations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		FieldsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fields",
				Help:      "Current number of fields in the design",
			},
		),
		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Total number of completed exports by status",
			},
			[]string{"status"},
		),
		ExportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_duration_seconds",
				Help:      "Export duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		ExportsStaleTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_stale_total",
				Help:      "Total number of export completions dropped as superseded",
			},
		),
		FontFallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "font_fallbacks_total",
				Help:      "Total number of unsupported fonts replaced by the default font",
			},
		),
		PersistErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_errors_total",
				Help:      "Total number of failed best-effort persistence operations",
			},
			[]string{"operation"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),
		logger: logger,
	}
}

// RecordMutation counts a field mutation. changed is false for no-ops.
func (m *Metrics) RecordMutation(operation string, changed bool, err error) {
	if m == nil {
		return
	}
	outcome := "changed"
	switch {
	case err != nil:
		outcome = "rejected"
	case !changed:
		outcome = "noop"
	}
	m.safeExecute("RecordMutation", func() {
		m.MutationsTotal.WithLabelValues(operation, outcome).Inc()
	})
}

// SetFields sets the current field count
func (m *Metrics) SetFields(n int) {
	if m == nil {
		return
	}
	m.safeExecute("SetFields", func() {
		m.FieldsTotal.Set(float64(n))
	})
}

// RecordExport records a finished export
func (m *Metrics) RecordExport(duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.safeExecute("RecordExport", func() {
		m.ExportsTotal.WithLabelValues(status).Inc()
		m.ExportDuration.Observe(duration.Seconds())
	})
}

// RecordStaleExport counts a superseded export completion
func (m *Metrics) RecordStaleExport() {
	if m == nil {
		return
	}
	m.safeExecute("RecordStaleExport", func() {
		m.ExportsStaleTotal.Inc()
	})
}

// RecordFontFallbacks counts replaced fonts
func (m *Metrics) RecordFontFallbacks(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.safeExecute("RecordFontFallbacks", func() {
		m.FontFallbacksTotal.Add(float64(n))
	})
}

// RecordPersistError counts a failed persistence operation
func (m *Metrics) RecordPersistError(operation string) {
	if m == nil {
		return
	}
	m.safeExecute("RecordPersistError", func() {
		m.PersistErrorsTotal.WithLabelValues(operation).Inc()
	})
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

func (m *Metrics) safeExecute(operation string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Panic in metrics operation",
				zap.String("operation", operation),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
