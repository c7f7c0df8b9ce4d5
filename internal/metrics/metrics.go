// Package metrics exposes Prometheus collectors for the report service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	uploadsTotal               *prometheus.CounterVec
	reportItemsTotal           prometheus.Counter
	reportBuildSeconds         prometheus.Histogram
	groupsBelowThreshold       prometheus.Gauge
	reportsStored              prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Upload results.
const (
	ResultCreated  = "created"
	ResultCached   = "cached"
	ResultRejected = "rejected"
	ResultInvalid  = "invalid"
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		uploadsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitectl_uploads_total",
				Help: "Total number of dataset uploads, labeled by result.",
			},
			[]string{"result"},
		)

		reportItemsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sitectl_report_items_total",
				Help: "Total number of work items processed into reports.",
			},
		)

		reportBuildSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sitectl_report_build_seconds",
				Help:    "Histogram of report build durations.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		)

		groupsBelowThreshold = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sitectl_groups_below_threshold",
				Help: "Number of groups below the alert threshold in the latest report.",
			},
		)

		reportsStored = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sitectl_reports_stored",
				Help: "Number of reports held in memory.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveUpload counts an upload by result.
func ObserveUpload(result string) {
	Init()
	uploadsTotal.WithLabelValues(result).Inc()
}

// ObserveReport records a freshly built report.
func ObserveReport(items, alerts int, duration time.Duration) {
	Init()
	reportItemsTotal.Add(float64(items))
	reportBuildSeconds.Observe(duration.Seconds())
	groupsBelowThreshold.Set(float64(alerts))
}

// SetReportsStored records the current store size.
func SetReportsStored(n int) {
	Init()
	reportsStored.Set(float64(n))
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
