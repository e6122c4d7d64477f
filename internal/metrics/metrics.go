// Package metrics exposes Prometheus collectors for the scraper service.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchTotal                 *prometheus.CounterVec
	fetchBytesTotal            *prometheus.CounterVec
	fetchDurationSeconds       *prometheus.HistogramVec
	extractionTotal            *prometheus.CounterVec
	resultsTotal               *prometheus.CounterVec
	runDurationSeconds         prometheus.Histogram
	activeFetches              prometheus.Gauge
	slotWaitSeconds            prometheus.Histogram
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_fetch_total",
				Help: "Total number of fetches, labeled by site and outcome.",
			},
			[]string{"site", "outcome"},
		)

		fetchBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_fetch_bytes_total",
				Help: "Total number of body bytes fetched, labeled by site.",
			},
			[]string{"site"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scraper_fetch_duration_seconds",
				Help:    "Histogram of fetch latencies, labeled by outcome.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 12, 30},
			},
			[]string{"outcome"},
		)

		extractionTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_extraction_total",
				Help: "Total number of extractions, labeled by the stage that produced text (or none).",
			},
			[]string{"stage"},
		)

		resultsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_results_total",
				Help: "Total number of per-URL results, labeled by status and error kind.",
			},
			[]string{"status", "kind"},
		)

		runDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scraper_run_duration_seconds",
				Help:    "Histogram of whole-batch run durations.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
			},
		)

		activeFetches = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "scraper_active_fetches",
				Help: "Number of fetch slots currently held.",
			},
		)

		slotWaitSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scraper_slot_wait_seconds",
				Help:    "Histogram of time spent waiting for a fetch slot.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
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
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveFetch records a fetch outcome ("success" or an error kind) for a URL.
func ObserveFetch(rawURL, outcome string, bytesFetched int, duration time.Duration) {
	Init()
	site := SanitizeSite(rawURL)
	fetchTotal.WithLabelValues(site, outcome).Inc()
	fetchDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
	if bytesFetched > 0 {
		fetchBytesTotal.WithLabelValues(site).Add(float64(bytesFetched))
	}
}

// ObserveExtraction records which extraction stage produced text; "none" when all failed.
func ObserveExtraction(stage string) {
	Init()
	extractionTotal.WithLabelValues(stage).Inc()
}

// ObserveResult counts a terminal per-URL result.
func ObserveResult(status, kind string) {
	Init()
	resultsTotal.WithLabelValues(status, kind).Inc()
}

// ObserveRun records the duration of a whole batch.
func ObserveRun(duration time.Duration) {
	Init()
	runDurationSeconds.Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncActiveFetches increments the held fetch slots gauge.
func IncActiveFetches() {
	Init()
	activeFetches.Inc()
}

// DecActiveFetches decrements the held fetch slots gauge.
func DecActiveFetches() {
	Init()
	activeFetches.Dec()
}

// ObserveSlotWait records how long a task waited for a fetch slot.
func ObserveSlotWait(duration time.Duration) {
	Init()
	slotWaitSeconds.Observe(duration.Seconds())
}
