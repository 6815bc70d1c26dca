// Package metrics exposes Prometheus collectors for fetch outcomes, crawl targets and extracted items.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeSuccess labels a fetch attempt that returned usable HTML
const OutcomeSuccess = "Success"

var (
	fetchAttemptsTotal    *prometheus.CounterVec
	fetchDurationSeconds  *prometheus.HistogramVec
	proxyRotationsTotal   prometheus.Counter
	targetsTotal          *prometheus.CounterVec
	itemsTotal            *prometheus.CounterVec
	inflightTargets       prometheus.Gauge
	rateLimitDelaySeconds prometheus.Histogram

	once sync.Once
)

// Init registers the collectors with the default registry.
// It is safe to call this function multiple times; the Observe helpers call it too.
func Init() {
	once.Do(func() {
		fetchAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkedin_fetch_attempts_total",
				Help: "Fetch attempts, labeled by outcome category.",
			},
			[]string{"category"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linkedin_fetch_duration_seconds",
				Help:    "Latency of single fetch attempts.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"category"},
		)

		proxyRotationsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "linkedin_proxy_rotations_total",
				Help: "Proxies reassigned after a rate-limited attempt.",
			},
		)

		targetsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkedin_targets_total",
				Help: "Crawl targets reaching a terminal state, labeled by task and status.",
			},
			[]string{"task", "status"},
		)

		itemsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkedin_items_total",
				Help: "Entities written to the sink, labeled by task.",
			},
			[]string{"task"},
		)

		inflightTargets = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "linkedin_inflight_targets",
				Help: "Targets currently being fetched and parsed.",
			},
		)

		rateLimitDelaySeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "linkedin_rate_limit_delay_seconds",
				Help:    "Time spent waiting on the per-host pacer.",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10},
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records one attempt and its latency under the given category
func ObserveFetch(category string, duration time.Duration) {
	Init()
	fetchAttemptsTotal.WithLabelValues(category).Inc()
	fetchDurationSeconds.WithLabelValues(category).Observe(duration.Seconds())
}

// ObserveProxyRotation counts a proxy reassignment
func ObserveProxyRotation() {
	Init()
	proxyRotationsTotal.Inc()
}

// ObserveTarget counts a target reaching status
func ObserveTarget(task, status string) {
	Init()
	targetsTotal.WithLabelValues(task, status).Inc()
}

// ObserveItems adds n written entities for task
func ObserveItems(task string, n int) {
	Init()
	if n > 0 {
		itemsTotal.WithLabelValues(task).Add(float64(n))
	}
}

// IncInflight increments the in-flight gauge.
func IncInflight() {
	Init()
	inflightTargets.Inc()
}

// DecInflight decrements the in-flight gauge.
func DecInflight() {
	Init()
	inflightTargets.Dec()
}

// ObserveRateLimitDelay records a pacing wait
func ObserveRateLimitDelay(d time.Duration) {
	Init()
	rateLimitDelaySeconds.Observe(d.Seconds())
}

// Serve exposes Handler on addr at /metrics until the server fails. Run it in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
