// Package metrics exposes Prometheus instrumentation: the HTTP middleware
// metrics plus the marketplace counters (swaps, points, redemptions).
// Mount Middleware on the router and Handler on GET /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector this process exports.
var Registry = prometheus.NewRegistry()

func counter(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewear", Subsystem: subsystem, Name: name, Help: help,
	}, labels)
}

func histogram(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rewear", Subsystem: subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

// HTTP surface.
var (
	requestDuration = histogram("http", "request_duration_seconds",
		"HTTP request latency.", prometheus.DefBuckets, "method", "path", "status")
	requestTotal = counter("http", "requests_total",
		"HTTP requests served.", "method", "path", "status")
	requestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rewear", Subsystem: "http", Name: "requests_in_flight",
		Help: "Requests currently being served.",
	})
	responseSize = histogram("http", "response_size_bytes",
		"Response body sizes.", []float64{100, 1_000, 10_000, 100_000, 1_000_000},
		"method", "path")
)

// Background work and caching.
var (
	queueJobs = counter("queue", "jobs_processed_total",
		"Queue jobs by result.", "status")
	queueJobDuration = histogram("queue", "job_duration_seconds",
		"Queue job processing time.", prometheus.DefBuckets, "job_type")
	CacheHits   = counter("cache", "hits_total", "Cache hits.", "driver")
	CacheMisses = counter("cache", "misses_total", "Cache misses.", "driver")
)

// Marketplace counters, bumped by the workflow services.
var (
	SwapsTotal = counter("swaps", "total",
		"Swaps by outcome.", "outcome") // rejected | cancelled | completed
	PointsIssued = counter("points", "issued_total",
		"Points credited, by transaction type.", "type")
	PointsSpent = counter("points", "spent_total",
		"Points debited, by transaction type.", "type")
	RedemptionsTotal = counter("redemptions", "total",
		"Redemptions by outcome.", "outcome")
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestDuration, requestTotal, requestInFlight, responseSize,
		queueJobs, queueJobDuration,
		CacheHits, CacheMisses,
		SwapsTotal, PointsIssued, PointsSpent, RedemptionsTotal,
	)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Middleware records duration, count, in-flight, and response size for every
// request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestInFlight.Inc()
			defer requestInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			status := strconv.Itoa(sw.status)
			requestDuration.WithLabelValues(r.Method, r.URL.Path, status).
				Observe(time.Since(start).Seconds())
			requestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			responseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(sw.bytes))
		})
	}
}

// Handler serves the scrape endpoint.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}).ServeHTTP
}

// RecordQueueJob bumps the queue counters for one processed job.
func RecordQueueJob(jobType, status string, start time.Time) {
	queueJobs.WithLabelValues(status).Inc()
	queueJobDuration.WithLabelValues(jobType).Observe(time.Since(start).Seconds())
}

// RecordPoints feeds a ledger entry into the issued/spent counters; the sign
// of amount picks the counter.
func RecordPoints(txType string, amount int) {
	if amount >= 0 {
		PointsIssued.WithLabelValues(txType).Add(float64(amount))
		return
	}
	PointsSpent.WithLabelValues(txType).Add(float64(-amount))
}
