package metrics

import (
	"hms/config"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	labelOperation = "operation"
	labelOutcome   = "outcome"
	labelMethod    = "method"
	labelRoute     = "route"
	labelStatus    = "status"
)

// Metrics records the service's business and transport counters.
type Metrics interface {
	ObserveHTTP(method, route string, status int, duration time.Duration)
	BookingOutcome(operation, outcome string)
	CustomerOutcome(outcome string)
	SweepPurged(count int64)
	Handler() http.Handler
}

type prometheusMetrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	bookingOutcomes *prometheus.CounterVec
	customerOutcome *prometheus.CounterVec
	sweepPurged     prometheus.Counter
}

// New registers the collectors on a dedicated registry so tests can build as many
// instances as they like.
func New(cfg *config.Config) Metrics {
	namespace := cfg.Metrics.Namespace
	registry := prometheus.NewRegistry()

	m := &prometheusMetrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{labelMethod, labelRoute, labelStatus}),
		bookingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_outcomes_total",
			Help:      "Booking lifecycle results by operation and outcome code.",
		}, []string{labelOperation, labelOutcome}),
		customerOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customer_upserts_total",
			Help:      "Customer registration results by outcome code.",
		}, []string{labelOutcome}),
		sweepPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_purged_bookings_total",
			Help:      "Checked-out bookings removed by the retention sweep.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.bookingOutcomes,
		m.customerOutcome,
		m.sweepPurged,
	)

	return m
}

func (m *prometheusMetrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (m *prometheusMetrics) BookingOutcome(operation, outcome string) {
	m.bookingOutcomes.WithLabelValues(operation, outcome).Inc()
}

func (m *prometheusMetrics) CustomerOutcome(outcome string) {
	m.customerOutcome.WithLabelValues(outcome).Inc()
}

func (m *prometheusMetrics) SweepPurged(count int64) {
	m.sweepPurged.Add(float64(count))
}

func (m *prometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

type noop struct{}

// NewNoop discards every observation. Used when METRICS_ENABLE is false and in tests.
func NewNoop() Metrics {
	return noop{}
}

func (noop) ObserveHTTP(string, string, int, time.Duration) {}

func (noop) BookingOutcome(string, string) {}

func (noop) CustomerOutcome(string) {}

func (noop) SweepPurged(int64) {}

func (noop) Handler() http.Handler {
	return http.NotFoundHandler()
}

// Provide picks the prometheus or the no-op implementation from configuration.
func Provide(cfg *config.Config) Metrics {
	if !cfg.Metrics.Enable {
		return NewNoop()
	}

	return New(cfg)
}
