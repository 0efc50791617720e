package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry          *prometheus.Registry
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	errors            *prometheus.CounterVec
	ordersIssued      *prometheus.CounterVec
	purchasesRecorded *prometheus.CounterVec
	signatureFailures prometheus.Counter
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of handled HTTP requests",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken to handle HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Number of error responses by error code",
		}, []string{"route", "method", "code"}),
		ordersIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_orders_issued_total",
			Help: "Number of payment orders issued",
		}, []string{"mode"}),
		purchasesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_purchases_recorded_total",
			Help: "Number of purchases recorded",
		}, []string{"mode"}),
		signatureFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkout_signature_failures_total",
			Help: "Number of rejected payment completion callbacks",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.errors,
		m.ordersIssued,
		m.purchasesRecorded,
		m.signatureFailures,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// OrderIssued counts an order by mode ("gateway" or "demo").
func (m *Metrics) OrderIssued(mode string) {
	if m == nil {
		return
	}
	m.ordersIssued.WithLabelValues(mode).Inc()
}

// PurchaseRecorded counts a committed purchase by mode.
func (m *Metrics) PurchaseRecorded(mode string) {
	if m == nil {
		return
	}
	m.purchasesRecorded.WithLabelValues(mode).Inc()
}

// SignatureRejected counts a failed callback verification.
func (m *Metrics) SignatureRejected() {
	if m == nil {
		return
	}
	m.signatureFailures.Inc()
}
