// Package metrics exposes Prometheus metrics for the dashboard server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job-order outcome label values.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeEmpty     = "empty"
)

// Metrics holds all dashboard metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Directory metrics
	FilterChanges *prometheus.CounterVec
	NAPSelections prometheus.Counter

	// Reservation metrics
	JobOrders      *prometheus.CounterVec
	UnitsReserved  *prometheus.CounterVec
	StockAvailable *prometheus.GaugeVec

	// Live update metrics
	WebsocketClients prometheus.Gauge
}

// Config holds metrics configuration
type Config struct {
	Namespace string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig() *Config {
	return &Config{Namespace: "opsdash"}
}

// New creates a new Metrics instance backed by its own registry.
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	m.FilterChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "directory_filter_changes_total",
			Help:      "Total number of NAP directory filter changes",
		},
		[]string{"field"},
	)

	m.NAPSelections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "directory_selections_total",
			Help:      "Total number of accepted NAP row activations",
		},
	)

	m.JobOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "job_orders_total",
			Help:      "Total number of job-order submissions by outcome",
		},
		[]string{"outcome"},
	)

	m.UnitsReserved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "stock_units_reserved_total",
			Help:      "Total number of stock units reserved by committed job orders",
		},
		[]string{"item"},
	)

	m.StockAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "stock_available_units",
			Help:      "Units available for reservation per stock item",
		},
		[]string{"item"},
	)

	m.WebsocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected live-update clients",
		},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.FilterChanges,
		m.NAPSelections,
		m.JobOrders,
		m.UnitsReserved,
		m.StockAvailable,
		m.WebsocketClients,
	)

	return m
}

// Handler returns an HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}

// RecordFilterChange records a directory filter change
func (m *Metrics) RecordFilterChange(field string) {
	m.FilterChanges.WithLabelValues(field).Inc()
}

// RecordSelection records an accepted row activation
func (m *Metrics) RecordSelection() {
	m.NAPSelections.Inc()
}

// RecordJobOrder records a job-order submission outcome
func (m *Metrics) RecordJobOrder(outcome string) {
	m.JobOrders.WithLabelValues(outcome).Inc()
}

// RecordUnitsReserved adds committed units for a stock item
func (m *Metrics) RecordUnitsReserved(item string, units int) {
	m.UnitsReserved.WithLabelValues(item).Add(float64(units))
}

// SetStockAvailable sets the available units of a stock item
func (m *Metrics) SetStockAvailable(item string, units int) {
	m.StockAvailable.WithLabelValues(item).Set(float64(units))
}

// SetWebsocketClients sets the number of connected live-update clients
func (m *Metrics) SetWebsocketClients(n int) {
	m.WebsocketClients.Set(float64(n))
}
