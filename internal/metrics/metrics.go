package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives ledger events from the service layer.
type Recorder interface {
	Operation(name string, err error)
	Settled(invoices int, value uint64)
	Withdrawn(value uint64)
	Minted(value uint64)
}

// Metrics holds the Prometheus collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	operations     *prometheus.CounterVec
	invoices       prometheus.Counter
	settledValue   prometheus.Counter
	withdrawnValue prometheus.Counter
	mintedValue    prometheus.Counter
}

// New builds and registers the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "restaurant_ledger",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restaurant_ledger",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "restaurant_ledger",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}, []string{"method", "route"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restaurant_ledger",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by name and outcome.",
		}, []string{"operation", "result"}),
		invoices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "restaurant_ledger",
			Subsystem: "ledger",
			Name:      "invoices_issued_total",
			Help:      "Invoices minted by purchases.",
		}),
		settledValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "restaurant_ledger",
			Subsystem: "ledger",
			Name:      "settled_value_total",
			Help:      "Token value moved from buyers into restaurant balances.",
		}),
		withdrawnValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "restaurant_ledger",
			Subsystem: "ledger",
			Name:      "withdrawn_value_total",
			Help:      "Token value withdrawn from restaurant balances.",
		}),
		mintedValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "restaurant_ledger",
			Subsystem: "faucet",
			Name:      "minted_value_total",
			Help:      "Token value minted by the faucet.",
		}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.operations,
		m.invoices,
		m.settledValue,
		m.withdrawnValue,
		m.mintedValue,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Operation counts a ledger operation outcome
func (m *Metrics) Operation(name string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.operations.WithLabelValues(name, result).Inc()
}

// Settled records a completed purchase
func (m *Metrics) Settled(invoices int, value uint64) {
	m.invoices.Add(float64(invoices))
	m.settledValue.Add(float64(value))
}

// Withdrawn records a treasury withdrawal
func (m *Metrics) Withdrawn(value uint64) {
	m.withdrawnValue.Add(float64(value))
}

// Minted records faucet issuance
func (m *Metrics) Minted(value uint64) {
	m.mintedValue.Add(float64(value))
}

// Instrument wraps the router with HTTP metrics collection. Routes are
// labelled with their chi pattern so ids do not explode cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Nop discards everything. Used when metrics are disabled.
type Nop struct{}

func (Nop) Operation(string, error) {}
func (Nop) Settled(int, uint64)     {}
func (Nop) Withdrawn(uint64)        {}
func (Nop) Minted(uint64)           {}
