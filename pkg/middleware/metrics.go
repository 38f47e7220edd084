package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/city/pkg/city"
	"github.com/vango-dev/city/pkg/endpoint"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "city").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "city",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is the Prometheus middleware. It implements city.Middleware and
// city.LoadObserver.
type Metrics struct {
	registry prometheus.Registerer

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	handlerErrors   *prometheus.CounterVec
	routeLoads      *prometheus.CounterVec
}

var (
	_ city.Middleware   = (*Metrics)(nil)
	_ city.LoadObserver = (*Metrics)(nil)
)

// Collectors are registered once per registry, namespace and subsystem.
// A later Prometheus call with the same three shares the first call's
// metrics, including its buckets and constant labels.
type metricsKey struct {
	registry  prometheus.Registerer
	namespace string
	subsystem string
}

var (
	registered   = make(map[metricsKey]*Metrics)
	registeredMu sync.Mutex
)

func newMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		registry: config.Registry,

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of dispatched requests",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Endpoint dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route", "method"}),

		handlerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "handler_errors_total",
			Help:        "Total number of endpoint handler errors",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		routeLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_loads_total",
			Help:        "Total number of route module loads by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for
// dispatched requests. Labels use the route pattern, never the raw path.
//
// Metrics collected:
//   - city_requests_total: Counter of requests by route, method and status
//   - city_request_duration_seconds: Histogram of dispatch duration
//   - city_handler_errors_total: Counter of handler errors by route and error type
//   - city_route_loads_total: Counter of module loads by result ("ok" or "error")
//
// Example:
//
//	metrics := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	h := city.New(r, city.WithMiddleware(metrics))
//	http.ListenAndServe(":8080", city.Mux(h, city.MuxOptions{Metrics: metrics.Handler()}))
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}

	key := metricsKey{registry: config.Registry, namespace: config.Namespace, subsystem: config.Subsystem}
	registeredMu.Lock()
	defer registeredMu.Unlock()
	if m, ok := registered[key]; ok {
		return m
	}
	m := newMetrics(config)
	registered[key] = m
	return m
}

// Handle implements city.Middleware.
func (m *Metrics) Handle(ev *endpoint.RequestEvent, next func() error) error {
	route := routeLabel(ev)
	method := string(ev.Method())

	start := time.Now()
	err := next()
	m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())

	status := ev.Status()
	if err != nil {
		status = endpoint.StatusOf(err)
		m.handlerErrors.WithLabelValues(route, categorizeError(err)).Inc()
	} else if status == 0 {
		status = http.StatusNoContent
	}
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()

	return err
}

// ObserveLoad implements city.LoadObserver.
func (m *Metrics) ObserveLoad(ev *endpoint.RequestEvent, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.routeLoads.WithLabelValues(result).Inc()
}

// Handler serves the metrics of the middleware's registry. With the default
// registerer it is promhttp.Handler().
func (m *Metrics) Handler() http.Handler {
	if m.registry == prometheus.DefaultRegisterer {
		return promhttp.Handler()
	}
	if g, ok := m.registry.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

func routeLabel(ev *endpoint.RequestEvent) string {
	if ev.Route == "" {
		return "unknown"
	}
	return ev.Route
}

// categorizeError returns a low-cardinality category for err.
func categorizeError(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, endpoint.ErrMethodNotAllowed):
		return "method_not_allowed"
	case errors.As(err, &tooLarge):
		return "body_too_large"
	}

	switch status := endpoint.StatusOf(err); {
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	case status >= 400 && status < 500:
		return "client"
	default:
		return "internal"
	}
}
