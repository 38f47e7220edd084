// Package middleware provides observability middleware for city handlers.
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware wraps endpoint dispatch in a server span
// named after the method and route pattern:
//
//	h := city.New(r, city.WithMiddleware(
//	    middleware.OpenTelemetry(
//	        middleware.WithTracerName("my-app"),
//	        middleware.WithRequestFilter(func(ev *endpoint.RequestEvent) bool {
//	            return ev.Route != "/healthz"
//	        }),
//	    ),
//	))
//
// # Prometheus Metrics
//
// The Prometheus middleware counts requests, handler errors and module
// loads, and times dispatch:
//   - city_requests_total
//   - city_request_duration_seconds
//   - city_handler_errors_total
//   - city_route_loads_total
//
// Expose the metrics with Metrics.Handler, on the same mux or a separate port:
//
//	metrics := middleware.Prometheus()
//	h := city.New(r, city.WithMiddleware(metrics))
//	go http.ListenAndServe(":9090", metrics.Handler())
//
// # Context Propagation
//
// The OpenTelemetry middleware replaces the request context with one that
// carries the span, so database drivers and HTTP clients called with
// ev.Context() inherit the trace:
//
//	OnGet: func(ev *endpoint.RequestEvent) (*endpoint.Response, error) {
//	    row := db.QueryRowContext(ev.Context(), "SELECT ...")
//	    ...
//	}
package middleware
