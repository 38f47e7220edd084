package city

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MuxOptions configures Mux.
type MuxOptions struct {
	// Metrics, when set, is mounted at MetricsPath.
	Metrics http.Handler

	// MetricsPath defaults to "/metrics".
	MetricsPath string

	// Use adds chi middleware ahead of the handler.
	Use []func(http.Handler) http.Handler
}

// Mux mounts h on a chi router with RealIP and Recoverer, plus an optional
// metrics endpoint. Applications with their own chi router can instead
// mount the Handler directly with r.Handle("/*", h).
func Mux(h http.Handler, opts MuxOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	for _, mw := range opts.Use {
		r.Use(mw)
	}

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.Metrics)
	}

	r.Handle("/*", h)
	return r
}
