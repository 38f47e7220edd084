package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/city/internal/config"
	"github.com/vango-dev/city/pkg/city"
	"github.com/vango-dev/city/pkg/manifest"
	"github.com/vango-dev/city/pkg/middleware"
	"github.com/vango-dev/city/pkg/router"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		location string
		addr     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a manifest with placeholder modules",
		Long: `Serve the route manifest over HTTP without application code.

Every page route renders its page context as JSON: the matched route,
params, resolved head and menu. Endpoint routes have no handlers and
answer 405. Metrics are served at /metrics.

The match cache size (cacheSize) and request body limit (maxBodySize)
come from the project configuration.

Examples:
  city serve
  city serve --addr :9000 --manifest s3://my-bucket/city/manifest.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			m, err := loadManifest(cmd.Context(), cfg, location)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			p, err := newPreview(cfg, m, logger)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           p.mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			success("Serving %d routes on %s", len(m.Routes), addr)

			select {
			case err := <-errCh:
				if stderrors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			info("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&location, "manifest", "m", "", "Manifest file path or s3://bucket/key (default from config)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}

// preview is a handler serving a manifest with placeholder modules.
type preview struct {
	handler *city.Handler
	mux     http.Handler
}

// newPreview binds m to placeholder modules and applies the cache size
// and body limit of cfg.
func newPreview(cfg *config.Config, m *manifest.Manifest, logger *slog.Logger) (*preview, error) {
	maxBody, err := cfg.MaxBodyBytes()
	if err != nil {
		return nil, err
	}
	plan, err := router.Bind(m, router.Placeholders(m))
	if err != nil {
		return nil, err
	}

	metrics := middleware.Prometheus(middleware.WithRegistry(prometheus.NewRegistry()))
	h := city.New(
		router.New(plan, router.WithCacheSize(cfg.CacheSize), router.WithLogger(logger)),
		city.WithLogger(logger),
		city.WithMaxBodyBytes(maxBody),
		city.WithMiddleware(metrics, middleware.OpenTelemetry()),
	)
	return &preview{
		handler: h,
		mux:     city.Mux(h, city.MuxOptions{Metrics: metrics.Handler()}),
	}, nil
}
