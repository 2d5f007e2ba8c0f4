package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/almanac/internal/metrics"
	"github.com/matzehuels/almanac/internal/server"
	"github.com/matzehuels/almanac/pkg/cache"
	"github.com/matzehuels/almanac/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

// serverKeyPrefix keeps server-computed entries apart from CLI entries in a
// shared cache.
const serverKeyPrefix = "server:"

type serveOpts struct {
	addr      string
	timeout   time.Duration
	noMetrics bool
	noCache   bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes solve and trace over HTTP, backed by the configured cache.

Endpoints:
  GET  /health   liveness check
  GET  /info     build information
  POST /solve    {"almanac": "...", "mode": "range"}
  POST /trace    {"almanac": "...", "output": "svg"}
  GET  /metrics  Prometheus metrics`,
		Example: `  almanac serve
  almanac serve --addr 127.0.0.1:9000 --no-metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-request timeout")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	store, err := c.newCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, serverKeyPrefix), logger)
	runner.TTL = cfg.Cache.TTL.Duration
	defer runner.Close()

	handlerOpts := []server.Option{server.WithTimeout(opts.timeout)}
	if !opts.noMetrics {
		m := metrics.New()
		m.Install()
		handlerOpts = append(handlerOpts, server.WithMetrics(m.Handler()))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewHandler(runner, logger, handlerOpts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "cache", cacheLocation(cfg))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("server stopped")
		return nil
	}
}
