// Command holma-server serves the shopping-group administration API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"holma/internal/adapters/httpapi"
	"holma/internal/core"
	"holma/internal/platform/config"
	"holma/pkg/logging"
)

func main() {
	logger := logging.Setup()
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// app holds the wired service and its HTTP handlers.
type app struct {
	svc     *core.Service
	api     http.Handler
	metrics http.Handler
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	store, err := core.OpenPersistentStore(ctx, cfg.Storage, core.NewDefaultRulesEngine())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Info("storage initialized", "driver", cfg.Storage.Driver)

	svc := core.NewService(store,
		core.WithLogger(logger),
		core.WithMetricsRecorder(recorder),
	)
	metrics := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	routerCfg := httpapi.RouterConfig{
		Logger:     logger,
		JWTSecret:  cfg.JWTSecret,
		CORSOrigin: cfg.CORSOrigin,
	}
	if cfg.MetricsAddr == "" {
		routerCfg.Metrics = metrics
	}
	if cfg.JWTSecret == "" {
		logger.Warn("authentication disabled, HOLMA_JWT_SECRET is empty")
	}
	return &app{svc: svc, api: httpapi.NewRouter(svc, routerCfg), metrics: metrics}, nil
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// run serves until ctx is cancelled, then drains the servers and closes the store.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.svc.Close(); err != nil {
			logger.Error("close store", "error", err)
		}
	}()

	servers := []*http.Server{newHTTPServer(cfg.Addr, a.api)}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics)
		servers = append(servers, newHTTPServer(cfg.MetricsAddr, mux))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("http server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		logger.Info("http servers stopped")
		return errors.Join(errs...)
	})
	return g.Wait()
}
