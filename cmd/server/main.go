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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"certificate-api/internal/platform/config"
	"certificate-api/internal/platform/logger"
	"certificate-api/internal/platform/metrics"
	"certificate-api/pkg/platform/middleware/request"
)

const poolStatsInterval = 15 * time.Second

// main loads the environment, wires the certificate routes and runs the
// server until SIGINT or SIGTERM.
func main() {
	env, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(env.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, env, log); err != nil {
		log.Error("certificate-api stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, env config.Env, log *slog.Logger) error {
	log.Info("initializing certificate-api",
		"addr", env.Addr,
		"environment", env.Environment,
		"registry_mode", env.RegistryMode,
		"display_timezone", env.DisplayTimezone,
	)

	infra := metrics.New()
	app, err := build(ctx, env, log, infra)
	if err != nil {
		return err
	}
	defer app.close()

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.ClientKey)
	r.Use(request.Logger(log))
	r.Use(request.LatencyMiddleware(request.NewMetrics()))

	app.health.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	app.handler.RegisterWellKnown(r)
	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(env.RequestTimeout))
		if app.rateLimit != nil {
			r.Use(app.rateLimit)
		}
		app.handler.Register(r)
	})

	srv := &http.Server{
		Addr:              env.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", env.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(poolStatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				app.recordPoolStats(infra)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), env.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
