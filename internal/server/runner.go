// Package server wires the dashboard together and owns its lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jroosing/dnsfilter-dashboard/internal/api"
	"github.com/jroosing/dnsfilter-dashboard/internal/config"
	"github.com/jroosing/dnsfilter-dashboard/internal/report"
)

const defaultShutdownTimeout = 5 * time.Second

// Runner orchestrates the dashboard startup and shutdown.
type Runner struct {
	logger  *slog.Logger
	connect report.ConnectFunc
}

// NewRunner creates a new runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// SetConnector replaces the store connector derived from the configuration.
func (r *Runner) SetConnector(connect report.ConnectFunc) {
	r.connect = connect
}

// Run starts the dashboard with the given configuration.
//
// Lifecycle:
//  1. Create the shared reporter (the store is opened lazily)
//  2. Probe the store once and log the outcome
//  3. Serve the HTTP API
//  4. Wait for shutdown signal (SIGINT/SIGTERM)
//  5. Drain in-flight requests, then release the store handle
func (r *Runner) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg)
}

// RunWithContext listens on the configured address and blocks until ctx is
// canceled or the HTTP server fails.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config) error {
	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return r.RunOnListener(ctx, cfg, ln)
}

// RunOnListener serves the dashboard on ln. The listener is closed on return.
func (r *Runner) RunOnListener(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	connect := r.connect
	if connect == nil {
		connect = report.Connector(cfg.Database)
	}

	reporter := report.New(connect, r.logger)
	defer r.closeReporter(reporter)

	r.logStartup(cfg)
	r.probeStore(ctx, reporter)

	srv := api.New(cfg, reporter, r.logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		// shutdown requested via signal
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	}

	timeout := cfg.API.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	r.logger.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return nil
}

// probeStore opens the store connection at startup. A failure is only logged;
// the reporter retries on the next request.
func (r *Runner) probeStore(ctx context.Context, reporter *report.Reporter) {
	if err := reporter.Healthy(ctx); err != nil {
		r.logger.Warn("store not reachable at startup, serving defaults until it is", "error", err)
		return
	}
	r.logger.Info("store reachable")
}

func (r *Runner) closeReporter(reporter *report.Reporter) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := reporter.Close(ctx); err != nil {
		r.logger.Error("failed to close store", "error", err)
	}
}

// logStartup logs the effective configuration at startup.
func (r *Runner) logStartup(cfg *config.Config) {
	r.logger.Info(
		"dashboard starting",
		"driver", cfg.Database.Driver,
		"database", cfg.Database.Name,
		"swagger", cfg.API.Swagger,
		"dashboard", cfg.API.Dashboard,
		"max_limit", cfg.Limits.Max,
	)
}
