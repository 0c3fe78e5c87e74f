// Package report is the data access layer behind the dashboard.
//
// A Reporter owns the single store handle shared by every request. It opens
// the handle on first use and turns every store failure into the documented
// default result: zeroed stats or an empty list. Callers never see store
// errors, except through Healthy.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jroosing/dnsfilter-dashboard/internal/database"
	"github.com/jroosing/dnsfilter-dashboard/internal/metrics"
)

var (
	// ErrClosed is reported by Healthy after Close.
	ErrClosed = errors.New("reporter closed")
	// ErrNotConnected wraps connection failures.
	ErrNotConnected = errors.New("store not connected")
)

// ConnectFunc opens the store. It is called at most once per successful connection.
type ConnectFunc func(ctx context.Context) (database.Store, error)

// StatsSnapshot is the dashboard headline. TotalQueries is always
// BlockedQueries + AllowedQueries.
type StatsSnapshot struct {
	TotalBlockedDomains int64
	BlockedQueries      int64
	AllowedQueries      int64
	TotalQueries        int64
}

type handle struct {
	store database.Store
}

// Reporter answers dashboard read operations. It is safe for concurrent use.
type Reporter struct {
	connect ConnectFunc
	logger  *slog.Logger

	mu     sync.Mutex // serializes connect and Close
	conn   atomic.Pointer[handle]
	closed atomic.Bool
}

// New creates a Reporter. No connection is made until the first operation.
func New(connect ConnectFunc, logger *slog.Logger) *Reporter {
	if connect == nil {
		panic("report.New: connect is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{connect: connect, logger: logger}
}

// acquire returns the shared store, connecting on first use.
//
// A failed connection leaves the reporter unconnected; the next call tries again.
func (r *Reporter) acquire(ctx context.Context) (database.Store, error) {
	if h := r.conn.Load(); h != nil {
		return h.store, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h := r.conn.Load(); h != nil {
		return h.store, nil
	}
	if r.closed.Load() {
		return nil, ErrClosed
	}

	store, err := r.connect(ctx)
	if err != nil {
		r.logger.Error("store connection failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrNotConnected, err)
	}

	r.conn.Store(&handle{store: store})
	metrics.StoreConnected.Set(1)
	r.logger.Info("connected to store")
	return store, nil
}

// degrade runs fn against the store and substitutes fallback on any failure,
// including a panic raised by the driver.
func degrade[T any](ctx context.Context, r *Reporter, op string, fallback T, fn func(database.Store) (T, error)) (out T) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.StoreFailures.WithLabelValues(op).Inc()
			r.logger.Error("store operation panicked", "operation", op, "panic", fmt.Sprint(rec))
			out = fallback
		}
	}()

	store, err := r.acquire(ctx)
	if err == nil {
		var v T
		if v, err = fn(store); err == nil {
			return v
		}
	}

	metrics.StoreFailures.WithLabelValues(op).Inc()
	if !errors.Is(err, ErrClosed) {
		r.logger.Error("store operation failed", "operation", op, "error", err)
	}
	return fallback
}

// Stats returns the headline counts. Any failure yields the all-zero snapshot.
func (r *Reporter) Stats(ctx context.Context) StatsSnapshot {
	c := degrade(ctx, r, "stats", database.Counts{}, func(s database.Store) (database.Counts, error) {
		return s.Counts(ctx)
	})
	return StatsSnapshot{
		TotalBlockedDomains: c.BlockedDomains,
		BlockedQueries:      c.BlockedQueries,
		AllowedQueries:      c.AllowedQueries,
		TotalQueries:        c.BlockedQueries + c.AllowedQueries,
	}
}

// TopBlocked returns at most limit domains ranked by blocked-query count.
func (r *Reporter) TopBlocked(ctx context.Context, limit int) []database.DomainCount {
	out := degrade(ctx, r, "top_blocked", nil, func(s database.Store) ([]database.DomainCount, error) {
		return s.TopBlocked(ctx, limit)
	})
	if out == nil {
		return []database.DomainCount{}
	}
	return out
}

// BlockedLogs returns the newest blocked queries.
func (r *Reporter) BlockedLogs(ctx context.Context, limit int) []database.QueryLog {
	return r.logs(ctx, "blocked_logs", database.ActionBlocked, limit)
}

// AllowedLogs returns the newest allowed queries.
func (r *Reporter) AllowedLogs(ctx context.Context, limit int) []database.QueryLog {
	return r.logs(ctx, "allowed_logs", database.ActionAllowed, limit)
}

func (r *Reporter) logs(ctx context.Context, op string, action database.Action, limit int) []database.QueryLog {
	out := degrade(ctx, r, op, nil, func(s database.Store) ([]database.QueryLog, error) {
		return s.Logs(ctx, action, limit)
	})
	if out == nil {
		return []database.QueryLog{}
	}
	return out
}

// AllDomains returns at most limit blocked domains in ascending order.
func (r *Reporter) AllDomains(ctx context.Context, limit int) []string {
	out := degrade(ctx, r, "domains", nil, func(s database.Store) ([]string, error) {
		return s.Domains(ctx, limit)
	})
	if out == nil {
		return []string{}
	}
	return out
}

// Healthy reports whether the store can be reached. Unlike the read
// operations it surfaces the error, so an outage can be told apart from an
// empty store.
func (r *Reporter) Healthy(ctx context.Context) error {
	store, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	return store.Ping(ctx)
}

// Close releases the store handle if one is held. It is safe to call on a
// reporter that never connected, and more than once. After Close every
// operation returns its default without reconnecting.
func (r *Reporter) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed.Store(true)
	h := r.conn.Swap(nil)
	if h == nil {
		return nil
	}

	metrics.StoreConnected.Set(0)
	if err := h.store.Close(ctx); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	r.logger.Info("store connection closed")
	return nil
}
