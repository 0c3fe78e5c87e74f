// Package postgres reads the dashboard tables from PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jroosing/dnsfilter-dashboard/internal/database"
)

const (
	countsQuery = `
		SELECT
			(SELECT COUNT(*) FROM blocked),
			(SELECT COUNT(*) FROM queries WHERE action = $1),
			(SELECT COUNT(*) FROM queries WHERE action = $2)
	`

	topBlockedQuery = `
		SELECT domain, COUNT(*) AS count
		FROM queries
		WHERE action = $1 AND domain IS NOT NULL AND domain <> ''
		GROUP BY domain
		ORDER BY count DESC, domain ASC
		LIMIT $2
	`

	logsQuery = `
		SELECT "timestamp"::text, client_ip::text, domain, query_type, action, response_time::float8
		FROM queries
		WHERE action = $1
		ORDER BY id DESC
		LIMIT $2
	`

	domainsQuery = `
		SELECT domain
		FROM blocked
		WHERE domain IS NOT NULL AND domain <> ''
		ORDER BY domain ASC
		LIMIT $1
	`
)

// Store is a database.Store over a PostgreSQL database.
type Store struct {
	pool *pgxpool.Pool
}

var _ database.Store = (*Store)(nil)

// ParseConfig parses dsn into a pool configuration sized for a read-only dashboard.
func ParseConfig(dsn string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 0
	cfg.MaxConnLifetime = time.Hour
	return cfg, nil
}

// Open creates a pool for dsn and pings it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Counts implements database.Store.
func (s *Store) Counts(ctx context.Context) (database.Counts, error) {
	var c database.Counts
	err := s.pool.QueryRow(ctx, countsQuery, string(database.ActionBlocked), string(database.ActionAllowed)).
		Scan(&c.BlockedDomains, &c.BlockedQueries, &c.AllowedQueries)
	if err != nil {
		return database.Counts{}, fmt.Errorf("failed to count records: %w", err)
	}
	return c, nil
}

// TopBlocked implements database.Store.
func (s *Store) TopBlocked(ctx context.Context, limit int) ([]database.DomainCount, error) {
	if limit <= 0 {
		return []database.DomainCount{}, nil
	}

	rows, err := s.pool.Query(ctx, topBlockedQuery, string(database.ActionBlocked), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top blocked: %w", err)
	}
	defer rows.Close()

	out := make([]database.DomainCount, 0, min(limit, 256))
	for rows.Next() {
		var dc database.DomainCount
		if err := rows.Scan(&dc.Domain, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan top blocked row: %w", err)
		}
		out = append(out, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top blocked: %w", err)
	}
	return out, nil
}

// Logs implements database.Store.
func (s *Store) Logs(ctx context.Context, action database.Action, limit int) ([]database.QueryLog, error) {
	if limit <= 0 {
		return []database.QueryLog{}, nil
	}

	rows, err := s.pool.Query(ctx, logsQuery, string(action), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s logs: %w", action, err)
	}
	defer rows.Close()

	out := make([]database.QueryLog, 0, min(limit, 256))
	for rows.Next() {
		var (
			ts, clientIP, domain, qtype, act *string
			rt                               *float64
		)
		if err := rows.Scan(&ts, &clientIP, &domain, &qtype, &act, &rt); err != nil {
			return nil, fmt.Errorf("failed to scan %s log row: %w", action, err)
		}
		out = append(out, logFromRow(ts, clientIP, domain, qtype, act, rt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s logs: %w", action, err)
	}
	return out, nil
}

// Domains implements database.Store.
func (s *Store) Domains(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	rows, err := s.pool.Query(ctx, domainsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked domains: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, min(limit, 1024))
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan blocked domain: %w", err)
		}
		out = append(out, domain)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocked domains: %w", err)
	}
	return out, nil
}

// Ping implements database.Store.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close implements database.Store.
func (s *Store) Close(_ context.Context) error {
	s.pool.Close()
	return nil
}

// logFromRow maps a nullable logs row. NULL text columns become empty strings.
func logFromRow(ts, clientIP, domain, qtype, act *string, rt *float64) database.QueryLog {
	return database.QueryLog{
		Timestamp:    deref(ts),
		ClientIP:     hostAddr(deref(clientIP)),
		Domain:       deref(domain),
		QueryType:    deref(qtype),
		Action:       database.Action(deref(act)),
		ResponseTime: rt,
	}
}

// hostAddr drops the /32 or /128 mask that an inet column carries when cast to
// text. Anything else is returned unchanged.
func hostAddr(s string) string {
	if p, err := netip.ParsePrefix(s); err == nil && p.IsSingleIP() {
		return p.Addr().String()
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
