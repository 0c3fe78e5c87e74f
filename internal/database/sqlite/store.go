// Package sqlite reads the dashboard collections from a SQLite file written by
// the filtering engine. The file is opened read-only; tables are never created
// or altered here.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jroosing/dnsfilter-dashboard/internal/database"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	countsQuery = `
		SELECT
			(SELECT COUNT(*) FROM blocked),
			(SELECT COUNT(*) FROM queries WHERE action = ?),
			(SELECT COUNT(*) FROM queries WHERE action = ?)
	`

	topBlockedQuery = `
		SELECT domain, COUNT(*) AS count
		FROM queries
		WHERE action = ? AND domain IS NOT NULL AND domain <> ''
		GROUP BY domain
		ORDER BY count DESC, domain ASC
		LIMIT ?
	`

	logsQuery = `
		SELECT CAST(timestamp AS TEXT), client_ip, domain, query_type, action, response_time
		FROM queries
		WHERE action = ?
		ORDER BY id DESC
		LIMIT ?
	`

	domainsQuery = `
		SELECT domain
		FROM blocked
		WHERE domain IS NOT NULL AND domain <> ''
		ORDER BY domain ASC
		LIMIT ?
	`
)

// Store is a database.Store over a SQLite file.
type Store struct {
	conn *sql.DB
}

var _ database.Store = (*Store)(nil)

// Open opens the SQLite file at path read-only and verifies it can be read.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to reach database %s: %w", path, err)
	}

	return &Store{conn: conn}, nil
}

// Counts implements database.Store. The three counts come from a single statement.
func (s *Store) Counts(ctx context.Context) (database.Counts, error) {
	var c database.Counts
	err := s.conn.QueryRowContext(ctx, countsQuery, string(database.ActionBlocked), string(database.ActionAllowed)).
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

	rows, err := s.conn.QueryContext(ctx, topBlockedQuery, string(database.ActionBlocked), limit)
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

	rows, err := s.conn.QueryContext(ctx, logsQuery, string(action), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s logs: %w", action, err)
	}
	defer rows.Close()

	out := make([]database.QueryLog, 0, min(limit, 256))
	for rows.Next() {
		var (
			ts, clientIP, domain, qtype, act sql.NullString
			rt                               sql.NullFloat64
		)
		if err := rows.Scan(&ts, &clientIP, &domain, &qtype, &act, &rt); err != nil {
			return nil, fmt.Errorf("failed to scan %s log row: %w", action, err)
		}

		entry := database.QueryLog{
			Timestamp: ts.String,
			ClientIP:  clientIP.String,
			Domain:    domain.String,
			QueryType: qtype.String,
			Action:    database.Action(act.String),
		}
		if rt.Valid {
			v := rt.Float64
			entry.ResponseTime = &v
		}
		out = append(out, entry)
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

	rows, err := s.conn.QueryContext(ctx, domainsQuery, limit)
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
	return s.conn.PingContext(ctx)
}

// Close implements database.Store.
func (s *Store) Close(_ context.Context) error {
	return s.conn.Close()
}

// dsn builds a read-only file: URI for path. Characters that would otherwise
// start the query string or a fragment are escaped.
func dsn(path string) string {
	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: path}).EscapedPath(),
		RawQuery: "mode=ro&_pragma=busy_timeout(5000)",
	}
	return u.String()
}
