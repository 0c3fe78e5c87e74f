// Package database defines the read-only contract between the dashboard and the
// store written by the DNS filtering engine.
//
// The store holds two collections (tables, for the SQL backends):
//
//   - blocked: one record per filtered domain, {domain}
//   - queries: one record per observed DNS query,
//     {domain, action, timestamp, client_ip, query_type, response_time}
//
// Backends live in the mongodb, sqlite and postgres subpackages. They return
// typed records and explicit errors; deciding what a failure means for the
// caller is left to the report package.
package database

import (
	"context"
	"errors"
)

// Collection (and table) names.
const (
	BlockedCollection = "blocked"
	QueriesCollection = "queries"
)

// ErrUnknownDriver is returned when the configured driver has no backend.
var ErrUnknownDriver = errors.New("unknown database driver")

// Action is the filtering decision recorded for a query.
type Action string

const (
	ActionBlocked Action = "blocked"
	ActionAllowed Action = "allowed"
)

// Valid reports whether a is one of the recorded actions.
func (a Action) Valid() bool {
	return a == ActionBlocked || a == ActionAllowed
}

// Counts holds the raw collection counts behind the dashboard statistics.
type Counts struct {
	BlockedDomains int64
	BlockedQueries int64
	AllowedQueries int64
}

// DomainCount is one row of the top-blocked ranking.
type DomainCount struct {
	Domain string
	Count  int64
}

// QueryLog is a single query event as shown in the log views.
//
// It deliberately has no identifier field; store identifiers stay inside the backend.
type QueryLog struct {
	Timestamp    string
	ClientIP     string
	Domain       string
	QueryType    string
	Action       Action
	ResponseTime *float64 // milliseconds, nil when not recorded
}

// Store is implemented by every backend. Methods must be safe for concurrent use.
//
// A limit <= 0 yields an empty result; backends short-circuit before querying.
type Store interface {
	// Counts returns the blocked-domain count and the per-action query counts.
	Counts(ctx context.Context) (Counts, error)
	// TopBlocked ranks domains by blocked-query count, descending, ties by domain.
	TopBlocked(ctx context.Context, limit int) ([]DomainCount, error)
	// Logs returns the newest query events with the given action first.
	Logs(ctx context.Context, action Action, limit int) ([]QueryLog, error)
	// Domains lists blocked domains in ascending order, skipping empty ones.
	Domains(ctx context.Context, limit int) ([]string, error)
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
