// Package mongodb reads the dashboard collections from MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/jroosing/dnsfilter-dashboard/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults used when Options leave a field empty.
const (
	DefaultURI      = "mongodb://localhost:27017"
	DefaultDatabase = "dns_filter"
)

// Options configures Open.
type Options struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store is a database.Store over a MongoDB database.
type Store struct {
	client  *mongo.Client
	blocked *mongo.Collection
	queries *mongo.Collection
}

var _ database.Store = (*Store)(nil)

// Open connects to MongoDB and pings the primary. On ping failure the client is
// disconnected and the error returned.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.URI == "" {
		opts.URI = DefaultURI
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
		clientOpts.SetServerSelectionTimeout(opts.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to reach mongodb: %w", err)
	}

	return New(client, opts.Database), nil
}

// New wraps an existing client. The caller keeps ownership until Close.
func New(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		client:  client,
		blocked: db.Collection(database.BlockedCollection),
		queries: db.Collection(database.QueriesCollection),
	}
}

// Counts implements database.Store.
func (s *Store) Counts(ctx context.Context) (database.Counts, error) {
	var (
		c   database.Counts
		err error
	)

	if c.BlockedDomains, err = s.blocked.CountDocuments(ctx, bson.D{}); err != nil {
		return database.Counts{}, fmt.Errorf("failed to count blocked domains: %w", err)
	}
	if c.BlockedQueries, err = s.queries.CountDocuments(ctx, actionFilter(database.ActionBlocked)); err != nil {
		return database.Counts{}, fmt.Errorf("failed to count blocked queries: %w", err)
	}
	if c.AllowedQueries, err = s.queries.CountDocuments(ctx, actionFilter(database.ActionAllowed)); err != nil {
		return database.Counts{}, fmt.Errorf("failed to count allowed queries: %w", err)
	}
	return c, nil
}

// TopBlocked implements database.Store.
func (s *Store) TopBlocked(ctx context.Context, limit int) ([]database.DomainCount, error) {
	if limit <= 0 {
		return []database.DomainCount{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "action", Value: string(database.ActionBlocked)},
			{Key: "domain", Value: bson.D{{Key: "$type", Value: "string"}, {Key: "$ne", Value: ""}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$domain"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "domain", Value: "$_id"},
			{Key: "count", Value: 1},
		}}},
	}

	cur, err := s.queries.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top blocked: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]database.DomainCount, 0, min(limit, 256))
	for cur.Next(ctx) {
		var row struct {
			Domain string `bson:"domain"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode top blocked row: %w", err)
		}
		out = append(out, database.DomainCount{Domain: row.Domain, Count: row.Count})
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top blocked: %w", err)
	}
	return out, nil
}

// Logs implements database.Store. Newest first by ObjectID.
func (s *Store) Logs(ctx context.Context, action database.Action, limit int) ([]database.QueryLog, error) {
	if limit <= 0 {
		return []database.QueryLog{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.queries.Find(ctx, actionFilter(action), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s logs: %w", action, err)
	}
	defer cur.Close(ctx)

	out := make([]database.QueryLog, 0, min(limit, 256))
	for cur.Next(ctx) {
		var doc queryDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s log: %w", action, err)
		}
		out = append(out, doc.toQueryLog())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s logs: %w", action, err)
	}
	return out, nil
}

// Domains implements database.Store.
func (s *Store) Domains(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	filter := bson.D{{Key: "domain", Value: bson.D{{Key: "$type", Value: "string"}, {Key: "$ne", Value: ""}}}}
	opts := options.Find().
		SetSort(bson.D{{Key: "domain", Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "domain", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := s.blocked.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find blocked domains: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]string, 0, min(limit, 1024))
	for cur.Next(ctx) {
		var doc struct {
			Domain *string `bson:"domain"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode blocked domain: %w", err)
		}
		if doc.Domain == nil || *doc.Domain == "" {
			continue
		}
		out = append(out, *doc.Domain)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocked domains: %w", err)
	}
	return out, nil
}

// Ping implements database.Store.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close implements database.Store.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func actionFilter(action database.Action) bson.D {
	return bson.D{{Key: "action", Value: string(action)}}
}
