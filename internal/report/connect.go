package report

import (
	"context"
	"fmt"

	"github.com/jroosing/dnsfilter-dashboard/internal/config"
	"github.com/jroosing/dnsfilter-dashboard/internal/database"
	"github.com/jroosing/dnsfilter-dashboard/internal/database/mongodb"
	"github.com/jroosing/dnsfilter-dashboard/internal/database/postgres"
	"github.com/jroosing/dnsfilter-dashboard/internal/database/sqlite"
)

// Connector returns the ConnectFunc for the configured driver.
// Each attempt is bounded by cfg.ConnectTimeout when it is positive.
func Connector(cfg config.DatabaseConfig) ConnectFunc {
	return func(ctx context.Context) (database.Store, error) {
		if cfg.ConnectTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
			defer cancel()
		}

		switch cfg.Driver {
		case config.DriverMongoDB:
			s, err := mongodb.Open(ctx, mongodb.Options{
				URI:            cfg.URI,
				Database:       cfg.Name,
				ConnectTimeout: cfg.ConnectTimeout,
			})
			if err != nil {
				return nil, err
			}
			return s, nil
		case config.DriverSQLite:
			s, err := sqlite.Open(ctx, cfg.URI)
			if err != nil {
				return nil, err
			}
			return s, nil
		case config.DriverPostgres:
			s, err := postgres.Open(ctx, cfg.URI)
			if err != nil {
				return nil, err
			}
			return s, nil
		default:
			return nil, fmt.Errorf("%w: %q", database.ErrUnknownDriver, cfg.Driver)
		}
	}
}
