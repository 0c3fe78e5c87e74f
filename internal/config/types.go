package config

import "time"

// Database drivers understood by the reporter.
const (
	DriverMongoDB  = "mongodb"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Host            string        `koanf:"host" json:"host" validate:"required"`
	Port            int           `koanf:"port" json:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout" validate:"gte=0"`
	// Swagger serves the generated OpenAPI UI under /swagger/.
	Swagger bool `koanf:"swagger" json:"swagger"`
	// Dashboard serves the embedded dashboard page at /.
	Dashboard bool `koanf:"dashboard" json:"dashboard"`
}

// DatabaseConfig selects and addresses the store holding the blocked and queries collections.
//
// URI is interpreted per driver: a mongodb:// connection string, a SQLite file path,
// or a PostgreSQL DSN.
type DatabaseConfig struct {
	Driver         string        `koanf:"driver" json:"driver" validate:"required,oneof=mongodb sqlite postgres"`
	URI            string        `koanf:"uri" json:"uri" validate:"required"`
	Name           string        `koanf:"name" json:"name"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" json:"connect_timeout" validate:"gte=0"`
}

// LimitsConfig holds the per-route default result sizes and the hard ceiling.
type LimitsConfig struct {
	TopBlocked int `koanf:"top_blocked" json:"top_blocked" validate:"gte=1"`
	Logs       int `koanf:"logs" json:"logs" validate:"gte=1"`
	Domains    int `koanf:"domains" json:"domains" validate:"gte=1"`
	Max        int `koanf:"max" json:"max" validate:"gte=1"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `koanf:"level" json:"level" validate:"required"`
	Structured       bool              `koanf:"structured" json:"structured"`
	StructuredFormat string            `koanf:"structured_format" json:"structured_format" validate:"omitempty,oneof=json text"`
	IncludePID       bool              `koanf:"include_pid" json:"include_pid"`
	ExtraFields      map[string]string `koanf:"extra_fields" json:"extra_fields,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	API      APIConfig      `koanf:"api" json:"api"`
	Database DatabaseConfig `koanf:"database" json:"database"`
	Limits   LimitsConfig   `koanf:"limits" json:"limits"`
	Logging  LoggingConfig  `koanf:"logging" json:"logging"`
}

// Default returns the built-in configuration: a local MongoDB holding the dns_filter database.
func Default() Config {
	return Config{
		API: APIConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ShutdownTimeout: 5 * time.Second,
			Swagger:         true,
			Dashboard:       true,
		},
		Database: DatabaseConfig{
			Driver:         DriverMongoDB,
			URI:            "mongodb://localhost:27017",
			Name:           "dns_filter",
			ConnectTimeout: 10 * time.Second,
		},
		Limits: LimitsConfig{
			TopBlocked: 10,
			Logs:       100,
			Domains:    1000,
			Max:        10000,
		},
		Logging: LoggingConfig{
			Level:            "INFO",
			StructuredFormat: "json",
		},
	}
}
