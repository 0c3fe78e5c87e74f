// Package config provides configuration types, loading and validation for the
// DNS filter dashboard.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// DASHBOARD_-prefixed environment variables. Nested keys use a double
// underscore in the environment, e.g. DASHBOARD_DATABASE__URI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DASHBOARD_"

// EnvConfigPath names the environment variable consulted when no -config flag is given.
const EnvConfigPath = EnvPrefix + "CONFIG"

// ResolveConfigPath returns the flag value if set, otherwise $DASHBOARD_CONFIG.
func ResolveConfigPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(EnvConfigPath))
}

// Load builds a Config from defaults, the YAML file at path (if non-empty) and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, EnvPrefix)
			if key == "CONFIG" {
				return "", nil
			}
			key = strings.ToLower(strings.ReplaceAll(key, "__", "."))
			return key, strings.TrimSpace(value)
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ErrURIRequired is returned when the driver is switched without naming a store to read.
var ErrURIRequired = errors.New("database URI is required when the driver changes")

// OverrideDatabase applies command-line database overrides. An empty value keeps
// the loaded setting. Switching to a different driver requires a new URI, since
// the loaded one belongs to the previous backend.
func (cfg *Config) OverrideDatabase(driver, uri string) error {
	driver = strings.ToLower(strings.TrimSpace(driver))
	uri = strings.TrimSpace(uri)

	if driver != "" && driver != cfg.Database.Driver {
		if uri == "" {
			return fmt.Errorf("%w: -driver %s needs -db", ErrURIRequired, driver)
		}
		cfg.Database.Driver = driver
	}
	if uri != "" {
		cfg.Database.URI = uri
	}
	return nil
}

// Validate normalizes the configuration and checks it against the struct constraints.
func (cfg *Config) Validate() error {
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.Database.Driver == DriverMongoDB && cfg.Database.Name == "" {
		cfg.Database.Name = Default().Database.Name
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	if cfg.Limits.Max > 0 {
		cfg.Limits.TopBlocked = min(cfg.Limits.TopBlocked, cfg.Limits.Max)
		cfg.Limits.Logs = min(cfg.Limits.Logs, cfg.Limits.Max)
		cfg.Limits.Domains = min(cfg.Limits.Domains, cfg.Limits.Max)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s fails %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
