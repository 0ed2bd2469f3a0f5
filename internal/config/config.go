// Package config provides configuration management for opsdash.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with OPS_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./opsdash.yaml, ./configs/opsdash.yaml, ~/.opsdash/opsdash.yaml, /etc/opsdash/opsdash.yaml)
//  3. .env files
//  4. Environment variables (OPS_ prefix)
//
// # Usage Example
//
//	cfg, err := config.Load("configs/opsdash.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Server: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
//
// # Environment Variables
//
// Environment variables override all other configuration sources.
// Use OPS_ prefix and underscores for nested keys:
//   - OPS_SERVER_PORT=8095
//   - OPS_CATALOG_PATH=/srv/opsdash/catalog.yaml
//   - OPS_JOBORDERS_SEQUENCE_BASELINE=1287
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure for opsdash.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Security contains rate limiting and CORS settings
	Security SecurityConfig `mapstructure:"security" yaml:"security"`

	// Catalog locates the NAP and stock catalog
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`

	// JobOrders seeds the job-order counters of a new session
	JobOrders JobOrdersConfig `mapstructure:"joborders" yaml:"joborders"`

	// Metrics controls the Prometheus endpoint
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: 0.0.0.0)
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the server listen port (default: 8080)
	Port int `mapstructure:"port" yaml:"port"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Debug enables debug logging and the API docs endpoint
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level" yaml:"level"`

	// Format is the log format (json, console)
	Format string `mapstructure:"format" yaml:"format"`
}

// SecurityConfig contains security and rate limiting settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// CatalogConfig locates the static catalog.
type CatalogConfig struct {
	// Path is a YAML catalog file; empty uses the embedded seed catalog
	Path string `mapstructure:"path" yaml:"path"`
}

// JobOrdersConfig seeds the reservation engine counters.
type JobOrdersConfig struct {
	// ReferencePrefix is prepended to the zero-padded sequence (default: JO-2025-)
	ReferencePrefix string `mapstructure:"reference_prefix" yaml:"reference_prefix"`

	// OpenBaseline is the number of open job orders at session start
	OpenBaseline int `mapstructure:"open_baseline" yaml:"open_baseline"`

	// SequenceBaseline is the last issued sequence number
	SequenceBaseline int `mapstructure:"sequence_baseline" yaml:"sequence_baseline"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for opsdash.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (OPS_ prefix)
//  2. .env file
//  3. Configuration file
//  4. Default values
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("opsdash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.opsdash")
		v.AddConfigPath("/etc/opsdash")
	}

	if err := v.ReadInConfig(); err != nil {
		// an explicit file that does not exist falls back to defaults
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("OPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	c := &Config{}
	_ = v.Unmarshal(c)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.allowed_origins", []string{"*"})

	v.SetDefault("catalog.path", "")

	v.SetDefault("joborders.reference_prefix", "JO-2025-")
	v.SetDefault("joborders.open_baseline", 3)
	v.SetDefault("joborders.sequence_baseline", 1287)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q", cfg.Logging.Format)
	}

	if cfg.Security.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %d", cfg.Security.RateLimit)
	}

	if cfg.JobOrders.ReferencePrefix == "" {
		return fmt.Errorf("joborders reference_prefix is required")
	}

	if cfg.JobOrders.OpenBaseline < 0 || cfg.JobOrders.SequenceBaseline < 0 {
		return fmt.Errorf("joborders baselines cannot be negative")
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %q", cfg.Metrics.Path)
	}

	return nil
}

// Get returns the configuration from the last successful Load.
func Get() *Config {
	return cfg
}

// Address returns the host:port the server listens on.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
