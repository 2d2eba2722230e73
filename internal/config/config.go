// Package config handles loading and validating the client configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/trendyol-sp/internal/cache"
	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

// Config is the top-level configuration.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	BaseURL     string            `yaml:"base_url"`
	Request     RequestConfig     `yaml:"request"`
	Cache       CacheConfig       `yaml:"cache"`
	Debug       bool              `yaml:"debug"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Warmer      WarmerConfig      `yaml:"warmer"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CredentialsConfig identifies the seller account.
type CredentialsConfig struct {
	SupplierID string `yaml:"supplier_id"`
	APIKey     string `yaml:"api_key"`
	APISecret  string `yaml:"api_secret"`
}

// RequestConfig defines per-request timeouts and the retry budget.
type RequestConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	RetryAttempts  *int          `yaml:"retry_attempts"` // default: 3; 0 disables retries
	RetrySleep     time.Duration `yaml:"retry_sleep"`
}

// CacheConfig defines the GET response cache.
type CacheConfig struct {
	Enabled  *bool          `yaml:"enabled"` // default: true
	TTL      time.Duration  `yaml:"ttl"`
	Prefix   string         `yaml:"prefix"`
	Backend  string         `yaml:"backend"` // memory, redis, sqlite, postgres
	Redis    RedisConfig    `yaml:"redis"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// IsEnabled reports whether caching is on.
func (c *CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// RedisConfig defines the Redis cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SQLiteConfig defines the SQLite cache backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig defines the PostgreSQL cache backend.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// RateLimitConfig defines client-side throttling.
type RateLimitConfig struct {
	Enabled              *bool `yaml:"enabled"` // default: true
	MaxRequestsPerSecond int   `yaml:"max_requests_per_second"`
}

// IsEnabled reports whether throttling is on.
func (r *RateLimitConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// WarmerConfig defines the reference data prefetch schedule.
type WarmerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron spec or @every
}

// TelemetryConfig defines OTLP export of traces and metrics.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"` // host:port of the OTLP gRPC collector
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Decode expands environment variables in data, unmarshals it and applies
// defaults without validating, so callers can layer overrides first.
func Decode(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = trendyol.DefaultBaseURL
	}
	applyRequestDefaults(&cfg.Request)
	applyCacheDefaults(&cfg.Cache)
	applyRateLimitDefaults(&cfg.RateLimit)
	applyWarmerDefaults(&cfg.Warmer)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyRequestDefaults(r *RequestConfig) {
	if r.Timeout == 0 {
		r.Timeout = trendyol.DefaultTimeout
	}
	if r.ConnectTimeout == 0 {
		r.ConnectTimeout = trendyol.DefaultConnectTimeout
	}
	if r.RetryAttempts == nil {
		n := trendyol.DefaultRetryAttempts
		r.RetryAttempts = &n
	}
	if r.RetrySleep == 0 {
		r.RetrySleep = trendyol.DefaultRetryDelay
	}
}

func applyCacheDefaults(c *CacheConfig) {
	if c.TTL == 0 {
		c.TTL = trendyol.DefaultCacheTTL
	}
	if c.Prefix == "" {
		c.Prefix = trendyol.DefaultCachePrefix
	}
	if c.Backend == "" {
		c.Backend = cache.BackendMemory
	}
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.MaxRequestsPerSecond == 0 {
		r.MaxRequestsPerSecond = trendyol.DefaultMaxRequestsPerSecond
	}
}

func applyWarmerDefaults(w *WarmerConfig) {
	if w.Schedule == "" {
		w.Schedule = "@every 30m"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "trendyol-sp"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

// Validate checks cfg after defaults have been applied.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Credentials.SupplierID == "" {
		errs = append(errs, fmt.Errorf("credentials.supplier_id is required"))
	}
	if cfg.Credentials.APIKey == "" {
		errs = append(errs, fmt.Errorf("credentials.api_key is required"))
	}
	if cfg.Credentials.APISecret == "" {
		errs = append(errs, fmt.Errorf("credentials.api_secret is required"))
	}

	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url must be an absolute URL (got %q)", cfg.BaseURL))
	}

	if cfg.Request.RetryAttempts != nil && *cfg.Request.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("request.retry_attempts must be >= 0"))
	}
	if cfg.Request.RetrySleep < 0 {
		errs = append(errs, fmt.Errorf("request.retry_sleep must be >= 0"))
	}

	if cfg.RateLimit.IsEnabled() && cfg.RateLimit.MaxRequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.max_requests_per_second must be > 0 when enabled"))
	}

	errs = append(errs, validateCache(&cfg.Cache)...)

	if cfg.Warmer.Enabled {
		if _, err := cron.ParseStandard(cfg.Warmer.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("warmer.schedule %q: %w", cfg.Warmer.Schedule, err))
		}
	}

	return errors.Join(errs...)
}

func validateCache(c *CacheConfig) []error {
	var errs []error

	if c.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be >= 0"))
	}

	switch c.Backend {
	case cache.BackendMemory:
	case cache.BackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("cache.redis.addr is required when backend is redis"))
		}
	case cache.BackendSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, fmt.Errorf("cache.sqlite.path is required when backend is sqlite"))
		}
	case cache.BackendPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, fmt.Errorf("cache.postgres.dsn is required when backend is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"cache.backend must be one of: memory, redis, sqlite, postgres (got %q)",
			c.Backend,
		))
	}

	return errs
}

// ClientConfig converts cfg into the client library's Config.
func (c *Config) ClientConfig() trendyol.Config {
	retries := trendyol.DefaultRetryAttempts
	if c.Request.RetryAttempts != nil {
		retries = *c.Request.RetryAttempts
	}

	return trendyol.Config{
		SupplierID:           c.Credentials.SupplierID,
		APIKey:               c.Credentials.APIKey,
		APISecret:            c.Credentials.APISecret,
		BaseURL:              c.BaseURL,
		Timeout:              c.Request.Timeout,
		ConnectTimeout:       c.Request.ConnectTimeout,
		RetryAttempts:        retries,
		RetryDelay:           c.Request.RetrySleep,
		CacheEnabled:         c.Cache.IsEnabled(),
		CacheTTL:             c.Cache.TTL,
		CachePrefix:          c.Cache.Prefix,
		Debug:                c.Debug,
		RateLimitEnabled:     c.RateLimit.IsEnabled(),
		MaxRequestsPerSecond: c.RateLimit.MaxRequestsPerSecond,
	}
}

// CacheOptions converts the cache section into store options.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:       c.Cache.Backend,
		RedisAddr:     c.Cache.Redis.Addr,
		RedisPassword: c.Cache.Redis.Password,
		RedisDB:       c.Cache.Redis.DB,
		SQLitePath:    c.Cache.SQLite.Path,
		PostgresDSN:   c.Cache.Postgres.DSN,
	}
}
