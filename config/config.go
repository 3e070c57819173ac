package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Database   DatabaseConfig   `yaml:"database"`
	Seed       SeedConfig       `yaml:"seed"`
	Feed       FeedConfig       `yaml:"feed"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RequestIPHeader string        `yaml:"request_ip_header"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`

	// When RedisAddr is set the rate limit is shared between instances
	// through Redis instead of kept per process.
	RedisAddr           string `yaml:"redis_addr"`
	RedisPassword       string `yaml:"redis_password"`
	RedisDB             int    `yaml:"redis_db"`
	RedisLimitPerMinute int    `yaml:"redis_limit_per_minute"`
	RedisFailOpen       bool   `yaml:"redis_fail_open"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Env   string `yaml:"env"`   // development | production
	Level string `yaml:"level"` // debug | info | warn | error
}

// CalendarConfig holds the business calendar settings.
type CalendarConfig struct {
	Timezone     string         `yaml:"timezone"`
	Location     *time.Location `yaml:"-"`
	MaxRangeDays int            `yaml:"max_range_days"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // sqlite | postgres
	DSN                    string `yaml:"dsn"`
	LogLevel               string `yaml:"log_level"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	EnableRangeIndex       bool   `yaml:"enable_range_index"`
}

// SeedConfig controls loading of the demo fleet.
type SeedConfig struct {
	Enabled bool `yaml:"enabled"`
}

// FeedConfig holds the upstream booking feed configuration.
type FeedConfig struct {
	Enabled   bool        `yaml:"enabled"`
	Schedule  string      `yaml:"schedule"`
	HTTPProxy string      `yaml:"http_proxy"`
	Timezone  string      `yaml:"timezone"`
	Request   FeedRequest `yaml:"request"`
}

// FeedRequest defines the HTTP request for the feed.
type FeedRequest struct {
	URL      string            `yaml:"url"`
	Headers  map[string]string `yaml:"headers"`
	PageSize int               `yaml:"pageSize"`
	Payload  map[string]any    `yaml:"payload"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, suitable for
// tests and for running without a config file.
func Default() *Config {
	var cfg Config
	cfg.Seed.Enabled = true
	if err := cfg.applyDefaults(); err != nil {
		// The default timezone is always loadable through the fixed fallback.
		panic(err)
	}
	return &cfg
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cfg.Server.RedisLimitPerMinute <= 0 {
		cfg.Server.RedisLimitPerMinute = 600
	}

	if cfg.Log.Env == "" {
		cfg.Log.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Calendar.Timezone == "" {
		cfg.Calendar.Timezone = DefaultTimezone
	}
	loc, err := LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return err
	}
	cfg.Calendar.Location = loc
	if cfg.Calendar.MaxRangeDays <= 0 {
		cfg.Calendar.MaxRangeDays = 92
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "file:rental?mode=memory&cache=shared"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Feed.Schedule == "" {
		cfg.Feed.Schedule = DefaultFeedSchedule
	}
	if cfg.Feed.Timezone == "" {
		cfg.Feed.Timezone = cfg.Calendar.Timezone
	}
	if cfg.Feed.Request.PageSize <= 0 {
		cfg.Feed.Request.PageSize = 100
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}
	return nil
}

const (
	DefaultTimezone     = "Asia/Manila"
	DefaultFeedSchedule = "@every 60s"
)

// fixedZones covers the zones the service is deployed in when the host has
// no tzdata installed.
var fixedZones = map[string]*time.Location{
	"Asia/Manila": time.FixedZone("PHT", 8*60*60),
	"UTC":         time.UTC,
}

// LoadLocation resolves an IANA zone name.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}
	if fixed, ok := fixedZones[name]; ok {
		return fixed, nil
	}
	return nil, fmt.Errorf("load timezone %q: %w", name, err)
}
