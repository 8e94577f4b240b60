package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. TJ_SERVER_ADDR.
const EnvPrefix = "TJ"

// Storage backends.
const (
	StorageMem    = "mem"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config is the complete journal configuration.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server" split_words:"true"`
	Storage    StorageConfig    `json:"storage" yaml:"storage" split_words:"true"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging" split_words:"true"`
	Discipline DisciplineConfig `json:"discipline" yaml:"discipline" split_words:"true"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr            string          `json:"addr" yaml:"addr" split_words:"true"`
	ReadTimeout     time.Duration   `json:"read_timeout" yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration   `json:"write_timeout" yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration   `json:"idle_timeout" yaml:"idle_timeout" split_words:"true"`
	ShutdownTimeout time.Duration   `json:"shutdown_timeout" yaml:"shutdown_timeout" split_words:"true"`
	RateLimit       RateLimitConfig `json:"rate_limit" yaml:"rate_limit" split_words:"true"`
}

// RateLimitConfig is a token bucket applied to the whole API.
type RateLimitConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled" split_words:"true"`
	RPS     float64 `json:"rps" yaml:"rps" split_words:"true"`
	Burst   int     `json:"burst" yaml:"burst" split_words:"true"`
}

// StorageConfig selects and parameterizes the trade store
type StorageConfig struct {
	Type   string      `json:"type" yaml:"type" split_words:"true"` // mem, file, sqlite or redis
	Path   string      `json:"path,omitempty" yaml:"path,omitempty" split_words:"true"`
	DBPath string      `json:"db_path,omitempty" yaml:"db_path,omitempty" split_words:"true"`
	Redis  RedisConfig `json:"redis" yaml:"redis" split_words:"true"`
}

type RedisConfig struct {
	Addr           string        `json:"addr" yaml:"addr" split_words:"true"`
	Password       string        `json:"password,omitempty" yaml:"password,omitempty" split_words:"true"`
	DB             int           `json:"db" yaml:"db" split_words:"true"`
	Prefix         string        `json:"prefix,omitempty" yaml:"prefix,omitempty" split_words:"true"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout" split_words:"true"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" split_words:"true"`
	Format string `json:"format" yaml:"format" split_words:"true"` // console or json
}

// DisciplineConfig sets the trading limits "tj check" enforces. Zero
// disables a limit; the tilt threshold lives in the journal settings.
type DisciplineConfig struct {
	MaxDailyLossR   float64 `json:"max_daily_loss_r" yaml:"max_daily_loss_r" split_words:"true"`
	MaxWeeklyLossR  float64 `json:"max_weekly_loss_r" yaml:"max_weekly_loss_r" split_words:"true"`
	MaxRiskPct      float64 `json:"max_risk_pct" yaml:"max_risk_pct" split_words:"true"`
	MaxTradesPerDay int     `json:"max_trades_per_day" yaml:"max_trades_per_day" split_words:"true"`
}

// Load builds the effective configuration: defaults, then the config file
// at path (skipped when empty), then TJ_* environment variables. Variables
// from envFile are exported first when that file exists; existing
// environment variables win over it.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file over the defaults, without
// environment overrides.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, c); err != nil {
		if jerr := json.Unmarshal(data, c); jerr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return nil
}

// SaveToFile saves configuration as YAML for .yaml/.yml paths and JSON
// otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.RPS <= 0 || rl.Burst <= 0) {
		return fmt.Errorf("server.rate_limit rps and burst must be positive when enabled")
	}

	switch c.Storage.Type {
	case StorageMem:
	case StorageFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path required for file type")
		}
	case StorageSQLite:
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path required for sqlite type")
		}
	case StorageRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr required for redis type")
		}
		if c.Storage.Redis.DB < 0 {
			return fmt.Errorf("storage.redis.db must not be negative")
		}
	default:
		return fmt.Errorf("storage.type must be one of mem, file, sqlite, redis")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil || c.Logging.Level == "" {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'console' or 'json'")
	}

	if d := c.Discipline; d.MaxDailyLossR < 0 || d.MaxWeeklyLossR < 0 || d.MaxRiskPct < 0 || d.MaxTradesPerDay < 0 {
		return fmt.Errorf("discipline limits must not be negative")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:5000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Storage: StorageConfig{
			Type: StorageFile,
			Path: "./journal.json",
			Redis: RedisConfig{
				Addr:           "localhost:6379",
				ConnectTimeout: 10 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Discipline: DisciplineConfig{
			MaxDailyLossR:  3,
			MaxWeeklyLossR: 6,
			MaxRiskPct:     2,
		},
	}
}
