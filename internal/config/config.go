package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port   int    `yaml:"port"`
		APIKey string `yaml:"api_key"`
		// MaxCalendarDays caps the span of calendar requests.
		MaxCalendarDays int `yaml:"max_calendar_days"`
		// RateLimitRPS / RateLimitBurst configure the token bucket guarding
		// the API. Zero disables limiting.
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
		RateLimitBurst int     `yaml:"rate_limit_burst"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Backup BackupConfig `yaml:"backup"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	StoragePath   string `yaml:"storage_path"`
	IntervalHours int    `yaml:"interval_hours"`
	RetentionDays int    `yaml:"retention_days"`
}

// Interval returns the backup period with a daily default.
func (b BackupConfig) Interval() time.Duration {
	if b.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(b.IntervalHours) * time.Hour
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/villetta.db"
	}
	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ServerPort returns the API port with a default.
func (c *Config) ServerPort() int {
	if c.Server.Port <= 0 {
		return 8080
	}
	return c.Server.Port
}

// MaxCalendarDays returns the calendar span cap with a default.
func (c *Config) MaxCalendarDays() int {
	if c.Server.MaxCalendarDays <= 0 {
		return 90
	}
	return c.Server.MaxCalendarDays
}

// CacheTTL returns the Redis cache TTL; zero means caching is disabled.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}
