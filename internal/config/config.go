package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/xtding233/dropcalc/internal/logger"
)

// Config holds the command line tool's settings.
type Config struct {
	CatalogDir    string        `env:"DROPCALC_CATALOG_DIR"    envDefault:"config"`
	LogLevel      string        `env:"DROPCALC_LOG_LEVEL"      envDefault:"info"`
	LogFormat     string        `env:"DROPCALC_LOG_FORMAT"     envDefault:"text"`
	Environment   string        `env:"DROPCALC_ENV"            envDefault:"dev"`
	CacheSize     int           `env:"DROPCALC_CACHE_SIZE"     envDefault:"128"`
	MaxPoints     int           `env:"DROPCALC_MAX_POINTS"     envDefault:"60"`
	WatchInterval time.Duration `env:"DROPCALC_WATCH_INTERVAL" envDefault:"2s"`
}

// Load reads a .env file when present, then the environment.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is fine, real env vars may be set instead
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxPoints < 2 {
		return nil, fmt.Errorf("DROPCALC_MAX_POINTS must be >= 2, got %d", cfg.MaxPoints)
	}
	if cfg.WatchInterval <= 0 {
		return nil, fmt.Errorf("DROPCALC_WATCH_INTERVAL must be positive, got %s", cfg.WatchInterval)
	}
	return &cfg, nil
}

// Logger returns the logger settings derived from c.
func (c *Config) Logger(version string) logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	lc.Environment = c.Environment
	lc.Version = version
	return lc
}
