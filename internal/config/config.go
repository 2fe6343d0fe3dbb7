package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/0x234/clusterhealthz/internal/util"
)

const (
	DefaultListen        = ":8080"
	DefaultWatchlistFile = "config/clusterhealthz.conf"
	DefaultPrometheusURL = "http://service-prometheus.monitoring:9090"
	DefaultQueryTimeout  = 5 * time.Second
)

type Config struct {
	Listen          string    `yaml:"listen"`
	WatchlistFile   string    `yaml:"watchlist_file"`
	PrometheusURL   string    `yaml:"prometheus_url"`
	QueryTimeoutStr string    `yaml:"query_timeout"` // e.g., "5s", "500ms"
	WatchConfig     *bool     `yaml:"watch_config"`  // fsnotify on the watch-list file
	Log             LogConfig `yaml:"log"`

	QueryTimeout time.Duration `yaml:"-"` // Derived
}

type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// WatchEnabled reports whether the watch-list file should be watched with
// fsnotify in addition to SIGHUP. Defaults to true when unset.
func (c *Config) WatchEnabled() bool {
	return c.WatchConfig == nil || *c.WatchConfig
}

// Load reads the service configuration from filePath. A missing file is not
// an error: every option has a default so the service can run from flags
// alone. A present but malformed file is an error.
func Load(filePath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config YAML from %s: %w", filePath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if strings.TrimSpace(c.Listen) == "" {
		c.Listen = DefaultListen
	}
	if strings.TrimSpace(c.WatchlistFile) == "" {
		c.WatchlistFile = DefaultWatchlistFile
	}
	if strings.TrimSpace(c.PrometheusURL) == "" {
		c.PrometheusURL = DefaultPrometheusURL
	}
	if !strings.Contains(c.PrometheusURL, "://") {
		// The original deployment configured host:port only.
		c.PrometheusURL = "http://" + c.PrometheusURL
	}

	if c.QueryTimeoutStr == "" {
		c.QueryTimeout = DefaultQueryTimeout
	} else {
		d, err := util.ParseDurationString(c.QueryTimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid query_timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("query_timeout must be positive, got %q", c.QueryTimeoutStr)
		}
		c.QueryTimeout = d
	}

	switch strings.ToLower(c.Log.Level) {
	case "":
		c.Log.Level = "info"
	case "debug", "info", "warn", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "":
		c.Log.Format = "json"
	case "json", "console":
		c.Log.Format = strings.ToLower(c.Log.Format)
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	return nil
}
