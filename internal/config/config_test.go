package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clusterhealthz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name     string
		yaml     string
		expected *Config
		wantErr  bool
	}{
		{
			name: "valid_full_config",
			yaml: `
listen: ":9000"
watchlist_file: "/etc/clusterhealthz/alerts.conf"
prometheus_url: "http://prometheus:9090"
query_timeout: "2s"
log:
  level: "debug"
  format: "console"
`,
			expected: &Config{
				Listen:          ":9000",
				WatchlistFile:   "/etc/clusterhealthz/alerts.conf",
				PrometheusURL:   "http://prometheus:9090",
				QueryTimeoutStr: "2s",
				QueryTimeout:    2 * time.Second,
				Log:             LogConfig{Level: "debug", Format: "console"},
			},
		},
		{
			name: "empty_config_uses_defaults",
			yaml: "",
			expected: &Config{
				Listen:        DefaultListen,
				WatchlistFile: DefaultWatchlistFile,
				PrometheusURL: DefaultPrometheusURL,
				QueryTimeout:  DefaultQueryTimeout,
				Log:           LogConfig{Level: "info", Format: "json"},
			},
		},
		{
			name: "bare_host_port_gets_http_scheme",
			yaml: `prometheus_url: "service-prometheus.monitoring:9090"`,
			expected: &Config{
				Listen:        DefaultListen,
				WatchlistFile: DefaultWatchlistFile,
				PrometheusURL: "http://service-prometheus.monitoring:9090",
				QueryTimeout:  DefaultQueryTimeout,
				Log:           LogConfig{Level: "info", Format: "json"},
			},
		},
		{
			name:    "invalid_yaml",
			yaml:    "listen: [",
			wantErr: true,
		},
		{
			name:    "invalid_query_timeout",
			yaml:    `query_timeout: "five seconds"`,
			wantErr: true,
		},
		{
			name:    "invalid_log_level",
			yaml:    "log:\n  level: verbose\n",
			wantErr: true,
		},
		{
			name:    "invalid_log_format",
			yaml:    "log:\n  format: xml\n",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.yaml)
			cfg, err := Load(path)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, DefaultWatchlistFile, cfg.WatchlistFile)
	assert.Equal(t, DefaultPrometheusURL, cfg.PrometheusURL)
	assert.Equal(t, DefaultQueryTimeout, cfg.QueryTimeout)
	assert.True(t, cfg.WatchEnabled())
}

func TestWatchEnabled(t *testing.T) {
	path := writeConfig(t, "watch_config: false\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.WatchEnabled())

	path = writeConfig(t, "watch_config: true\n")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.WatchEnabled())
}
