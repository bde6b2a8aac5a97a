//nolint:testpackage // Exercises unexported default helpers directly
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yml"))
	require.NoError(t, err)

	assert.Equal(t, "reelscope", cfg.Service.Name)
	assert.Equal(t, defaultServicePort, cfg.Service.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, []string{"apify", "rapidapi", "html"}, cfg.Scraper.Providers)
	assert.Equal(t, defaultAnalysisModel, cfg.Analysis.Model)
	assert.Equal(t, time.Hour, cfg.Cache.Freshness)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_YAMLFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	contents := `
service:
  port: 9001
  debug: true
database:
  host: db.internal
scraper:
  providers: [html]
  requests_per_minute: 10
cache:
  freshness: 30m
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Service.Port)
	assert.True(t, cfg.Service.Debug)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, []string{"html"}, cfg.Scraper.Providers)
	assert.Equal(t, 10, cfg.Scraper.RequestsPerMinute)
	assert.Equal(t, 30*time.Minute, cfg.Cache.Freshness)

	// Untouched sections still get defaults.
	assert.Equal(t, defaultDBUser, cfg.Database.User)
	assert.Equal(t, defaultScrapeTimeout, cfg.Scraper.Timeout)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	contents := `
service:
  port: 9001
database:
  host: db.internal
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv("REELSCOPE_PORT", "9002")
	t.Setenv("POSTGRES_HOST", "db.override")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SCRAPER_PROVIDERS", "rapidapi, html")
	t.Setenv("CACHE_FRESHNESS", "2h")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9002, cfg.Service.Port)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, "test-key", cfg.Analysis.APIKey)
	assert.Equal(t, []string{"rapidapi", "html"}, cfg.Scraper.Providers)
	assert.Equal(t, 2*time.Hour, cfg.Cache.Freshness)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("service: [not a mapping"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "config.yml", Path("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/reelscope/config.yml")
	assert.Equal(t, "/etc/reelscope/config.yml", Path("config.yml"))
}
