package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100000, cfg.Locator.Nearest)
	assert.Equal(t, 2000, cfg.Locator.PageSize)
	assert.Equal(t, 2.0, cfg.Locator.RateLimit)
	assert.Equal(t, 60, cfg.Locator.TimeoutSecs)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, 20, cfg.Scrape.Concurrency)
	assert.Equal(t, "sqlite", cfg.Summary.Driver)
	assert.Equal(t, "data/summary.db", cfg.Summary.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
locator:
  nearest: 500
  rate_limit: 0.5
data:
  dir: /var/lib/locator
scrape:
  concurrency: 4
summary:
  driver: postgres
  database_url: postgres://localhost/locator
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Locator.Nearest)
	assert.Equal(t, 0.5, cfg.Locator.RateLimit)
	assert.Equal(t, "/var/lib/locator", cfg.Data.Dir)
	assert.Equal(t, 4, cfg.Scrape.Concurrency)
	assert.Equal(t, "postgres", cfg.Summary.Driver)
	assert.Equal(t, "postgres://localhost/locator", cfg.Summary.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, 2000, cfg.Locator.PageSize)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_Summary(t *testing.T) {
	cfg := &Config{Summary: SummaryConfig{Driver: "sqlite", Path: "data/summary.db"}}
	assert.NoError(t, cfg.Validate("summary"))

	cfg.Summary.Path = ""
	assert.Error(t, cfg.Validate("summary"))

	cfg.Summary = SummaryConfig{Driver: "postgres"}
	assert.Error(t, cfg.Validate("summary"))
	cfg.Summary.DatabaseURL = "postgres://localhost/locator"
	assert.NoError(t, cfg.Validate("summary"))

	cfg.Summary.Driver = "oracle"
	assert.Error(t, cfg.Validate("summary"))
}

func TestValidate_Scrape(t *testing.T) {
	cfg := &Config{Scrape: ScrapeConfig{Concurrency: 20}}
	assert.NoError(t, cfg.Validate("scrape"))

	cfg.Scrape.Concurrency = 0
	assert.Error(t, cfg.Validate("scrape"))
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.Error(t, InitLogger(LogConfig{Level: "shouty", Format: "json"}))
}
