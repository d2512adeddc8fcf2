package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env
	for _, k := range []string{"APP_ENV", "PORT", "DATABASE_URL", "USE_DEMO_DATA", "SCRAPING_ENABLED", "SCRAPING_INTERVAL_HOURS"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "grocery_prices.db", cfg.DatabaseDSN())
	assert.True(t, cfg.UseDemoData)
	assert.True(t, cfg.ScrapingEnabled)
	assert.Equal(t, 6*time.Hour, cfg.ScrapeInterval())
	assert.Equal(t, 2*time.Second, cfg.RequestDelay())
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 25, cfg.ItemsPerPage)
	assert.Equal(t, 300*time.Second, cfg.CacheTTL())
	assert.Len(t, cfg.Stores, 4)
}

func TestLoad_ProductionDisablesDemoByDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("USE_DEMO_DATA", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.UseDemoData)

	t.Setenv("USE_DEMO_DATA", "true")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseDemoData)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/grocery")
	t.Setenv("SCRAPING_INTERVAL_HOURS", "0")
	t.Setenv("SCRAPING_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "postgres://u:p@localhost/grocery", cfg.DatabaseDSN())
	assert.False(t, cfg.ScrapingEnabled)
	assert.Equal(t, 6*time.Hour, cfg.ScrapeInterval(), "non-positive interval falls back")
}

func TestStoreLookup(t *testing.T) {
	cfg := &Config{Stores: DefaultStores()}
	s, ok := cfg.Store("coop")
	require.True(t, ok)
	assert.Equal(t, "The Co-op", s.Name)

	keys := make([]string, 0, len(cfg.Stores))
	for _, s := range cfg.Stores {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"independent", "extrafoods", "coop", "saveon"}, keys)

	_, ok = cfg.Store("walmart")
	assert.False(t, ok)
}
