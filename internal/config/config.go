package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Host string `mapstructure:"HOST"`
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production | testing

	// Database
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"` // postgres://… overrides DatabasePath

	// Redis (empty disables the report cache)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Ingestion
	UseDemoData           bool    `mapstructure:"USE_DEMO_DATA"`
	ScrapingEnabled       bool    `mapstructure:"SCRAPING_ENABLED"`
	ScrapingIntervalHours int     `mapstructure:"SCRAPING_INTERVAL_HOURS"`
	RequestDelaySeconds   float64 `mapstructure:"REQUEST_DELAY_SECONDS"`
	MaxRetries            int     `mapstructure:"MAX_RETRIES"`

	// API
	ItemsPerPage       int `mapstructure:"ITEMS_PER_PAGE"`
	CacheTimeout       int `mapstructure:"CACHE_TIMEOUT"` // seconds
	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	Stores []StoreConfig `mapstructure:"-"`
}

// StoreConfig describes one store the scraper manager knows about.
// Key is the identifier used by the scrape endpoints ("coop").
type StoreConfig struct {
	Key      string
	Name     string
	Location string
	Website  string
	Phone    string
	Enabled  bool
}

// DefaultStores returns the Yellowknife stores in scrape order.
func DefaultStores() []StoreConfig {
	return []StoreConfig{
		{Key: "independent", Name: "Independent Grocer", Location: "5016 49 St, Yellowknife, NT", Website: "https://www.yourindependentgrocer.ca", Phone: "(867) 873-3003", Enabled: true},
		{Key: "extrafoods", Name: "Extra Foods", Location: "201 Range Lake Rd, Yellowknife, NT", Website: "https://www.extrafoods.ca", Phone: "(867) 873-4601", Enabled: true},
		{Key: "coop", Name: "The Co-op", Location: "4910 50 St, Yellowknife, NT", Website: "https://www.co-op.coop", Phone: "(867) 920-4571", Enabled: true},
		{Key: "saveon", Name: "Save-On-Foods", Location: "5015 50 Ave, Yellowknife, NT", Website: "https://www.saveonfoods.com", Phone: "(867) 766-4600", Enabled: true},
	}
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 5000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_PATH", "grocery_prices.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SCRAPING_ENABLED", true)
	v.SetDefault("SCRAPING_INTERVAL_HOURS", 6)
	v.SetDefault("REQUEST_DELAY_SECONDS", 2.0)
	v.SetDefault("MAX_RETRIES", 3)
	v.SetDefault("ITEMS_PER_PAGE", 25)
	v.SetDefault("CACHE_TIMEOUT", 300)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 1000)

	// Optional .env file for local development; a missing file is fine
	_ = v.ReadInConfig()

	// Production serves real data unless demo mode is asked for explicitly.
	v.SetDefault("USE_DEMO_DATA", !strings.EqualFold(v.GetString("APP_ENV"), "production"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.Stores = DefaultStores()
	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production behavior.
func (c *Config) IsProduction() bool { return strings.EqualFold(c.Env, "production") }

// DatabaseDSN is DATABASE_URL when set, otherwise the SQLite path.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// ScrapeInterval is the scheduler period. Non-positive values fall back to 6h.
func (c *Config) ScrapeInterval() time.Duration {
	if c.ScrapingIntervalHours <= 0 {
		return 6 * time.Hour
	}
	return time.Duration(c.ScrapingIntervalHours) * time.Hour
}

// RequestDelay is the pause between stores during a live scrape.
func (c *Config) RequestDelay() time.Duration {
	if c.RequestDelaySeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestDelaySeconds * float64(time.Second))
}

// CacheTTL is the lifetime of cached report projections.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTimeout) * time.Second
}

// Store returns the configuration for key, if any.
func (c *Config) Store(key string) (StoreConfig, bool) {
	for _, s := range c.Stores {
		if s.Key == key {
			return s, true
		}
	}
	return StoreConfig{}, false
}
