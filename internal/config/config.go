// Package config loads service configuration from YAML with environment
// variable overrides.
package config

import "time"

// Default configuration values.
const (
	defaultServiceName     = "reelscope"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8090
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "reelscope"
	defaultDBSSLMode       = "disable"
	defaultDBMaxConns      = 25
	defaultDBMaxIdleConns  = 5
	defaultScrapeTimeout   = 120 * time.Second
	defaultScrapeRPM       = 30
	defaultAnalysisModel   = "gemini-2.5-pro"
	defaultAnalysisTimeout = 60 * time.Second
	defaultMaxOutputTokens = 4096
	defaultCacheFreshness  = time.Hour
	defaultLogLevel        = "info"
)

// Config holds all configuration for the reelscope service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"REELSCOPE_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"      yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// ScraperConfig holds scraping-provider configuration. Providers lists the
// fallback chain in preference order; unknown names are rejected at startup.
type ScraperConfig struct {
	ApifyToken        string        `env:"APIFY_API_KEY" yaml:"apify_token"`
	RapidAPIKey       string        `env:"RAPIDAPI_KEY"  yaml:"rapidapi_key"`
	Providers         []string      `env:"SCRAPER_PROVIDERS" yaml:"providers"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
}

// AnalysisConfig holds hosted-model configuration. APIKey is required: the
// analysis gateway refuses to construct without it.
type AnalysisConfig struct {
	APIKey          string        `env:"GEMINI_API_KEY" yaml:"api_key"`
	Model           string        `yaml:"model"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
}

// CacheConfig holds the read-through freshness policy for stored records.
type CacheConfig struct {
	Freshness time.Duration `env:"CACHE_FRESHNESS" yaml:"freshness"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setScraperDefaults(&cfg.Scraper)
	setAnalysisDefaults(&cfg.Analysis)
	if cfg.Cache.Freshness == 0 {
		cfg.Cache.Freshness = defaultCacheFreshness
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setScraperDefaults(s *ScraperConfig) {
	if len(s.Providers) == 0 {
		s.Providers = []string{"apify", "rapidapi", "html"}
	}
	if s.RequestsPerMinute == 0 {
		s.RequestsPerMinute = defaultScrapeRPM
	}
	if s.Timeout == 0 {
		s.Timeout = defaultScrapeTimeout
	}
}

func setAnalysisDefaults(a *AnalysisConfig) {
	if a.Model == "" {
		a.Model = defaultAnalysisModel
	}
	if a.Timeout == 0 {
		a.Timeout = defaultAnalysisTimeout
	}
	if a.MaxOutputTokens == 0 {
		a.MaxOutputTokens = defaultMaxOutputTokens
	}
}
