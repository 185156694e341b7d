package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Locator LocatorConfig `yaml:"locator" mapstructure:"locator"`
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
	Summary SummaryConfig `yaml:"summary" mapstructure:"summary"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// LocatorConfig configures the locator API client.
type LocatorConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Nearest     int     `yaml:"nearest" mapstructure:"nearest"`
	PageSize    int     `yaml:"page_size" mapstructure:"page_size"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DataConfig configures where snapshots live.
type DataConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ScrapeConfig configures the unit grid scrape.
type ScrapeConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// SummaryConfig configures the daily summary store backend.
type SummaryConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LOCATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("locator.nearest", 100000)
	v.SetDefault("locator.page_size", 2000)
	v.SetDefault("locator.rate_limit", 2.0)
	v.SetDefault("locator.timeout_secs", 60)
	v.SetDefault("data.dir", "data")
	v.SetDefault("scrape.concurrency", 20)
	v.SetDefault("summary.driver", "sqlite")
	v.SetDefault("summary.path", "data/summary.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration needed by a command group.
func (c *Config) Validate(group string) error {
	switch group {
	case "summary":
		switch c.Summary.Driver {
		case "sqlite":
			if c.Summary.Path == "" {
				return eris.New("config: summary.path is required for the sqlite driver")
			}
		case "postgres":
			if c.Summary.DatabaseURL == "" {
				return eris.New("config: summary.database_url is required for the postgres driver")
			}
		default:
			return eris.Errorf("config: unknown summary driver %q", c.Summary.Driver)
		}
	case "scrape":
		if c.Scrape.Concurrency <= 0 {
			return eris.New("config: scrape.concurrency must be positive")
		}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
