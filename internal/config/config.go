// Package config loads application configuration from file and environment
// and initializes the global logger.
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
	ACS   ACSConfig   `yaml:"acs" mapstructure:"acs"`
	Tiger TigerConfig `yaml:"tiger" mapstructure:"tiger"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// ACSConfig configures access to the Census data API.
type ACSConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	Dataset     string  `yaml:"dataset" mapstructure:"dataset"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// TigerConfig configures TIGER/Line shapefile downloads.
type TigerConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	CacheDir    string  `yaml:"cache_dir" mapstructure:"cache_dir"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that the configuration can actually drive a run.
func (c *Config) Validate() error {
	var problems []string

	switch c.ACS.Dataset {
	case "acs1", "acs5":
	default:
		problems = append(problems, "acs.dataset must be acs1 or acs5")
	}
	if c.ACS.RateLimit <= 0 {
		problems = append(problems, "acs.rate_limit must be > 0")
	}
	if c.ACS.Concurrency < 1 || c.ACS.Concurrency > 64 {
		problems = append(problems, "acs.concurrency must be between 1 and 64")
	}
	if c.Tiger.CacheDir == "" {
		problems = append(problems, "tiger.cache_dir is required")
	}
	if c.Tiger.RateLimit <= 0 {
		problems = append(problems, "tiger.rate_limit must be > 0")
	}
	if c.Tiger.Concurrency < 1 || c.Tiger.Concurrency > 64 {
		problems = append(problems, "tiger.concurrency must be between 1 and 64")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BAMCENSUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("acs.base_url", "https://api.census.gov/data")
	v.SetDefault("acs.dataset", "acs5")
	v.SetDefault("acs.rate_limit", 10)
	v.SetDefault("acs.concurrency", 8)
	v.SetDefault("tiger.base_url", "https://www2.census.gov/geo/tiger")
	v.SetDefault("tiger.cache_dir", "tiger-cache")
	v.SetDefault("tiger.rate_limit", 4)
	v.SetDefault("tiger.concurrency", 4)
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
