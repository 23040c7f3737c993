// Package models defines data structures for configuration and analysis.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIConfig points at the remote paginated review category API.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	SharedSecret string        `mapstructure:"shared_secret"`
	PageSize     int           `mapstructure:"page_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Workers      int           `mapstructure:"workers"`
}

// ServerConfig configures the HTTP upload/analytics API.
type ServerConfig struct {
	Addr   string `mapstructure:"addr"`
	APIKey string `mapstructure:"api_key"`
}

// Config holds runtime configuration. Values come from an optional YAML
// file, RAA_* environment variables and finally CLI flags.
type Config struct {
	MaxRows       int           `mapstructure:"max_rows"`
	SampleSeed    int64         `mapstructure:"sample_seed"`
	MaxAspects    int           `mapstructure:"max_aspects"`
	MaxCategories int           `mapstructure:"max_categories"`
	Order         string        `mapstructure:"order"`
	TopN          int           `mapstructure:"top_n"`
	DBPath        string        `mapstructure:"db_path"`
	OutputDir     string        `mapstructure:"output_dir"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	LogLevel      string        `mapstructure:"log_level"`
	API           APIConfig     `mapstructure:"api"`
	Server        ServerConfig  `mapstructure:"server"`
}

const (
	DefaultMaxRows       = 500
	DefaultMaxAspects    = 1000
	DefaultMaxCategories = 500
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_rows", DefaultMaxRows)
	v.SetDefault("sample_seed", 42)
	v.SetDefault("max_aspects", DefaultMaxAspects)
	v.SetDefault("max_categories", DefaultMaxCategories)
	v.SetDefault("order", string(OrderDescending))
	v.SetDefault("top_n", 20)
	v.SetDefault("db_path", "")
	v.SetDefault("output_dir", "results")
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("api.base_url", "https://api.perigon.io/v1/internal/ca/reviewCategory")
	v.SetDefault("api.shared_secret", "")
	v.SetDefault("api.page_size", 20)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.workers", 4)
	v.SetDefault("server.addr", ":5001")
	v.SetDefault("server.api_key", "")
}

// LoadConfig reads configuration from path (optional) and the environment.
// An empty path looks for ./config.yaml and silently uses defaults when it
// does not exist.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RAA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, err := ParseOrder(cfg.Order); err != nil {
		return nil, err
	}
	return &cfg, nil
}
