package common

import (
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/aspect-analyzer/models"
)

// LoadConfig reads the config file named by --config and applies any
// global or command flags that were set explicitly.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("max-rows") {
		cfg.MaxRows = c.Int("max-rows")
	}
	if c.IsSet("seed") {
		cfg.SampleSeed = c.Int64("seed")
	}
	if c.IsSet("max-aspects") {
		cfg.MaxAspects = c.Int("max-aspects")
	}
	if c.IsSet("max-categories") {
		cfg.MaxCategories = c.Int("max-categories")
	}
	if c.IsSet("order") {
		if _, err := models.ParseOrder(c.String("order")); err != nil {
			return nil, err
		}
		cfg.Order = c.String("order")
	}
	if c.IsSet("top") {
		cfg.TopN = c.Int("top")
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	return cfg, nil
}

// NewLogger builds the JSON stderr logger. --quiet wins over the configured
// level.
func NewLogger(c *cli.Context, cfg *models.Config) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
