package bootstrap

import (
	"fmt"

	"github.com/reelscope/reelscope/internal/config"
	"github.com/reelscope/reelscope/internal/logging"
)

// LoadConfig loads configuration from CONFIG_PATH (default config.yml).
// A missing file is fine; defaults plus environment are enough to run.
func LoadConfig() (*config.Config, error) {
	configPath := config.Path("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logging.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger.With("service", cfg.Service.Name), nil
}
