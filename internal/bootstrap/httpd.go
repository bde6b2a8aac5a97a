package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/reelscope/reelscope/internal/aggregator"
	"github.com/reelscope/reelscope/internal/analysis"
	"github.com/reelscope/reelscope/internal/api"
	"github.com/reelscope/reelscope/internal/config"
	"github.com/reelscope/reelscope/internal/logging"
	"github.com/reelscope/reelscope/internal/reconciler"
	"github.com/reelscope/reelscope/internal/scraper"
	"github.com/reelscope/reelscope/internal/telemetry"
)

const defaultShutdownTimeout = 30 * time.Second

// HTTPComponents holds everything the HTTP server needs.
type HTTPComponents struct {
	DB     *sqlx.DB
	Server *api.Server
}

// NewHTTPComponents wires the full service: database, scraper chain,
// analysis gateway, reconciler, aggregator, and the HTTP server.
func NewHTTPComponents(ctx context.Context, cfg *config.Config, logger logging.Logger) (*HTTPComponents, error) {
	dbComps, err := SetupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	tel := telemetry.NewProvider()

	scrape, err := scraper.New(cfg.Scraper, tel, logger)
	if err != nil {
		_ = dbComps.DB.Close()
		return nil, fmt.Errorf("build scraper chain: %w", err)
	}
	logger.Info("Scraper chain initialized", "providers", cfg.Scraper.Providers)

	gateway, err := analysis.NewGateway(cfg.Analysis, tel, logger)
	if err != nil {
		_ = dbComps.DB.Close()
		return nil, fmt.Errorf("build analysis gateway: %w", err)
	}
	logger.Info("Analysis gateway initialized", "model", cfg.Analysis.Model)

	reconcilerSvc := reconciler.New(dbComps.ReelRepo, scrape, gateway, tel, cfg.Cache.Freshness, logger)
	aggregatorSvc := aggregator.New(dbComps.ReelRepo, tel, logger)

	handler := api.NewHandler(
		reconcilerSvc,
		aggregatorSvc,
		dbComps.DB,
		logger,
		cfg.Service.Name,
		cfg.Service.Version,
	)

	serverConfig := api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}
	server := api.NewServer(handler, tel, serverConfig, logger)

	return &HTTPComponents{
		DB:     dbComps.DB,
		Server: server,
	}, nil
}

// HTTPShutdownTimeout returns the timeout for HTTP server graceful shutdown.
func HTTPShutdownTimeout() time.Duration {
	return defaultShutdownTimeout
}
