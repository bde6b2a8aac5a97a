package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/reelscope/reelscope/internal/config"
	"github.com/reelscope/reelscope/internal/database"
	"github.com/reelscope/reelscope/internal/logging"
)

// DatabaseComponents holds the database connection and repositories.
type DatabaseComponents struct {
	DB       *sqlx.DB
	ReelRepo *database.ReelRepository
}

// SetupDatabase connects to PostgreSQL, ensures the schema exists, and
// builds the repositories.
func SetupDatabase(ctx context.Context, cfg *config.Config, logger logging.Logger) (*DatabaseComponents, error) {
	logger.Info("Connecting to PostgreSQL database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Database,
	)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := database.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("Database connected successfully")

	return &DatabaseComponents{
		DB:       db,
		ReelRepo: database.NewReelRepository(db),
	}, nil
}
