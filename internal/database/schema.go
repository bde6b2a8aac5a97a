package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// reelsSchema is deliberately portable SQL: the service runs on PostgreSQL
// and the repository tests run on SQLite, so only types both understand
// appear here. Queryable fields get their own columns; the full record lives
// in the data JSON column.
const reelsSchema = `
CREATE TABLE IF NOT EXISTS reels (
	url             TEXT PRIMARY KEY,
	reel_id         TEXT NOT NULL,
	username        TEXT NOT NULL,
	category        TEXT NOT NULL,
	engagement_rate REAL NOT NULL,
	virality_score  INTEGER NOT NULL,
	post_date       TIMESTAMP NOT NULL,
	last_updated    TIMESTAMP NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	data            TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reels_username ON reels (username);
`

// EnsureSchema creates the reels table and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, reelsSchema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
