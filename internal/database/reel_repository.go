package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/reelscope/reelscope/internal/domain"
)

// ReelRepository handles database operations for analyzed reels.
type ReelRepository struct {
	db *sqlx.DB
}

// NewReelRepository creates a new reel repository.
func NewReelRepository(db *sqlx.DB) *ReelRepository {
	return &ReelRepository{db: db}
}

// reelRow is the table shape. The data column carries the full serialized
// record; the scalar columns exist for lookups and sorting.
type reelRow struct {
	URL            string    `db:"url"`
	ReelID         string    `db:"reel_id"`
	Username       string    `db:"username"`
	Category       string    `db:"category"`
	EngagementRate float64   `db:"engagement_rate"`
	ViralityScore  int       `db:"virality_score"`
	PostDate       time.Time `db:"post_date"`
	LastUpdated    time.Time `db:"last_updated"`
	CreatedAt      time.Time `db:"created_at"`
	Data           []byte    `db:"data"`
}

func toRow(reel *domain.Reel) (*reelRow, error) {
	data, err := json.Marshal(reel)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reel: %w", err)
	}
	return &reelRow{
		URL:            reel.URL,
		ReelID:         reel.ReelID,
		Username:       reel.Username,
		Category:       reel.Category,
		EngagementRate: reel.EngagementRate,
		ViralityScore:  reel.ViralityScore,
		PostDate:       reel.PostDate,
		LastUpdated:    reel.LastUpdated,
		CreatedAt:      reel.CreatedAt,
		Data:           data,
	}, nil
}

func (row *reelRow) toDomain() (*domain.Reel, error) {
	var reel domain.Reel
	if err := json.Unmarshal(row.Data, &reel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reel %s: %w", row.URL, err)
	}
	return &reel, nil
}

// Upsert inserts or fully replaces the record for reel.URL. Whole-document
// semantics: an update rewrites every column, no field-level patching.
func (r *ReelRepository) Upsert(ctx context.Context, reel *domain.Reel) error {
	row, err := toRow(reel)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO reels (
			url, reel_id, username, category, engagement_rate,
			virality_score, post_date, last_updated, created_at, data
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (url) DO UPDATE SET
			reel_id = excluded.reel_id,
			username = excluded.username,
			category = excluded.category,
			engagement_rate = excluded.engagement_rate,
			virality_score = excluded.virality_score,
			post_date = excluded.post_date,
			last_updated = excluded.last_updated,
			data = excluded.data
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		row.URL,
		row.ReelID,
		row.Username,
		row.Category,
		row.EngagementRate,
		row.ViralityScore,
		row.PostDate,
		row.LastUpdated,
		row.CreatedAt,
		row.Data,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reel: %w", err)
	}

	return nil
}

// GetByURL retrieves one reel by its URL key.
func (r *ReelRepository) GetByURL(ctx context.Context, url string) (*domain.Reel, error) {
	var row reelRow
	query := `SELECT * FROM reels WHERE url = $1`

	err := r.db.GetContext(ctx, &row, query, url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reel: %w", err)
	}

	return row.toDomain()
}

// GetByURLs retrieves the stored records among the given URLs. URLs with no
// stored record are simply absent from the result.
func (r *ReelRepository) GetByURLs(ctx context.Context, urls []string) ([]domain.Reel, error) {
	if len(urls) == 0 {
		return []domain.Reel{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM reels WHERE url IN (?)`, urls)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []reelRow
	if selectErr := r.db.SelectContext(ctx, &rows, query, args...); selectErr != nil {
		return nil, fmt.Errorf("failed to get reels: %w", selectErr)
	}

	return rowsToDomain(rows)
}

// GetByUsername retrieves all stored reels for one author, newest post first.
func (r *ReelRepository) GetByUsername(ctx context.Context, username string) ([]domain.Reel, error) {
	query := `SELECT * FROM reels WHERE username = $1 ORDER BY post_date DESC`

	var rows []reelRow
	if err := r.db.SelectContext(ctx, &rows, query, username); err != nil {
		return nil, fmt.Errorf("failed to get reels for user: %w", err)
	}

	return rowsToDomain(rows)
}

func rowsToDomain(rows []reelRow) ([]domain.Reel, error) {
	reels := make([]domain.Reel, 0, len(rows))
	for i := range rows {
		reel, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		reels = append(reels, *reel)
	}
	return reels, nil
}
