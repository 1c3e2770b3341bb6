package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/sponsored-cli/internal/recommend"
)

// Repository is the offline recommendation catalog.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS recommendations (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  branding TEXT,
  thumbnail_url TEXT,
  destination TEXT NOT NULL,
  origin TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recommendations_origin ON recommendations(origin);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repository) SaveRecommendations(ctx context.Context, recs []recommend.Recommendation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO recommendations (id, title, branding, thumbnail_url, destination, origin, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  branding=excluded.branding,
  thumbnail_url=excluded.thumbnail_url,
  destination=excluded.destination,
  origin=excluded.origin,
  updated_at=excluded.updated_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, rec := range recs {
		if rec.ID == "" {
			return fmt.Errorf("save recommendation %q: id is required", rec.Title)
		}
		_, err := stmt.ExecContext(
			ctx,
			rec.ID,
			rec.Title,
			rec.Branding,
			rec.ThumbnailURL,
			rec.Destination,
			rec.Origin,
			now,
		)
		if err != nil {
			return fmt.Errorf("save recommendation %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SampleSponsored returns up to limit sponsored recommendations in random
// order.
func (r *Repository) SampleSponsored(ctx context.Context, limit int) ([]recommend.Recommendation, error) {
	if limit < 1 {
		limit = 1
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, branding, thumbnail_url, destination, origin
FROM recommendations
WHERE origin = ?
ORDER BY RANDOM()
LIMIT ?
`, recommend.OriginSponsored, limit)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	recs := make([]recommend.Recommendation, 0, limit)
	for rows.Next() {
		var rec recommend.Recommendation
		var branding, thumbnail sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.Title,
			&branding,
			&thumbnail,
			&rec.Destination,
			&rec.Origin,
		); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		rec.Branding = branding.String
		rec.ThumbnailURL = thumbnail.String
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return recs, nil
}

func (r *Repository) CountRecommendations(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recommendations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recommendations: %w", err)
	}
	return n, nil
}
