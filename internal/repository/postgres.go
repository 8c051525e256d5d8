package repository

import (
	"context"
	"fmt"

	"geoverify-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the table holding country bounding boxes.
const Schema = `
	CREATE TABLE IF NOT EXISTS country_boundaries (
		name TEXT PRIMARY KEY,
		min_lat DOUBLE PRECISION NOT NULL,
		max_lat DOUBLE PRECISION NOT NULL,
		min_lon DOUBLE PRECISION NOT NULL,
		max_lon DOUBLE PRECISION NOT NULL,
		CHECK (min_lat <= max_lat),
		CHECK (min_lon <= max_lon)
	);
`

// Repository stores country boundaries in PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the boundary table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// ListBoundaries returns every stored boundary ordered by name
func (r *Repository) ListBoundaries(ctx context.Context) ([]models.CountryBoundary, error) {
	sql := `
		SELECT name, min_lat, max_lat, min_lon, max_lon
		FROM country_boundaries
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query boundaries: %w", err)
	}

	boundaries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.CountryBoundary])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan boundaries: %w", err)
	}

	return boundaries, nil
}

// UpsertBoundaries inserts or replaces the given boundaries in a single batch.
// Names are stored lower-cased.
func (r *Repository) UpsertBoundaries(ctx context.Context, boundaries []models.CountryBoundary) error {
	sql := `
		INSERT INTO country_boundaries (name, min_lat, max_lat, min_lon, max_lon)
		VALUES (lower($1), $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			min_lat = EXCLUDED.min_lat,
			max_lat = EXCLUDED.max_lat,
			min_lon = EXCLUDED.min_lon,
			max_lon = EXCLUDED.max_lon
	`

	batch := &pgx.Batch{}
	for _, b := range boundaries {
		batch.Queue(sql, b.Name, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repository: failed to upsert boundaries: %w", err)
	}

	return nil
}
