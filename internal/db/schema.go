package db

import (
	"context"
	"fmt"
)

// schema holds the statements EnsureSchema applies, in order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tracks (
		position   BIGINT PRIMARY KEY,
		id         TEXT NOT NULL,
		name       TEXT NOT NULL,
		artists    TEXT NOT NULL,
		genre      TEXT NOT NULL,
		popularity DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_genre_lower ON tracks (lower(genre))`,
}

// EnsureSchema creates the catalog tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
