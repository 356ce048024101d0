package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/pulseplay/internal/catalog"
)

// TrackRepository handles catalog track database operations.
type TrackRepository struct {
	pool *pgxpool.Pool
}

// ReplaceAll swaps the stored catalog for tracks in a single transaction.
// Track order is stored in the position column.
func (r *TrackRepository) ReplaceAll(ctx context.Context, tracks []catalog.Track) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tracks`); err != nil {
		return fmt.Errorf("clearing tracks: %w", err)
	}

	if len(tracks) > 0 {
		query := `
			INSERT INTO tracks (position, id, name, artists, genre, popularity)
			SELECT * FROM unnest($1::bigint[], $2::text[], $3::text[], $4::text[], $5::text[], $6::float8[])
		`

		positions := make([]int64, len(tracks))
		ids := make([]string, len(tracks))
		names := make([]string, len(tracks))
		artists := make([]string, len(tracks))
		genres := make([]string, len(tracks))
		popularities := make([]float64, len(tracks))

		for i, t := range tracks {
			positions[i] = int64(i)
			ids[i] = t.ID
			names[i] = t.Name
			artists[i] = t.Artists
			genres[i] = t.Genre
			popularities[i] = t.Popularity
		}

		_, err = tx.Exec(ctx, query, positions, ids, names, artists, genres, popularities)
		if err != nil {
			return fmt.Errorf("inserting tracks: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// All retrieves every stored track in catalog order.
func (r *TrackRepository) All(ctx context.Context) ([]catalog.Track, error) {
	query := `
		SELECT id, name, artists, genre, popularity
		FROM tracks
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	defer rows.Close()

	var tracks []catalog.Track
	for rows.Next() {
		var track catalog.Track
		if err := rows.Scan(
			&track.ID,
			&track.Name,
			&track.Artists,
			&track.Genre,
			&track.Popularity,
		); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// Count returns the number of stored tracks.
func (r *TrackRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM tracks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting tracks: %w", err)
	}
	return n, nil
}

// LoadCatalog reads the stored tracks into an in-memory catalog.
// It returns ErrNotFound when the table is empty.
func (db *DB) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	tracks, err := db.Tracks().All(ctx)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("loading catalog: %w", ErrNotFound)
	}
	return catalog.New(tracks), nil
}
