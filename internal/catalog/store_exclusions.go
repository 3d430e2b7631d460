package catalog

import (
	"context"
	"fmt"

	"crate/internal/services"
)

// InsertExclusion records an operator judgment that two albums are not
// duplicates. The pair is stored in canonical low/high order so (A,B) and
// (B,A) are the same row; inserting an already-excluded pair is a no-op.
func (s *Store) InsertExclusion(ctx context.Context, a, b int64) error {
	if a == b {
		return services.Wrap(services.ErrValidation, "catalog", "insert exclusion", "a pair needs two distinct albums", nil)
	}

	for _, id := range []int64{a, b} {
		var count int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM albums WHERE id = ?", id).Scan(&count); err != nil {
			return fmt.Errorf("verify album %d: %w", id, err)
		}
		if count == 0 {
			return services.Wrap(services.ErrIntegrity, "catalog", "insert exclusion",
				fmt.Sprintf("album %d does not exist", id), nil)
		}
	}

	pair := NewPair(a, b)
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO distinct_pairs (id_low, id_high, created_at) VALUES (?, ?, ?)",
		pair.Low, pair.High, timestamp())
	if err != nil {
		return fmt.Errorf("insert exclusion: %w", err)
	}
	return nil
}

// IsExcluded reports whether the pair has been marked distinct, in either order.
func (s *Store) IsExcluded(ctx context.Context, a, b int64) (bool, error) {
	pair := NewPair(a, b)
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM distinct_pairs WHERE id_low = ? AND id_high = ?",
		pair.Low, pair.High).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check exclusion: %w", err)
	}
	return count > 0, nil
}

// ListExclusions returns every stored pair.
func (s *Store) ListExclusions(ctx context.Context) ([]Pair, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id_low, id_high FROM distinct_pairs ORDER BY id_low, id_high")
	if err != nil {
		return nil, fmt.Errorf("list exclusions: %w", err)
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		var pair Pair
		if err := rows.Scan(&pair.Low, &pair.High); err != nil {
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}
