package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"crate/internal/services"
)

const albumColumns = `id, source, manual_token, release_id, artist, title, release_date,
	country, genre1, genre2, tracks_json, cover_image, cover_format, created_at, updated_at`

// InsertAlbum stores a new album and returns it with its assigned id. Manual
// entries receive a generated token so they can be referenced stably before
// (or instead of) gaining an external release id.
func (s *Store) InsertAlbum(ctx context.Context, album Album) (*Album, error) {
	if album.Source == "" {
		album.Source = SourceCatalog
	}
	if album.Source == SourceManual && album.ManualToken == "" {
		album.ManualToken = uuid.NewString()
	}
	if album.Source == SourceManual && album.ReleaseID != "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "insert album", "manual entries must not carry a release id", nil)
	}

	tracksJSON, err := EncodeTracks(album.Tracks)
	if err != nil {
		return nil, fmt.Errorf("insert album: %w", err)
	}

	now := timestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO albums (
			source, manual_token, release_id, artist, title, release_date,
			country, genre1, genre2, tracks_json, cover_image, cover_format,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(album.Source),
		nullableString(album.ManualToken),
		nullableString(album.ReleaseID),
		album.Artist,
		album.Title,
		album.ReleaseDate,
		album.Country,
		album.Genre1,
		album.Genre2,
		nullableString(tracksJSON),
		album.CoverImage,
		nullableString(album.CoverFormat),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert album: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetAlbum(ctx, id)
}

// GetAlbum fetches one album by id. Returns ErrNotFound when absent.
func (s *Store) GetAlbum(ctx context.Context, id int64) (*Album, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM albums WHERE id = ?", albumColumns), id)
	album, err := scanAlbum(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.Wrap(services.ErrNotFound, "catalog", "get album", fmt.Sprintf("album %d", id), nil)
		}
		return nil, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

// ListAlbums returns albums ordered by id. When source is non-empty, only
// albums from that source are returned.
func (s *Store) ListAlbums(ctx context.Context, source Source) ([]Album, error) {
	query := fmt.Sprintf("SELECT %s FROM albums", albumColumns)
	args := []any{}
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, string(source))
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, *album)
	}
	return albums, rows.Err()
}

// BulkFetchByID fetches every listed album in a single query. Missing ids are
// simply absent from the result; the caller decides whether that matters.
func (s *Store) BulkFetchByID(ctx context.Context, ids []int64) ([]Album, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf("SELECT %s FROM albums WHERE id IN (%s)",
		albumColumns, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bulk fetch albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, *album)
	}
	return albums, rows.Err()
}

// Merge repoints every list entry from loser to survivor, removes exclusions
// that mention the loser, and deletes the loser, all in one transaction.
// Merging a pair where either side no longer exists is an integrity
// violation, so re-running an already-applied merge fails loudly.
func (s *Store) Merge(ctx context.Context, survivorID, loserID int64) error {
	if survivorID == loserID {
		return services.Wrap(services.ErrValidation, "catalog", "merge", "survivor and loser must differ", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range []int64{survivorID, loserID} {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM albums WHERE id = ?", id).Scan(&count); err != nil {
			return fmt.Errorf("verify album %d: %w", id, err)
		}
		if count == 0 {
			return services.Wrap(services.ErrIntegrity, "catalog", "merge",
				fmt.Sprintf("album %d does not exist", id), nil)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE list_entries SET album_id = ?, updated_at = ? WHERE album_id = ?",
		survivorID, timestamp(), loserID); err != nil {
		return fmt.Errorf("repoint entries: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM distinct_pairs WHERE id_low = ? OR id_high = ?",
		loserID, loserID); err != nil {
		return fmt.Errorf("drop loser exclusions: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM albums WHERE id = ?", loserID); err != nil {
		return fmt.Errorf("delete loser: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlbum(row rowScanner) (*Album, error) {
	var (
		album       Album
		source      string
		manualToken sql.NullString
		releaseID   sql.NullString
		tracksJSON  sql.NullString
		coverFormat sql.NullString
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(
		&album.ID,
		&source,
		&manualToken,
		&releaseID,
		&album.Artist,
		&album.Title,
		&album.ReleaseDate,
		&album.Country,
		&album.Genre1,
		&album.Genre2,
		&tracksJSON,
		&album.CoverImage,
		&coverFormat,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	album.Source = Source(source)
	album.ManualToken = manualToken.String
	album.ReleaseID = releaseID.String
	album.CoverFormat = coverFormat.String
	album.CreatedAt = parseTimestamp(createdAt)
	album.UpdatedAt = parseTimestamp(updatedAt)
	if tracksJSON.Valid {
		tracks, err := DecodeTracks(tracksJSON.String)
		if err != nil {
			return nil, err
		}
		album.Tracks = tracks
	}
	return &album, nil
}
