package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crate/internal/services"
)

// InsertList creates a new list.
func (s *Store) InsertList(ctx context.Context, name string, year int) (*List, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO lists (name, year, created_at) VALUES (?, ?, ?)",
		name, year, timestamp())
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &List{ID: id, Name: name, Year: year}, nil
}

// DeleteList removes a list row. Entries are left in place deliberately: the
// audit sweep reports them as orphans, mirroring what external tooling can do.
func (s *Store) DeleteList(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// AddEntry inserts a list entry with its resolved overrides.
func (s *Store) AddEntry(ctx context.Context, entry Entry) (*Entry, error) {
	if entry.ListID == 0 {
		return nil, services.Wrap(services.ErrValidation, "catalog", "add entry", "list id required", nil)
	}
	now := timestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO list_entries (
			list_id, album_id, position, artist, title, release_date, country,
			cover_image, cover_format, tracks_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ListID,
		nullableInt64(entry.AlbumID),
		entry.Position,
		overrideArg(entry.Overrides.Artist),
		overrideArg(entry.Overrides.Title),
		overrideArg(entry.Overrides.ReleaseDate),
		overrideArg(entry.Overrides.Country),
		entry.Overrides.CoverImage,
		overrideArg(entry.Overrides.CoverFormat),
		overrideArg(entry.Overrides.Tracks),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEntry(ctx, id)
}

// UpdateEntryOverrides replaces an entry's override values.
func (s *Store) UpdateEntryOverrides(ctx context.Context, entryID int64, ov Overrides) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE list_entries SET
			artist = ?, title = ?, release_date = ?, country = ?,
			cover_image = ?, cover_format = ?, tracks_json = ?, updated_at = ?
		WHERE id = ?`,
		overrideArg(ov.Artist),
		overrideArg(ov.Title),
		overrideArg(ov.ReleaseDate),
		overrideArg(ov.Country),
		ov.CoverImage,
		overrideArg(ov.CoverFormat),
		overrideArg(ov.Tracks),
		timestamp(),
		entryID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "update entry",
			fmt.Sprintf("entry %d", entryID), nil)
	}
	return nil
}

// GetEntry fetches one list entry by id.
func (s *Store) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, list_id, album_id, position, artist, title, release_date,
			country, cover_image, cover_format, tracks_json, created_at, updated_at
		FROM list_entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.Wrap(services.ErrNotFound, "catalog", "get entry", fmt.Sprintf("entry %d", id), nil)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// EntriesForAlbum returns the "used in" usage list for an album.
func (s *Store) EntriesForAlbum(ctx context.Context, albumID int64) ([]Usage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.list_id, COALESCE(l.name, ''), COALESCE(l.year, 0)
		FROM list_entries e
		LEFT JOIN lists l ON l.id = e.list_id
		WHERE e.album_id = ?
		ORDER BY e.id`, albumID)
	if err != nil {
		return nil, fmt.Errorf("entries for album: %w", err)
	}
	defer rows.Close()
	return scanUsages(rows)
}

// OrphanedManualUsage returns entries that reference a manual album but whose
// list row no longer exists. These are the data-integrity issues the manual
// audit reports alongside its matches.
func (s *Store) OrphanedManualUsage(ctx context.Context) ([]Usage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.list_id, '', 0
		FROM list_entries e
		JOIN albums a ON a.id = e.album_id AND a.source = ?
		LEFT JOIN lists l ON l.id = e.list_id
		WHERE l.id IS NULL
		ORDER BY e.id`, string(SourceManual))
	if err != nil {
		return nil, fmt.Errorf("orphaned manual usage: %w", err)
	}
	defer rows.Close()
	return scanUsages(rows)
}

func scanUsages(rows *sql.Rows) ([]Usage, error) {
	var usages []Usage
	for rows.Next() {
		var usage Usage
		if err := rows.Scan(&usage.EntryID, &usage.ListID, &usage.ListName, &usage.ListYear); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		usages = append(usages, usage)
	}
	return usages, rows.Err()
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry       Entry
		albumID     sql.NullInt64
		artist      sql.NullString
		title       sql.NullString
		releaseDate sql.NullString
		countryVal  sql.NullString
		coverFormat sql.NullString
		tracksJSON  sql.NullString
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(
		&entry.ID,
		&entry.ListID,
		&albumID,
		&entry.Position,
		&artist,
		&title,
		&releaseDate,
		&countryVal,
		&entry.Overrides.CoverImage,
		&coverFormat,
		&tracksJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.AlbumID = albumID.Int64
	entry.Overrides.Artist = nullableValue(artist)
	entry.Overrides.Title = nullableValue(title)
	entry.Overrides.ReleaseDate = nullableValue(releaseDate)
	entry.Overrides.Country = nullableValue(countryVal)
	entry.Overrides.CoverFormat = nullableValue(coverFormat)
	entry.Overrides.Tracks = nullableValue(tracksJSON)
	entry.CreatedAt = parseTimestamp(createdAt)
	entry.UpdatedAt = parseTimestamp(updatedAt)
	return &entry, nil
}

func overrideArg(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableValue(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
