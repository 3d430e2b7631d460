package catalog

import (
	"encoding/json"
	"fmt"
	"time"
)

// Source discriminates catalog-backed albums from hand-entered ones.
type Source string

const (
	// SourceCatalog marks an album imported from the external catalog with a
	// stable release identifier.
	SourceCatalog Source = "catalog"
	// SourceManual marks a hand-entered album with no external identifier.
	SourceManual Source = "manual"
)

// Track is one entry of an album's track list.
type Track struct {
	Name   string `json:"name"`
	Length string `json:"length"`
}

// EncodeTracks serializes a track list to its canonical comparable form.
// Struct marshaling keeps field order stable, so two equal lists always
// produce identical bytes.
func EncodeTracks(tracks []Track) (string, error) {
	if len(tracks) == 0 {
		return "", nil
	}
	data, err := json.Marshal(tracks)
	if err != nil {
		return "", fmt.Errorf("encode tracks: %w", err)
	}
	return string(data), nil
}

// DecodeTracks parses the canonical serialized form back into a track list.
func DecodeTracks(value string) ([]Track, error) {
	if value == "" {
		return nil, nil
	}
	var tracks []Track
	if err := json.Unmarshal([]byte(value), &tracks); err != nil {
		return nil, fmt.Errorf("decode tracks: %w", err)
	}
	return tracks, nil
}

// Album is a canonical record in the catalog, or a manual entry awaiting
// reconciliation. Albums are referenced by list entries, never duplicated
// into them.
type Album struct {
	ID          int64
	Source      Source
	ManualToken string // stable local identifier for manual entries
	ReleaseID   string // external catalog identifier; empty for manual entries
	Artist      string
	Title       string
	ReleaseDate string
	Country     string
	Genre1      string
	Genre2      string
	Tracks      []Track
	CoverImage  []byte
	CoverFormat string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// List groups entries for one shared list.
type List struct {
	ID        int64
	Name      string
	Year      int
	CreatedAt time.Time
}

// Overrides holds the per-entry values that intentionally differ from the
// referenced album. A nil field inherits from the album; genre fields are
// never overridable and therefore have no slot here.
type Overrides struct {
	Artist      *string
	Title       *string
	ReleaseDate *string
	Country     *string
	CoverImage  []byte
	CoverFormat *string
	Tracks      *string // canonical serialized track list
}

// Entry is one album slot on a list. AlbumID is zero when the entry carries
// no catalog reference.
type Entry struct {
	ID        int64
	ListID    int64
	AlbumID   int64
	Position  int
	Overrides Overrides
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pair is an unordered album id pair stored in canonical low/high order.
type Pair struct {
	Low  int64
	High int64
}

// NewPair builds the canonical ordering for two album ids.
func NewPair(a, b int64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// Usage describes one list entry that references an album.
type Usage struct {
	EntryID  int64
	ListID   int64
	ListName string
	ListYear int
}
