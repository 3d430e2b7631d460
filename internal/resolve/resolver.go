package resolve

import (
	"bytes"
	"context"
	"log/slog"

	"crate/internal/catalog"
	"crate/internal/logging"
	"crate/internal/textutil"
)

// Field identifies a mutable list-entry field.
type Field int

const (
	FieldArtist Field = iota
	FieldTitle
	FieldReleaseDate
	FieldCountry
	FieldGenre1
	FieldGenre2
)

// IsGenre reports whether the field is a genre slot. Genre fields always
// inherit: the canonical record is their sole source of truth.
func (f Field) IsGenre() bool {
	return f == FieldGenre1 || f == FieldGenre2
}

func (f Field) String() string {
	switch f {
	case FieldArtist:
		return "artist"
	case FieldTitle:
		return "title"
	case FieldReleaseDate:
		return "release_date"
	case FieldCountry:
		return "country"
	case FieldGenre1:
		return "genre1"
	case FieldGenre2:
		return "genre2"
	default:
		return "unknown"
	}
}

// Decision states whether a list entry keeps its own value for a field or
// inherits the canonical one. Modeling this explicitly avoids the ambiguity
// between "no value" and "value happens to be empty".
type Decision int

const (
	// Inherit means nothing is stored; the entry reads through to the album.
	Inherit Decision = iota
	// Override means the entry stores its own value.
	Override
)

func (d Decision) String() string {
	if d == Override {
		return "override"
	}
	return "inherit"
}

// Resolver decides, per field, whether a list-entry value is worth storing or
// should silently inherit from the referenced canonical record.
type Resolver struct {
	cache  *Cache
	logger *slog.Logger
}

// NewResolver builds a resolver over a batch-scoped lookup cache.
func NewResolver(cache *Cache, logger *slog.Logger) *Resolver {
	return &Resolver{
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
}

// ResolveText decides a text field. The value is sanitized before comparison
// and before storage so overrides and canonical values share one encoding.
// Lookup failures degrade to storing the value as-is rather than failing the
// save.
func (r *Resolver) ResolveText(ctx context.Context, field Field, value string, albumID int64) (Decision, string) {
	if field.IsGenre() {
		return Inherit, ""
	}
	sanitized := textutil.SanitizeText(value)
	if sanitized == "" {
		// Empty and absent are equivalent; nothing worth storing.
		return Inherit, ""
	}
	album := r.lookup(ctx, field.String(), albumID)
	if album == nil {
		return Override, sanitized
	}
	if sanitized == textutil.SanitizeText(canonicalText(album, field)) {
		return Inherit, ""
	}
	return Override, sanitized
}

// ResolveImage decides the cover image by exact byte equality against the
// canonical image. The override, when stored, is the raw bytes unchanged.
func (r *Resolver) ResolveImage(ctx context.Context, data []byte, albumID int64) (Decision, []byte) {
	if len(data) == 0 {
		return Inherit, nil
	}
	album := r.lookup(ctx, "cover_image", albumID)
	if album == nil {
		return Override, data
	}
	if bytes.Equal(data, album.CoverImage) {
		return Inherit, nil
	}
	return Override, data
}

// ResolveTracks decides the track list by structural equality: both sides are
// serialized to the canonical comparable form and compared as strings. The
// override, when stored, is that serialized form.
func (r *Resolver) ResolveTracks(ctx context.Context, tracks []catalog.Track, albumID int64) (Decision, string) {
	serialized, err := catalog.EncodeTracks(tracks)
	if err != nil {
		r.logger.Warn("track list serialization failed, storing nothing", logging.Error(err))
		return Inherit, ""
	}
	if serialized == "" {
		return Inherit, ""
	}
	album := r.lookup(ctx, "tracks", albumID)
	if album == nil {
		return Override, serialized
	}
	canonical, err := catalog.EncodeTracks(album.Tracks)
	if err != nil {
		r.logger.Warn("canonical track list serialization failed, storing override", logging.Error(err))
		return Override, serialized
	}
	if serialized == canonical {
		return Inherit, ""
	}
	return Override, serialized
}

// ResolveOverrides runs the full field set for one entry and assembles the
// storable override struct.
func (r *Resolver) ResolveOverrides(ctx context.Context, albumID int64, artist, title, releaseDate, countryName string, cover []byte, coverFormat string, tracks []catalog.Track) catalog.Overrides {
	var ov catalog.Overrides
	if d, v := r.ResolveText(ctx, FieldArtist, artist, albumID); d == Override {
		ov.Artist = &v
	}
	if d, v := r.ResolveText(ctx, FieldTitle, title, albumID); d == Override {
		ov.Title = &v
	}
	if d, v := r.ResolveText(ctx, FieldReleaseDate, releaseDate, albumID); d == Override {
		ov.ReleaseDate = &v
	}
	if d, v := r.ResolveText(ctx, FieldCountry, countryName, albumID); d == Override {
		ov.Country = &v
	}
	if d, v := r.ResolveImage(ctx, cover, albumID); d == Override {
		ov.CoverImage = v
		if format := textutil.SanitizeText(coverFormat); format != "" {
			ov.CoverFormat = &format
		}
	}
	if d, v := r.ResolveTracks(ctx, tracks, albumID); d == Override {
		ov.Tracks = &v
	}
	return ov
}

// lookup fetches the canonical record through the cache, degrading to nil on
// failure so a storage hiccup never fails the whole resolution.
func (r *Resolver) lookup(ctx context.Context, field string, albumID int64) *catalog.Album {
	if albumID == 0 {
		return nil
	}
	album, err := r.cache.Get(ctx, albumID)
	if err != nil {
		r.logger.Warn("canonical lookup failed, storing value as-is",
			logging.String("field", field),
			logging.Int64("album_id", albumID),
			logging.Error(err),
		)
		return nil
	}
	return album
}

func canonicalText(album *catalog.Album, field Field) string {
	switch field {
	case FieldArtist:
		return album.Artist
	case FieldTitle:
		return album.Title
	case FieldReleaseDate:
		return album.ReleaseDate
	case FieldCountry:
		return album.Country
	default:
		return ""
	}
}
