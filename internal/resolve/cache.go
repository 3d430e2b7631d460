package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"crate/internal/catalog"
	"crate/internal/logging"
)

// RecordSource is the storage boundary the cache reads canonical records
// through.
type RecordSource interface {
	BulkFetchByID(ctx context.Context, ids []int64) ([]catalog.Album, error)
}

// Cache is a batch-scoped album lookup cache with negative caching: ids that
// resolve to nothing are remembered as nil so repeat lookups within the same
// batch never re-query. It is not safe for concurrent batches; callers own
// its lifetime and must Clear between logically independent operations.
type Cache struct {
	source RecordSource
	logger *slog.Logger
	// entries maps album id to record; a present nil marks a confirmed miss.
	entries map[int64]*catalog.Album
}

// NewCache creates a cache over the given record source.
func NewCache(source RecordSource, logger *slog.Logger) *Cache {
	return &Cache{
		source:  source,
		logger:  logging.NewComponentLogger(logger, "lookup-cache"),
		entries: make(map[int64]*catalog.Album),
	}
}

// Get returns the album for id, or nil when the id resolves to nothing.
// Misses are fetched through the record source and cached either way.
func (c *Cache) Get(ctx context.Context, id int64) (*catalog.Album, error) {
	if id == 0 {
		return nil, nil
	}
	if album, ok := c.entries[id]; ok {
		return album, nil
	}
	albums, err := c.source.BulkFetchByID(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("lookup album %d: %w", id, err)
	}
	c.entries[id] = nil
	for i := range albums {
		if albums[i].ID == id {
			c.entries[id] = &albums[i]
		}
	}
	return c.entries[id], nil
}

// Prefetch warms the cache for a batch of ids: it deduplicates them, skips
// ids already cached, and issues exactly one bulk lookup for the remainder,
// caching nil for every id that resolved to nothing. It returns the number of
// ids fetched from storage.
func (c *Cache) Prefetch(ctx context.Context, ids []int64) (int, error) {
	missing := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, cached := c.entries[id]; cached {
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return 0, nil
	}

	albums, err := c.source.BulkFetchByID(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("prefetch albums: %w", err)
	}
	for _, id := range missing {
		c.entries[id] = nil
	}
	for i := range albums {
		c.entries[albums[i].ID] = &albums[i]
	}

	c.logger.Debug("prefetched canonical records",
		logging.Int("requested", len(ids)),
		logging.Int("fetched", len(missing)),
		logging.Int("found", len(albums)),
	)
	return len(missing), nil
}

// Clear drops every cached entry. Call it between independent batches so
// stale negative entries cannot leak across operations.
func (c *Cache) Clear() {
	c.entries = make(map[int64]*catalog.Album)
}

// Len reports the number of cached ids, confirmed misses included.
func (c *Cache) Len() int {
	return len(c.entries)
}
