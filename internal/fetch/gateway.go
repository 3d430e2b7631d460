package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"crate/internal/logging"
	"crate/internal/musicbrainz"
	"crate/internal/services"
	"crate/internal/textutil"
)

// MetadataSearcher is the metadata service behind the global rate limit.
type MetadataSearcher interface {
	SearchRelease(ctx context.Context, query string, limit int) (*musicbrainz.SearchResponse, error)
}

// ArtworkFetcher is the artwork service behind the concurrency gate.
type ArtworkFetcher interface {
	FrontCover(ctx context.Context, releaseID string) ([]byte, string, error)
}

// Artwork is a fetched cover image.
type Artwork struct {
	Data        []byte
	ContentType string
}

// Gateway is the single access path to the external services. It owns the
// rate limiter, the concurrency gate, and the process-lifetime response
// caches, so every caller shares one budget.
type Gateway struct {
	metadata MetadataSearcher
	artwork  ArtworkFetcher
	limiter  *Limiter
	gate     *Gate
	logger   *slog.Logger

	mu           sync.Mutex
	searchCache  map[string]*musicbrainz.Release
	artworkCache map[string]*Artwork
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithInterval overrides the minimum spacing between metadata requests.
func WithInterval(interval time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.limiter = NewLimiter(interval)
	}
}

// WithMaxInFlight overrides the artwork concurrency cap.
func WithMaxInFlight(limit int) GatewayOption {
	return func(g *Gateway) {
		g.gate = NewGate(limit)
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logging.NewComponentLogger(logger, "fetch")
		}
	}
}

// DefaultInterval is the spacing the primary metadata service asks clients to
// keep. Slightly over one second leaves headroom for clock skew.
const DefaultInterval = 1100 * time.Millisecond

// DefaultMaxInFlight caps concurrent artwork downloads.
const DefaultMaxInFlight = 3

// NewGateway builds a gateway over the two external services.
func NewGateway(metadata MetadataSearcher, artwork ArtworkFetcher, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		metadata:     metadata,
		artwork:      artwork,
		limiter:      NewLimiter(DefaultInterval),
		gate:         NewGate(DefaultMaxInFlight),
		logger:       logging.NewNop(),
		searchCache:  make(map[string]*musicbrainz.Release),
		artworkCache: make(map[string]*Artwork),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SearchRelease looks up the best release match for a query. The second
// return reports whether anything was found; a definitive miss is cached so
// repeats never re-hit the network. Transient failures degrade to a soft
// not-found and are never cached.
func (g *Gateway) SearchRelease(ctx context.Context, query string, priority Priority) (*musicbrainz.Release, bool, error) {
	key := normalizeKey(query)
	if key == "" {
		return nil, false, services.Wrap(services.ErrValidation, "fetch", "search", "empty query", nil)
	}

	g.mu.Lock()
	cached, hit := g.searchCache[key]
	g.mu.Unlock()
	if hit {
		return cached, cached != nil, nil
	}

	if err := g.limiter.Wait(ctx, priority); err != nil {
		return nil, false, err
	}
	// Cancellation may have landed while queued; check again before dispatch.
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	resp, err := g.metadata.SearchRelease(ctx, query, 10)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			g.cacheSearch(key, nil)
			return nil, false, nil
		}
		if services.IsHard(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false, err
		}
		g.logger.Warn("metadata search failed",
			logging.String("query", query),
			logging.Error(err),
		)
		return nil, false, nil
	}

	if len(resp.Releases) == 0 {
		g.cacheSearch(key, nil)
		return nil, false, nil
	}
	best := resp.Releases[0]
	g.cacheSearch(key, &best)
	return &best, true, nil
}

// FrontCover fetches the front cover for a release through the concurrency
// gate. Same caching contract as SearchRelease.
func (g *Gateway) FrontCover(ctx context.Context, releaseID string) (*Artwork, bool, error) {
	key := normalizeKey(releaseID)
	if key == "" {
		return nil, false, services.Wrap(services.ErrValidation, "fetch", "front cover", "empty release id", nil)
	}

	g.mu.Lock()
	cached, hit := g.artworkCache[key]
	g.mu.Unlock()
	if hit {
		return cached, cached != nil, nil
	}

	if err := g.gate.Acquire(ctx); err != nil {
		return nil, false, err
	}
	defer g.gate.Release()
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, contentType, err := g.artwork.FrontCover(ctx, releaseID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			g.cacheArtwork(key, nil)
			return nil, false, nil
		}
		if services.IsHard(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false, err
		}
		g.logger.Warn("artwork fetch failed",
			logging.String("release_id", releaseID),
			logging.Error(err),
		)
		return nil, false, nil
	}

	artwork := &Artwork{Data: data, ContentType: contentType}
	g.cacheArtwork(key, artwork)
	return artwork, true, nil
}

// CacheStats reports the cache sizes for diagnostics.
func (g *Gateway) CacheStats() (searches, artworks int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.searchCache), len(g.artworkCache)
}

func (g *Gateway) cacheSearch(key string, release *musicbrainz.Release) {
	g.mu.Lock()
	g.searchCache[key] = release
	g.mu.Unlock()

	if release == nil {
		g.logger.Debug("negative search result cached", logging.String("key", key))
		return
	}
	g.logger.Debug("search result cached",
		logging.String("key", key),
		logging.String("release_id", release.ID),
	)
}

func (g *Gateway) cacheArtwork(key string, artwork *Artwork) {
	g.mu.Lock()
	g.artworkCache[key] = artwork
	g.mu.Unlock()

	size := 0
	if artwork != nil {
		size = len(artwork.Data)
	}
	g.logger.Debug("artwork result cached",
		logging.String("key", key),
		logging.Int("bytes", size),
	)
}

// normalizeKey folds a query into its cache key so trivially different
// spellings share one slot.
func normalizeKey(value string) string {
	return strings.ToLower(textutil.SanitizeText(value))
}

// BuildQuery assembles a release search query from artist and title.
func BuildQuery(artist, title string) string {
	artist = textutil.SanitizeText(artist)
	title = textutil.SanitizeText(title)
	switch {
	case artist == "" && title == "":
		return ""
	case artist == "":
		return fmt.Sprintf("release:%q", title)
	case title == "":
		return fmt.Sprintf("artist:%q", artist)
	default:
		return fmt.Sprintf("artist:%q AND release:%q", artist, title)
	}
}
