package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"crate/internal/catalog"
	"crate/internal/logging"
	"crate/internal/services"
)

// Store is the storage boundary the engine scans and mutates through.
// Transactional guarantees for merge are delegated to this boundary.
type Store interface {
	ListAlbums(ctx context.Context, source catalog.Source) ([]catalog.Album, error)
	ListExclusions(ctx context.Context) ([]catalog.Pair, error)
	InsertExclusion(ctx context.Context, a, b int64) error
	Merge(ctx context.Context, survivorID, loserID int64) error
	GetAlbum(ctx context.Context, id int64) (*catalog.Album, error)
	EntriesForAlbum(ctx context.Context, albumID int64) ([]catalog.Usage, error)
	OrphanedManualUsage(ctx context.Context) ([]catalog.Usage, error)
}

// Engine orchestrates duplicate scans over an in-memory snapshot of the
// catalog and applies the operator's merge and mark-distinct decisions.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// NewEngine builds an engine over the given store.
func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logging.NewComponentLogger(logger, "dedup"),
	}
}

// Scan compares every unordered pair of catalog records, drops pairs the
// operator already marked distinct, and returns the rest ordered by
// descending confidence. Pairwise comparison is quadratic; acceptable at the
// catalog sizes this tool targets.
func (e *Engine) Scan(ctx context.Context, threshold float64) (*Report, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	albums, err := e.store.ListAlbums(ctx, catalog.SourceCatalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	excluded, err := e.exclusionSet(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{TotalRecords: len(albums)}
	for i := 0; i < len(albums); i++ {
		for j := i + 1; j < len(albums); j++ {
			if _, skip := excluded[catalog.NewPair(albums[i].ID, albums[j].ID)]; skip {
				report.ExcludedPairs++
				continue
			}
			candidate, err := ScorePair(albums[i], albums[j], threshold)
			if err != nil {
				return nil, err
			}
			if candidate != nil {
				report.Pairs = append(report.Pairs, *candidate)
			}
		}
	}

	sortCandidates(report.Pairs)

	e.logger.Info("duplicate scan complete",
		logging.Int("records", report.TotalRecords),
		logging.Int("candidates", len(report.Pairs)),
		logging.Int("excluded", report.ExcludedPairs),
		logging.Float64("threshold", threshold),
	)
	return report, nil
}

// AuditManual pairs every manual entry against every catalog record (never
// against other manual entries), keeping only manuals with at least one
// match, and separately sweeps for usage whose list no longer exists.
func (e *Engine) AuditManual(ctx context.Context, threshold float64) (*ManualReport, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	manuals, err := e.store.ListAlbums(ctx, catalog.SourceManual)
	if err != nil {
		return nil, fmt.Errorf("load manual entries: %w", err)
	}
	albums, err := e.store.ListAlbums(ctx, catalog.SourceCatalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	excluded, err := e.exclusionSet(ctx)
	if err != nil {
		return nil, err
	}

	report := &ManualReport{TotalManual: len(manuals)}
	for _, manual := range manuals {
		var matches []Candidate
		for _, album := range albums {
			if _, skip := excluded[catalog.NewPair(manual.ID, album.ID)]; skip {
				continue
			}
			candidate, err := ScorePair(manual, album, threshold)
			if err != nil {
				return nil, err
			}
			if candidate != nil {
				matches = append(matches, *candidate)
			}
		}
		if len(matches) == 0 {
			continue
		}
		sortCandidates(matches)

		usedIn, err := e.store.EntriesForAlbum(ctx, manual.ID)
		if err != nil {
			return nil, fmt.Errorf("usage for manual %d: %w", manual.ID, err)
		}
		report.Manuals = append(report.Manuals, ManualAudit{
			Album:   manual,
			Matches: matches,
			UsedIn:  usedIn,
		})
	}

	orphans, err := e.store.OrphanedManualUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("integrity sweep: %w", err)
	}
	report.IntegrityIssues = orphans

	e.logger.Info("manual audit complete",
		logging.Int("manual_entries", report.TotalManual),
		logging.Int("with_matches", len(report.Manuals)),
		logging.Int("integrity_issues", len(report.IntegrityIssues)),
	)
	return report, nil
}

// Merge applies the operator's merge decision: the loser's references move to
// the survivor and the loser is deleted, atomically at the storage layer.
func (e *Engine) Merge(ctx context.Context, survivorID, loserID int64) error {
	if err := e.store.Merge(ctx, survivorID, loserID); err != nil {
		return err
	}
	e.logger.Info("albums merged",
		logging.Int64("survivor", survivorID),
		logging.Int64("loser", loserID),
	)
	return nil
}

// MarkDistinct records that a pair is not a duplicate. Idempotent; the pair
// stops surfacing in either order.
func (e *Engine) MarkDistinct(ctx context.Context, a, b int64) error {
	if err := e.store.InsertExclusion(ctx, a, b); err != nil {
		return err
	}
	e.logger.Info("pair marked distinct", logging.Int64("a", a), logging.Int64("b", b))
	return nil
}

// Adopt reconciles a manual entry onto a catalog record: the manual entry's
// usages are repointed and the manual row removed. The direction is fixed;
// the catalog record always survives.
func (e *Engine) Adopt(ctx context.Context, manualID, canonicalID int64) error {
	manual, err := e.store.GetAlbum(ctx, manualID)
	if err != nil {
		return err
	}
	if manual.Source != catalog.SourceManual {
		return services.Wrap(services.ErrValidation, "dedup", "adopt",
			fmt.Sprintf("album %d is not a manual entry", manualID), nil)
	}
	canonical, err := e.store.GetAlbum(ctx, canonicalID)
	if err != nil {
		return err
	}
	if canonical.Source != catalog.SourceCatalog {
		return services.Wrap(services.ErrValidation, "dedup", "adopt",
			fmt.Sprintf("album %d is not a catalog record", canonicalID), nil)
	}
	if err := e.store.Merge(ctx, canonicalID, manualID); err != nil {
		return err
	}
	e.logger.Info("manual entry adopted",
		logging.Int64("manual", manualID),
		logging.Int64("canonical", canonicalID),
	)
	return nil
}

func (e *Engine) exclusionSet(ctx context.Context) (map[catalog.Pair]struct{}, error) {
	pairs, err := e.store.ListExclusions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exclusions: %w", err)
	}
	set := make(map[catalog.Pair]struct{}, len(pairs))
	for _, pair := range pairs {
		set[pair] = struct{}{}
	}
	return set, nil
}

// sortCandidates orders by descending confidence, breaking ties by id so
// repeated scans render identically.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		if candidates[i].A.ID != candidates[j].A.ID {
			return candidates[i].A.ID < candidates[j].A.ID
		}
		return candidates[i].B.ID < candidates[j].B.ID
	})
}
