package dedup_test

import (
	"context"
	"errors"
	"testing"

	"crate/internal/catalog"
	"crate/internal/dedup"
	"crate/internal/logging"
	"crate/internal/services"
	"crate/internal/testsupport"
)

func newEngine(t *testing.T) (*dedup.Engine, *catalog.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return dedup.NewEngine(store, logging.NewNop()), store
}

func TestScanSurfacesNearDuplicate(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	a := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computer")
	b := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computrr")
	testsupport.SeedAlbum(t, store, "Aphex Twin", "Drukqs")

	report, err := engine.Scan(ctx, 0.4)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if report.TotalRecords != 3 {
		t.Fatalf("expected 3 records scanned, got %d", report.TotalRecords)
	}
	if len(report.Pairs) != 1 {
		t.Fatalf("expected exactly one candidate pair, got %d", len(report.Pairs))
	}
	pair := report.Pairs[0]
	if pair.TitleScore <= 0.85 {
		t.Fatalf("title similarity should exceed 0.85, got %v", pair.TitleScore)
	}
	got := catalog.NewPair(pair.A.ID, pair.B.ID)
	want := catalog.NewPair(a.ID, b.ID)
	if got != want {
		t.Fatalf("unexpected candidate pair %+v, want %+v", got, want)
	}
}

func TestScanNeverReturnsExcludedPairs(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	a := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computer")
	b := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computrr")

	report, err := engine.Scan(ctx, 0.4)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Pairs) != 1 {
		t.Fatalf("expected the pair before exclusion, got %d pairs", len(report.Pairs))
	}

	// Insert in reverse argument order; suppression must not depend on order.
	if err := engine.MarkDistinct(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("MarkDistinct failed: %v", err)
	}

	report, err = engine.Scan(ctx, 0.4)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Pairs) != 0 {
		t.Fatalf("expected zero pairs after marking distinct, got %d", len(report.Pairs))
	}
	if report.ExcludedPairs != 1 {
		t.Fatalf("expected one excluded pair counted, got %d", report.ExcludedPairs)
	}
}

func TestScanOrdersByDescendingConfidence(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	testsupport.SeedAlbum(t, store, "Radiohead", "OK Computer")
	testsupport.SeedAlbum(t, store, "Radiohead", "OK Computer")
	testsupport.SeedAlbum(t, store, "Radiohead", "OK Computrr")

	report, err := engine.Scan(ctx, 0.4)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(report.Pairs) < 2 {
		t.Fatalf("expected at least two candidate pairs, got %d", len(report.Pairs))
	}
	for i := 1; i < len(report.Pairs); i++ {
		if report.Pairs[i].Confidence > report.Pairs[i-1].Confidence {
			t.Fatalf("pairs out of order at %d: %v > %v",
				i, report.Pairs[i].Confidence, report.Pairs[i-1].Confidence)
		}
	}
	if report.Pairs[0].Confidence != 1 {
		t.Fatalf("exact duplicate should rank first with confidence 1, got %v",
			report.Pairs[0].Confidence)
	}
}

func TestScanIgnoresManualEntries(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	testsupport.SeedManualAlbum(t, store, "Radiohead", "OK Computer")
	testsupport.SeedManualAlbum(t, store, "Radiohead", "OK Computer")

	report, err := engine.Scan(ctx, 1)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if report.TotalRecords != 0 {
		t.Fatalf("manual entries must not enter the catalog scan, got %d records", report.TotalRecords)
	}
	if len(report.Pairs) != 0 {
		t.Fatalf("expected zero pairs, got %d", len(report.Pairs))
	}
}

func TestScanRejectsInvalidThreshold(t *testing.T) {
	engine, _ := newEngine(t)
	if _, err := engine.Scan(context.Background(), 1.5); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMergeRemovesLoserFromScan(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	survivor := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computer")
	loser := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computrr")

	if err := engine.Merge(ctx, survivor.ID, loser.ID); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	report, err := engine.Scan(ctx, 1)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if report.TotalRecords != 1 {
		t.Fatalf("expected one record after merge, got %d", report.TotalRecords)
	}

	// A second merge against the deleted loser must be rejected.
	if err := engine.Merge(ctx, survivor.ID, loser.ID); !errors.Is(err, services.ErrIntegrity) {
		t.Fatalf("expected integrity error on re-merge, got %v", err)
	}
}

func TestAuditManualMatchesCatalogOnly(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	manual := testsupport.SeedManualAlbum(t, store, "Radiohead", "OK Computer")
	testsupport.SeedManualAlbum(t, store, "Radiohead", "OK Computer")
	match := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computrr")
	testsupport.SeedManualAlbum(t, store, "Autechre", "Tri Repetae")

	list, err := store.InsertList(ctx, "Best of 1997", 1997)
	if err != nil {
		t.Fatalf("InsertList failed: %v", err)
	}
	if _, err := store.AddEntry(ctx, catalog.Entry{ListID: list.ID, AlbumID: manual.ID, Position: 1}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	report, err := engine.AuditManual(ctx, 0.4)
	if err != nil {
		t.Fatalf("AuditManual failed: %v", err)
	}
	if report.TotalManual != 3 {
		t.Fatalf("expected 3 manual entries, got %d", report.TotalManual)
	}
	// Two manuals match the catalog record; the identical manual pair must not
	// pair with each other, and the unrelated manual drops out entirely.
	if len(report.Manuals) != 2 {
		t.Fatalf("expected 2 manuals with matches, got %d", len(report.Manuals))
	}
	for _, audit := range report.Manuals {
		if len(audit.Matches) != 1 {
			t.Fatalf("manual %d: expected one match, got %d", audit.Album.ID, len(audit.Matches))
		}
		if audit.Matches[0].B.ID != match.ID {
			t.Fatalf("manual %d matched %d, want catalog record %d",
				audit.Album.ID, audit.Matches[0].B.ID, match.ID)
		}
	}

	var usedIn []catalog.Usage
	for _, audit := range report.Manuals {
		if audit.Album.ID == manual.ID {
			usedIn = audit.UsedIn
		}
	}
	if len(usedIn) != 1 || usedIn[0].ListName != "Best of 1997" {
		t.Fatalf("expected usage in Best of 1997, got %+v", usedIn)
	}
	if len(report.IntegrityIssues) != 0 {
		t.Fatalf("expected no integrity issues, got %d", len(report.IntegrityIssues))
	}
}

func TestAuditManualReportsOrphanedUsage(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	manual := testsupport.SeedManualAlbum(t, store, "Radiohead", "OK Computer")
	list, err := store.InsertList(ctx, "Doomed", 2001)
	if err != nil {
		t.Fatalf("InsertList failed: %v", err)
	}
	entry, err := store.AddEntry(ctx, catalog.Entry{ListID: list.ID, AlbumID: manual.ID, Position: 1})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if err := store.DeleteList(ctx, list.ID); err != nil {
		t.Fatalf("DeleteList failed: %v", err)
	}

	report, err := engine.AuditManual(ctx, 0.4)
	if err != nil {
		t.Fatalf("AuditManual failed: %v", err)
	}
	if len(report.IntegrityIssues) != 1 {
		t.Fatalf("expected one integrity issue, got %d", len(report.IntegrityIssues))
	}
	if report.IntegrityIssues[0].EntryID != entry.ID {
		t.Fatalf("expected entry %d flagged, got %d", entry.ID, report.IntegrityIssues[0].EntryID)
	}
}

func TestAuditManualRespectsExclusions(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	manual := testsupport.SeedManualAlbum(t, store, "Radiohead", "OK Computer")
	record := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computer")

	if err := engine.MarkDistinct(ctx, manual.ID, record.ID); err != nil {
		t.Fatalf("MarkDistinct failed: %v", err)
	}

	report, err := engine.AuditManual(ctx, 0.4)
	if err != nil {
		t.Fatalf("AuditManual failed: %v", err)
	}
	if len(report.Manuals) != 0 {
		t.Fatalf("excluded pair must not surface, got %d manuals", len(report.Manuals))
	}
}

func TestAdoptRepointsUsage(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	manual := testsupport.SeedManualAlbum(t, store, "Radiohead", "OK Computer")
	canonical := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computer")

	list, err := store.InsertList(ctx, "Favorites", 2020)
	if err != nil {
		t.Fatalf("InsertList failed: %v", err)
	}
	entry, err := store.AddEntry(ctx, catalog.Entry{ListID: list.ID, AlbumID: manual.ID, Position: 1})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	if err := engine.Adopt(ctx, manual.ID, canonical.ID); err != nil {
		t.Fatalf("Adopt failed: %v", err)
	}

	got, err := store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if got.AlbumID != canonical.ID {
		t.Fatalf("entry still points at %d, want %d", got.AlbumID, canonical.ID)
	}
	if _, err := store.GetAlbum(ctx, manual.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("manual entry should be gone, got %v", err)
	}
}

func TestAdoptValidatesDirection(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	manual := testsupport.SeedManualAlbum(t, store, "Radiohead", "OK Computer")
	canonical := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computer")

	// Swapped arguments: a catalog record cannot be adopted onto a manual one.
	if err := engine.Adopt(ctx, canonical.ID, manual.ID); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for swapped arguments, got %v", err)
	}
	if err := engine.Adopt(ctx, manual.ID, manual.ID); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for manual target, got %v", err)
	}
}

func TestMarkDistinctIdempotent(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	a := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computer")
	b := testsupport.SeedAlbum(t, store, "Radiohead", "OK Computrr")

	if err := engine.MarkDistinct(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("MarkDistinct failed: %v", err)
	}
	if err := engine.MarkDistinct(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("repeated MarkDistinct failed: %v", err)
	}
	if err := engine.MarkDistinct(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("reversed MarkDistinct failed: %v", err)
	}

	exclusions, err := store.ListExclusions(ctx)
	if err != nil {
		t.Fatalf("ListExclusions failed: %v", err)
	}
	if len(exclusions) != 1 {
		t.Fatalf("expected one stored exclusion, got %d", len(exclusions))
	}
}
