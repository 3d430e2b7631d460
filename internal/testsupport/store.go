package testsupport

import (
	"context"
	"testing"

	"crate/internal/catalog"
	"crate/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedAlbum inserts a catalog album for tests.
func SeedAlbum(t testing.TB, store *catalog.Store, artist, title string) *catalog.Album {
	t.Helper()

	album, err := store.InsertAlbum(context.Background(), catalog.Album{
		Source: catalog.SourceCatalog,
		Artist: artist,
		Title:  title,
	})
	if err != nil {
		t.Fatalf("store.InsertAlbum: %v", err)
	}
	return album
}

// SeedManualAlbum inserts a manual entry for tests.
func SeedManualAlbum(t testing.TB, store *catalog.Store, artist, title string) *catalog.Album {
	t.Helper()

	album, err := store.InsertAlbum(context.Background(), catalog.Album{
		Source: catalog.SourceManual,
		Artist: artist,
		Title:  title,
	})
	if err != nil {
		t.Fatalf("store.InsertAlbum: %v", err)
	}
	return album
}
