package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crate/internal/catalog"
	"crate/internal/resolve"
)

// importList is the on-disk shape of one list in an import file.
type importList struct {
	Name    string        `json:"name"`
	Year    int           `json:"year"`
	Entries []importEntry `json:"entries"`
}

type importEntry struct {
	AlbumID     int64           `json:"album_id"`
	Position    int             `json:"position"`
	Artist      string          `json:"artist"`
	Title       string          `json:"title"`
	ReleaseDate string          `json:"release_date"`
	Country     string          `json:"country"`
	CoverFile   string          `json:"cover_file"`
	CoverFormat string          `json:"cover_format"`
	Tracks      []catalog.Track `json:"tracks"`
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Import lists from JSON files",
		Long: "Each file holds an array of lists with entries. Entry values equal to\n" +
			"the referenced album are not stored; they inherit on read instead.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(store *catalog.Store) error {
				logger := ctx.ensureLogger()
				cache := resolve.NewCache(store, logger)
				resolver := resolve.NewResolver(cache, logger)

				for _, path := range args {
					if err := importFile(cmd, store, cache, resolver, path); err != nil {
						return fmt.Errorf("import %s: %w", path, err)
					}
					// Each file is an independent batch; stale negative
					// entries must not leak into the next one.
					cache.Clear()
				}
				return nil
			})
		},
	}
}

func importFile(cmd *cobra.Command, store *catalog.Store, cache *resolve.Cache, resolver *resolve.Resolver, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var lists []importList
	if err := json.Unmarshal(data, &lists); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}

	// Warm the cache with every referenced album in one bulk lookup.
	var ids []int64
	for _, list := range lists {
		for _, entry := range list.Entries {
			ids = append(ids, entry.AlbumID)
		}
	}
	if _, err := cache.Prefetch(cmd.Context(), ids); err != nil {
		return err
	}

	imported := 0
	for _, list := range lists {
		created, err := store.InsertList(cmd.Context(), list.Name, list.Year)
		if err != nil {
			return err
		}
		for _, entry := range list.Entries {
			cover, err := readCoverFile(entry.CoverFile)
			if err != nil {
				return err
			}
			overrides := resolver.ResolveOverrides(cmd.Context(), entry.AlbumID,
				entry.Artist, entry.Title, entry.ReleaseDate, entry.Country,
				cover, entry.CoverFormat, entry.Tracks)
			if _, err := store.AddEntry(cmd.Context(), catalog.Entry{
				ListID:    created.ID,
				AlbumID:   entry.AlbumID,
				Position:  entry.Position,
				Overrides: overrides,
			}); err != nil {
				return err
			}
			imported++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d list(s), %d entr(ies) from %s.\n",
		len(lists), imported, path)
	return nil
}

func readCoverFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cover file: %w", err)
	}
	return data, nil
}
