package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crate/internal/catalog"
	"crate/internal/dedup"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "merge SURVIVOR LOSER",
		Short: "Merge two albums, repointing every reference to the survivor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			survivorID, err := parseID(args[0], "survivor")
			if err != nil {
				return err
			}
			loserID, err := parseID(args[1], "loser")
			if err != nil {
				return err
			}
			err = ctx.withLockedStore(func(store *catalog.Store) error {
				engine := dedup.NewEngine(store, ctx.ensureLogger())
				return engine.Merge(cmd.Context(), survivorID, loserID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged album %d into %d.\n", loserID, survivorID)
			return nil
		},
	}
}

func newDistinctCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "distinct A B",
		Short: "Mark two albums as not duplicates",
		Long: "Records that the pair is distinct so future scans stop surfacing it,\n" +
			"in either order. Marking an already-distinct pair is a no-op.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseID(args[0], "album")
			if err != nil {
				return err
			}
			b, err := parseID(args[1], "album")
			if err != nil {
				return err
			}
			err = ctx.withLockedStore(func(store *catalog.Store) error {
				engine := dedup.NewEngine(store, ctx.ensureLogger())
				return engine.MarkDistinct(cmd.Context(), a, b)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Albums %d and %d marked distinct.\n", a, b)
			return nil
		},
	}
}

func newAdoptCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "adopt MANUAL CATALOG",
		Short: "Replace a manual entry with a catalog record",
		Long: "Repoints every list entry referencing the manual entry to the chosen\n" +
			"catalog record and removes the manual entry.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manualID, err := parseID(args[0], "manual entry")
			if err != nil {
				return err
			}
			canonicalID, err := parseID(args[1], "catalog record")
			if err != nil {
				return err
			}
			err = ctx.withLockedStore(func(store *catalog.Store) error {
				engine := dedup.NewEngine(store, ctx.ensureLogger())
				return engine.Adopt(cmd.Context(), manualID, canonicalID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Manual entry %d adopted into catalog record %d.\n",
				manualID, canonicalID)
			return nil
		},
	}
}
