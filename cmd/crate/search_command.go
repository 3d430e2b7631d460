package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"crate/internal/country"
	"crate/internal/fetch"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var artistFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search TITLE",
		Short: "Search the metadata service for a release",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := ctx.newGateway()
			if err != nil {
				return err
			}
			query := fetch.BuildQuery(artistFlag, strings.Join(args, " "))
			release, found, err := gateway.SearchRelease(cmd.Context(), query, fetch.PriorityHigh)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintln(out, "No release found.")
				return nil
			}

			countryName := country.Resolve(release.Country)
			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"id":      release.ID,
					"artist":  release.Artist(),
					"title":   release.Title,
					"date":    release.Date,
					"country": countryName,
					"score":   release.Score,
				})
			}
			fmt.Fprintf(out, "Release:  %s\n", release.Title)
			fmt.Fprintf(out, "Artist:   %s\n", release.Artist())
			if release.Date != "" {
				fmt.Fprintf(out, "Date:     %s\n", release.Date)
			}
			if countryName != "" {
				fmt.Fprintf(out, "Country:  %s\n", countryName)
			}
			fmt.Fprintf(out, "ID:       %s\n", release.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&artistFlag, "artist", "a", "", "Restrict the search to an artist")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of text")
	return cmd
}

func newCoverCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "cover RELEASE_ID",
		Short: "Download the front cover for a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := ctx.newGateway()
			if err != nil {
				return err
			}
			artwork, found, err := gateway.FrontCover(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "No front cover available.")
				return nil
			}

			target := strings.TrimSpace(outPath)
			if target == "" {
				target = args[0] + coverExtension(artwork.ContentType)
			}
			if err := os.WriteFile(target, artwork.Data, 0o644); err != nil {
				return fmt.Errorf("write cover: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes (%s) to %s\n",
				len(artwork.Data), artwork.ContentType, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (defaults to RELEASE_ID plus an extension)")
	return cmd
}

func coverExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

func newCountryCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "country VALUE",
		Short:       "Resolve a country code or name to its canonical name",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := country.ResolveName(args[0])
			if name == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "unknown")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}
