package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"crate/internal/catalog"
	"crate/internal/dedup"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var thresholdFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the catalog for likely duplicate albums",
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := resolveThreshold(ctx, thresholdFlag)
			if err != nil {
				return err
			}
			var report *dedup.Report
			err = ctx.withStore(func(store *catalog.Store) error {
				engine := dedup.NewEngine(store, ctx.ensureLogger())
				scanned, scanErr := engine.Scan(cmd.Context(), threshold)
				if scanErr != nil {
					return scanErr
				}
				report = scanned
				return nil
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, scanPayload(report))
			}
			renderScanReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&thresholdFlag, "threshold", "t", "", "Scan sensitivity in [0,1]; lower finds more")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func resolveThreshold(ctx *commandContext, flag string) (float64, error) {
	if flag == "" {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return 0, err
		}
		return cfg.Dedup.Threshold, nil
	}
	threshold, err := strconv.ParseFloat(flag, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q", flag)
	}
	if err := dedup.ValidateThreshold(threshold); err != nil {
		return 0, err
	}
	return threshold, nil
}

type scanPairPayload struct {
	AID         int64   `json:"a_id"`
	ALabel      string  `json:"a"`
	BID         int64   `json:"b_id"`
	BLabel      string  `json:"b"`
	ArtistScore float64 `json:"artist_score"`
	TitleScore  float64 `json:"title_score"`
	Confidence  float64 `json:"confidence"`
	Band        string  `json:"band"`
}

type scanReportPayload struct {
	Pairs         []scanPairPayload `json:"pairs"`
	TotalRecords  int               `json:"total_records"`
	ExcludedPairs int               `json:"excluded_pairs"`
}

func scanPayload(report *dedup.Report) scanReportPayload {
	payload := scanReportPayload{
		Pairs:         make([]scanPairPayload, 0, len(report.Pairs)),
		TotalRecords:  report.TotalRecords,
		ExcludedPairs: report.ExcludedPairs,
	}
	for _, pair := range report.Pairs {
		payload.Pairs = append(payload.Pairs, scanPairPayload{
			AID:         pair.A.ID,
			ALabel:      albumLabel(pair.A.Artist, pair.A.Title),
			BID:         pair.B.ID,
			BLabel:      albumLabel(pair.B.Artist, pair.B.Title),
			ArtistScore: pair.ArtistScore,
			TitleScore:  pair.TitleScore,
			Confidence:  pair.Confidence,
			Band:        pair.Band(),
		})
	}
	return payload
}

func renderScanReport(cmd *cobra.Command, report *dedup.Report) {
	out := cmd.OutOrStdout()
	if len(report.Pairs) == 0 {
		fmt.Fprintf(out, "No duplicate candidates across %d records (%d pairs excluded).\n",
			report.TotalRecords, report.ExcludedPairs)
		return
	}

	rows := make([][]string, 0, len(report.Pairs))
	for _, pair := range report.Pairs {
		rows = append(rows, []string{
			strconv.FormatInt(pair.A.ID, 10),
			truncate(albumLabel(pair.A.Artist, pair.A.Title), 40),
			strconv.FormatInt(pair.B.ID, 10),
			truncate(albumLabel(pair.B.Artist, pair.B.Title), 40),
			formatPercent(pair.Confidence),
			pair.Band(),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID A", "Album A", "ID B", "Album B", "Confidence", "Band"},
		rows, 0, 2, 4))
	fmt.Fprintf(out, "%d candidate pair(s) across %d records; %d pair(s) marked distinct.\n",
		len(report.Pairs), report.TotalRecords, report.ExcludedPairs)
	if !stdoutIsTerminal() {
		return
	}
	fmt.Fprintln(out, "Act on a pair with `crate merge`, `crate distinct`, or leave it for the next scan.")
}
