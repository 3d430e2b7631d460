package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"crate/internal/catalog"
	"crate/internal/dedup"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var thresholdFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit manual entries against the catalog",
		Long: "Pairs every manual entry against the catalog, reports likely matches\n" +
			"for adoption, and sweeps for entries whose list no longer exists.",
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := resolveThreshold(ctx, thresholdFlag)
			if err != nil {
				return err
			}
			var report *dedup.ManualReport
			err = ctx.withStore(func(store *catalog.Store) error {
				engine := dedup.NewEngine(store, ctx.ensureLogger())
				audited, auditErr := engine.AuditManual(cmd.Context(), threshold)
				if auditErr != nil {
					return auditErr
				}
				report = audited
				return nil
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, auditPayload(report))
			}
			renderAuditReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&thresholdFlag, "threshold", "t", "", "Scan sensitivity in [0,1]; lower finds more")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

type auditMatchPayload struct {
	CatalogID  int64   `json:"catalog_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type auditManualPayload struct {
	ManualID int64               `json:"manual_id"`
	Label    string              `json:"label"`
	Matches  []auditMatchPayload `json:"matches"`
	UsedIn   []string            `json:"used_in"`
}

type auditReportPayload struct {
	Manuals         []auditManualPayload `json:"manuals"`
	TotalManual     int                  `json:"total_manual"`
	IntegrityIssues []catalog.Usage      `json:"integrity_issues"`
}

func auditPayload(report *dedup.ManualReport) auditReportPayload {
	payload := auditReportPayload{
		Manuals:         make([]auditManualPayload, 0, len(report.Manuals)),
		TotalManual:     report.TotalManual,
		IntegrityIssues: report.IntegrityIssues,
	}
	for _, audit := range report.Manuals {
		manual := auditManualPayload{
			ManualID: audit.Album.ID,
			Label:    albumLabel(audit.Album.Artist, audit.Album.Title),
		}
		for _, match := range audit.Matches {
			manual.Matches = append(manual.Matches, auditMatchPayload{
				CatalogID:  match.B.ID,
				Label:      albumLabel(match.B.Artist, match.B.Title),
				Confidence: match.Confidence,
			})
		}
		for _, usage := range audit.UsedIn {
			manual.UsedIn = append(manual.UsedIn, formatUsage(usage))
		}
		payload.Manuals = append(payload.Manuals, manual)
	}
	return payload
}

func formatUsage(usage catalog.Usage) string {
	if usage.ListName == "" {
		return fmt.Sprintf("entry %d (list %d missing)", usage.EntryID, usage.ListID)
	}
	return fmt.Sprintf("%s (%d)", usage.ListName, usage.ListYear)
}

func renderAuditReport(cmd *cobra.Command, report *dedup.ManualReport) {
	out := cmd.OutOrStdout()
	if len(report.Manuals) == 0 {
		fmt.Fprintf(out, "No manual entries with catalog matches (%d manual entries checked).\n",
			report.TotalManual)
	} else {
		rows := make([][]string, 0, len(report.Manuals))
		for _, audit := range report.Manuals {
			best := audit.Matches[0]
			usage := "unused"
			if len(audit.UsedIn) > 0 {
				usage = formatUsage(audit.UsedIn[0])
				if extra := len(audit.UsedIn) - 1; extra > 0 {
					usage = fmt.Sprintf("%s (+%d more)", usage, extra)
				}
			}
			rows = append(rows, []string{
				strconv.FormatInt(audit.Album.ID, 10),
				truncate(albumLabel(audit.Album.Artist, audit.Album.Title), 40),
				strconv.FormatInt(best.B.ID, 10),
				truncate(albumLabel(best.B.Artist, best.B.Title), 40),
				formatPercent(best.Confidence),
				usage,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Manual", "Entry", "Catalog", "Best match", "Confidence", "Used in"},
			rows, 0, 2, 4))
		fmt.Fprintf(out, "%d of %d manual entries have catalog matches. Adopt with `crate adopt MANUAL CATALOG`.\n",
			len(report.Manuals), report.TotalManual)
	}

	if len(report.IntegrityIssues) > 0 {
		fmt.Fprintf(out, "\n%d entries reference a list that no longer exists:\n", len(report.IntegrityIssues))
		for _, usage := range report.IntegrityIssues {
			fmt.Fprintf(out, "  %s\n", formatUsage(usage))
		}
	}
}
