package dedup

import "crate/internal/catalog"

// Confidence bands used by the UI to group candidates.
const (
	HighConfidence   = 0.8
	MediumConfidence = 0.5
)

// Candidate is one scored pair of albums suspected to be duplicates.
// Candidates are ephemeral scan output; nothing is persisted unless the
// operator acts on the pair.
type Candidate struct {
	A           catalog.Album
	B           catalog.Album
	ArtistScore float64
	TitleScore  float64
	Confidence  float64
}

// Band returns the confidence band label for a candidate.
func (c Candidate) Band() string {
	switch {
	case c.Confidence >= HighConfidence:
		return "high"
	case c.Confidence >= MediumConfidence:
		return "medium"
	default:
		return "low"
	}
}

// Report is the result of a full catalog scan.
type Report struct {
	Pairs         []Candidate
	TotalRecords  int
	ExcludedPairs int
}

// ManualAudit describes one manual entry with its catalog matches and usage.
type ManualAudit struct {
	Album   catalog.Album
	Matches []Candidate
	UsedIn  []catalog.Usage
}

// ManualReport is the result of auditing manual entries against the catalog.
type ManualReport struct {
	Manuals         []ManualAudit
	TotalManual     int
	IntegrityIssues []catalog.Usage
}
