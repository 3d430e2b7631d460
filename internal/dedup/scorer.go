package dedup

import (
	"fmt"

	"crate/internal/catalog"
	"crate/internal/services"
	"crate/internal/textutil"
)

// Confidence weights. The title carries more identity signal than the artist
// (one artist releases many albums), and a weighted average keeps the score
// monotonic in both sub-scores with identical records at exactly 1.
const (
	artistWeight = 0.4
	titleWeight  = 0.6
)

// Score computes the normalized similarity of two text values.
func Score(a, b string) float64 {
	return textutil.Similarity(a, b)
}

// ScorePair scores two albums against the sensitivity threshold. The
// threshold convention is inverted on purpose: a pair is a candidate when
// confidence >= 1 - threshold, so a lower threshold value surfaces more
// matches. Returns nil when the pair does not meet the cutoff.
func ScorePair(a, b catalog.Album, threshold float64) (*Candidate, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	artistScore := Score(a.Artist, b.Artist)
	titleScore := Score(a.Title, b.Title)
	confidence := artistWeight*artistScore + titleWeight*titleScore
	if confidence < 1-threshold {
		return nil, nil
	}
	return &Candidate{
		A:           a,
		B:           b,
		ArtistScore: artistScore,
		TitleScore:  titleScore,
		Confidence:  confidence,
	}, nil
}

// ValidateThreshold rejects sensitivity values outside [0,1] before any I/O.
func ValidateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return services.Wrap(services.ErrValidation, "dedup", "threshold",
			fmt.Sprintf("must be in [0,1], got %v", threshold), nil)
	}
	return nil
}
