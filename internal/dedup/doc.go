// Package dedup finds likely duplicate albums and applies operator decisions.
//
// ScorePair combines artist and title similarity into a single confidence;
// the Engine runs the pairwise scan over a catalog snapshot, filters pairs
// the operator marked distinct, and exposes merge, mark-distinct, and
// manual-entry adoption as discrete actions. Scoring is pure; every mutation
// goes through the storage boundary.
package dedup
