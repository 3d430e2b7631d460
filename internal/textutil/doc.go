// Package textutil provides text normalization and string similarity for
// album identity comparison.
//
// SanitizeText unifies the punctuation and whitespace variants that creep
// into hand-entered artist and title fields. Similarity is a normalized,
// case-folded Levenshtein score in [0,1] used by the duplicate scanner.
package textutil
