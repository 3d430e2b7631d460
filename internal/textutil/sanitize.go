package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// punctuationReplacer unifies visually-equivalent punctuation so stored
// overrides and canonical values compare under one encoding.
var punctuationReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'",
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`,
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...", // ellipsis
	" ", " ", // no-break space
)

// SanitizeText normalizes a free-text field value: Unicode NFC, unified
// punctuation, collapsed internal whitespace, trimmed ends. Empty input
// stays empty.
func SanitizeText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = norm.NFC.String(value)
	value = punctuationReplacer.Replace(value)
	return strings.Join(strings.Fields(value), " ")
}
