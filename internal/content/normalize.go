// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"strings"
	"unicode"
)

// Normalize returns a lowercased copy of text with runs of whitespace and
// punctuation collapsed to single spaces. It is used for deterministic
// matching and log lines only; the canonical text sent to providers keeps
// its original casing and punctuation.
func Normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
