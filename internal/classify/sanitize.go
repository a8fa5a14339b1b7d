// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// sanitizeLine strips markup and control characters from a single-line
// field and collapses internal whitespace.
func sanitizeLine(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = stripControl(s, false)
	return strings.Join(strings.Fields(s), " ")
}

// sanitizeText strips markup and control characters from free text while
// keeping newlines, for multi-line fields like reasoning.
func sanitizeText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(stripControl(s, true))
}

// stripControl removes control characters. keepNewlines preserves \n.
func stripControl(s string, keepNewlines bool) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' && keepNewlines {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
