// Package sanitize turns stored note field markup into plain display text.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	lineBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagPattern       = regexp.MustCompile(`<[^>]*>`)

	// Only these named entities are decoded, in this order, one pass each.
	// Numeric references pass through untouched.
	entities = [...]struct{ from, to string }{
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&nbsp;", " "},
		{"&quot;", `"`},
	}
)

// Field converts a raw note field into display text. Line breaks become
// newlines, every other tag is dropped, a fixed set of entities is decoded and
// the result is trimmed. Malformed markup is stripped as far as it matches.
func Field(raw string) string {
	s := lineBreakPattern.ReplaceAllString(raw, "\n")
	s = tagPattern.ReplaceAllString(s, "")
	for _, e := range entities {
		s = strings.ReplaceAll(s, e.from, e.to)
	}
	return strings.TrimSpace(s)
}
