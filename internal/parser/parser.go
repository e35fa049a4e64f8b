package parser

import (
	"strings"

	"github.com/conorfennell/knoldeck/internal/sanitize"
)

// FieldSeparator is the ASCII unit separator that joins note fields in flds.
const FieldSeparator = "\x1f"

// Fields holds the decoded fields of a single note.
type Fields struct {
	Front string
	Back  string
	Extra []string
}

// ParseFields splits a note's flds column and sanitizes every field.
// Field 0 is the front, field 1 the back, anything after that is kept in order
// as an extra field. Missing front or back fields decode as empty strings.
func ParseFields(flds string) Fields {
	parts := strings.Split(flds, FieldSeparator)

	var f Fields
	f.Front = sanitize.Field(parts[0])
	if len(parts) > 1 {
		f.Back = sanitize.Field(parts[1])
	}
	if len(parts) > 2 {
		f.Extra = make([]string, 0, len(parts)-2)
		for _, part := range parts[2:] {
			f.Extra = append(f.Extra, sanitize.Field(part))
		}
	}
	return f
}

// ParseTags splits a note's space separated tags column.
func ParseTags(tags string) []string {
	return strings.Fields(tags)
}
