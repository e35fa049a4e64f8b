package domain

import "fmt"

// Card is one reviewable unit decoded from a collection's cards and notes tables.
// Cards are never mutated once decoded.
type Card struct {
	ID     int64
	Front  string
	Back   string
	Extra  []string

	// Properties holds every column of the source row verbatim, keyed by
	// column name (tags, sfld, ord, ...).
	Properties map[string]string
}

// Tags returns the raw note tags column, if present.
func (c Card) Tags() string {
	return c.Properties["tags"]
}

// Deck is a named collection of cards inside one collection file.
// Decks are derived on every catalog listing and never stored.
type Deck struct {
	ID        int64
	Name      string
	CardCount int
	DBPath    string
}

// Grade is the reviewer's self-assessment of recall.
// Values follow the usual 1-4 rating scale:
// 1: Again (Incorrect)
// 2: Hard
// 3: Good
// 4: Easy
type Grade int

const (
	Again Grade = iota + 1
	Hard
	Good
	Easy
)

// Grades lists every valid grade in ascending order.
var Grades = []Grade{Again, Hard, Good, Easy}

var gradeNames = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}

// IsValid reports whether g is one of Again, Hard, Good or Easy.
func (g Grade) IsValid() bool {
	return g >= Again && g <= Easy
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}
