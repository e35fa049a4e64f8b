package scheduler

import (
	"maps"
	"slices"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// Session is the state of one study run. It has a single owner and no
// internal locking.
//
// The cursor never moves backwards and the queue only grows, so once the
// cursor reaches the end of the queue the session stays done.
type Session struct {
	params   Params
	cards    []domain.Card
	cursor   int
	revealed bool
	tallies  map[domain.Grade]int
	done     bool
}

// Current returns the card under the cursor.
func (s *Session) Current() (domain.Card, bool) {
	if s.done || s.cursor >= len(s.cards) {
		return domain.Card{}, false
	}
	return s.cards[s.cursor], true
}

// Cursor is the index of the card being shown.
func (s *Session) Cursor() int { return s.cursor }

// Len is the current queue length, reinserted cards included.
func (s *Session) Len() int { return len(s.cards) }

// Remaining counts the cards still to be shown, the current one included.
func (s *Session) Remaining() int { return len(s.cards) - s.cursor }

// Revealed reports whether the back of the current card is shown.
func (s *Session) Revealed() bool { return s.revealed }

// Done reports whether every queued card has been graded.
func (s *Session) Done() bool { return s.done }

// Cards returns a copy of the queue.
func (s *Session) Cards() []domain.Card {
	out := make([]domain.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Tallies returns how often each grade was given.
func (s *Session) Tallies() map[domain.Grade]int {
	return maps.Clone(s.tallies)
}

// Reviewed is the total number of grades given.
func (s *Session) Reviewed() int {
	n := 0
	for _, c := range s.tallies {
		n += c
	}
	return n
}

// Flip toggles between the front and the back of the current card.
func (s *Session) Flip() {
	s.revealed = !s.revealed
}

// Grade records g for the current card and moves to the next one. Again and
// Hard put a copy of the card back into the queue ahead of the cursor, never
// directly after it and never past the end. A done session is left untouched.
func (s *Session) Grade(g domain.Grade) error {
	if !g.IsValid() {
		return ErrInvalidGrade
	}
	if s.done || s.cursor >= len(s.cards) {
		return ErrSessionDone
	}

	s.tallies[g]++

	remaining := len(s.cards) - s.cursor - 1
	if offset := s.params.offset(g, remaining); offset > 0 {
		target := min(s.cursor+1+offset, len(s.cards))
		s.cards = slices.Insert(s.cards, target, s.cards[s.cursor])
	}

	s.cursor++
	s.revealed = false
	s.done = s.cursor >= len(s.cards)
	return nil
}

// Reset discards the session, leaving an empty queue with no tallies.
func (s *Session) Reset() {
	s.cards = nil
	s.cursor = 0
	s.revealed = false
	s.tallies = make(map[domain.Grade]int)
	s.done = true
}
