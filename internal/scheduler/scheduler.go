// Package scheduler orders the cards of one study session. Cards graded Again
// or Hard are put back into the queue a little further on; Good and Easy
// retire them. Nothing is persisted between sessions.
package scheduler

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/conorfennell/knoldeck/internal/domain"
)

var (
	// ErrSessionDone is returned when grading a session with no current card.
	ErrSessionDone = errors.New("scheduler: session is done")
	// ErrInvalidGrade is returned for grades outside Again..Easy.
	ErrInvalidGrade = errors.New("scheduler: invalid grade")
)

// Params holds the reinsertion factors. Each is the share of the cards still
// ahead of the cursor that a re-shown card is pushed back by.
type Params struct {
	AgainFactor float64
	HardFactor  float64
}

// DefaultParams returns the factors the reinsertion policy was tuned with.
func DefaultParams() Params {
	return Params{
		AgainFactor: 0.2,
		HardFactor:  0.45,
	}
}

// Scheduler starts sessions with a fixed set of parameters.
type Scheduler struct {
	params Params
	rng    *rand.Rand
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRand sets the random source used to shuffle new sessions.
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) {
		s.rng = r
	}
}

// New creates a Scheduler.
func New(params Params, opts ...Option) *Scheduler {
	s := &Scheduler{params: params}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Params returns the scheduler's parameters.
func (s *Scheduler) Params() Params {
	return s.params
}

// Start creates a session over a copy of cards, shuffled when requested.
func (s *Scheduler) Start(cards []domain.Card, shuffle bool) *Session {
	queue := make([]domain.Card, len(cards))
	copy(queue, cards)

	if shuffle {
		shuffleFn := rand.Shuffle
		if s.rng != nil {
			shuffleFn = s.rng.Shuffle
		}
		shuffleFn(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}

	return &Session{
		params:  s.params,
		cards:   queue,
		tallies: make(map[domain.Grade]int),
		done:    len(queue) == 0,
	}
}

// offset returns how many cards after the next one a card graded g is
// reinserted, or 0 when the card leaves the session.
func (p Params) offset(g domain.Grade, remaining int) int {
	var factor float64
	switch g {
	case domain.Again:
		factor = p.AgainFactor
	case domain.Hard:
		factor = p.HardFactor
	default:
		return 0
	}
	return max(int(math.Floor(float64(remaining)*factor)), 1)
}
