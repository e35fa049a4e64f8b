package scheduler

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/knoldeck/internal/domain"
)

func makeCards(n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{ID: int64(i), Front: "front", Back: "back"}
	}
	return cards
}

func ids(cards []domain.Card) []int64 {
	out := make([]int64, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func startOrdered(n int) *Session {
	return New(DefaultParams()).Start(makeCards(n), false)
}

func TestStart(t *testing.T) {
	input := makeCards(5)
	s := New(DefaultParams()).Start(input, false)

	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, 5, s.Len())
	assert.False(t, s.Revealed())
	assert.False(t, s.Done())
	assert.Empty(t, s.Tallies())
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, ids(s.Cards()))

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, int64(0), current.ID)

	input[0].ID = 42
	assert.Equal(t, int64(0), s.Cards()[0].ID, "session must own its queue")
}

func TestStartShuffled(t *testing.T) {
	input := makeCards(50)
	sched := New(DefaultParams(), WithRand(rand.New(rand.NewPCG(1, 2))))

	s := sched.Start(input, true)

	assert.ElementsMatch(t, ids(input), ids(s.Cards()))
	assert.NotEqual(t, ids(input), ids(s.Cards()))
	assert.Equal(t, []int64{0, 1, 2}, ids(input[:3]), "input must not be reordered")
}

func TestStartEmptyIsDone(t *testing.T) {
	s := startOrdered(0)

	assert.True(t, s.Done())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Grade(domain.Good), ErrSessionDone)
	assert.Empty(t, s.Tallies())
}

func TestFlip(t *testing.T) {
	s := startOrdered(3)

	s.Flip()
	assert.True(t, s.Revealed())
	assert.Equal(t, 0, s.Cursor())
	s.Flip()
	assert.False(t, s.Revealed())

	s.Flip()
	require.NoError(t, s.Grade(domain.Good))
	assert.False(t, s.Revealed(), "next card starts hidden")
}

func TestGradeRetiresGoodAndEasy(t *testing.T) {
	const n = 7
	s := startOrdered(n)

	var seen []int64
	for i := 0; i < n; i++ {
		require.False(t, s.Done(), "done before cursor reached %d", n)
		card, ok := s.Current()
		require.True(t, ok)
		seen = append(seen, card.ID)

		grade := domain.Good
		if i%2 == 1 {
			grade = domain.Easy
		}
		require.NoError(t, s.Grade(grade))
	}

	assert.True(t, s.Done())
	assert.Equal(t, n, s.Cursor())
	assert.Equal(t, n, s.Len())
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6}, seen)
	assert.Equal(t, map[domain.Grade]int{domain.Good: 4, domain.Easy: 3}, s.Tallies())
}

func TestGradeReinsertion(t *testing.T) {
	testCases := []struct {
		name           string
		size           int
		advance        int
		grade          domain.Grade
		expectedIndex  int
		expectedLength int
	}{
		// remaining 9: max(floor(1.8), 1) = 1, index min(0+1+1, 10)
		{name: "Again at start of ten", size: 10, grade: domain.Again, expectedIndex: 2, expectedLength: 11},
		// remaining 9: max(floor(4.05), 1) = 4, index min(0+1+4, 10)
		{name: "Hard at start of ten", size: 10, grade: domain.Hard, expectedIndex: 5, expectedLength: 11},
		// remaining 99: floor(19.8) = 19
		{name: "Again at start of hundred", size: 100, grade: domain.Again, expectedIndex: 20, expectedLength: 101},
		// remaining 99: floor(44.55) = 44
		{name: "Hard at start of hundred", size: 100, grade: domain.Hard, expectedIndex: 45, expectedLength: 101},
		// cursor 3, remaining 6: floor(1.2) = 1
		{name: "Again mid session", size: 10, advance: 3, grade: domain.Again, expectedIndex: 5, expectedLength: 11},
		// cursor 7, remaining 2: floor(0.9) = 0, raised to 1
		{name: "Hard near the end", size: 10, advance: 7, grade: domain.Hard, expectedIndex: 9, expectedLength: 11},
		// cursor 8, remaining 1: index min(8+1+1, 10) appends
		{name: "Again on second to last", size: 10, advance: 8, grade: domain.Again, expectedIndex: 10, expectedLength: 11},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := startOrdered(tc.size)
			for i := 0; i < tc.advance; i++ {
				require.NoError(t, s.Grade(domain.Good))
			}
			graded, ok := s.Current()
			require.True(t, ok)

			require.NoError(t, s.Grade(tc.grade))

			require.Equal(t, tc.expectedLength, s.Len())
			assert.Equal(t, graded.ID, s.Cards()[tc.expectedIndex].ID)
			assert.Equal(t, tc.advance+1, s.Cursor())
			assert.False(t, s.Done())

			// Entries between the cursor and the reinserted copy keep their order.
			queue := ids(s.Cards())
			for i := tc.advance + 1; i < tc.expectedIndex; i++ {
				assert.Equal(t, int64(i), queue[i])
			}
		})
	}
}

func TestAgainAndHardUseDifferentDistances(t *testing.T) {
	again := startOrdered(10)
	hard := startOrdered(10)

	require.NoError(t, again.Grade(domain.Again))
	require.NoError(t, hard.Grade(domain.Hard))

	indexOf := func(s *Session) int {
		for i, c := range s.Cards() {
			if i > 0 && c.ID == 0 {
				return i
			}
		}
		return -1
	}
	assert.Less(t, indexOf(again), indexOf(hard))
}

func TestGradeLastCardAgainKeepsSessionActive(t *testing.T) {
	s := startOrdered(3)
	require.NoError(t, s.Grade(domain.Good))
	require.NoError(t, s.Grade(domain.Good))

	last, ok := s.Current()
	require.True(t, ok)
	require.NoError(t, s.Grade(domain.Again))

	assert.False(t, s.Done(), "reinserted card must be shown again")
	assert.Equal(t, 3, s.Cursor())
	assert.Equal(t, 4, s.Len())

	again, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, last.ID, again.ID)

	require.NoError(t, s.Grade(domain.Easy))
	assert.True(t, s.Done())
	assert.Equal(t, s.Len(), s.Cursor())
}

func TestSingleCardHardRepeatsOnce(t *testing.T) {
	s := startOrdered(1)

	require.NoError(t, s.Grade(domain.Hard))
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Done())

	require.NoError(t, s.Grade(domain.Good))
	assert.True(t, s.Done())
	assert.Equal(t, 2, s.Reviewed())
}

func TestGradeGuards(t *testing.T) {
	s := startOrdered(1)

	assert.ErrorIs(t, s.Grade(domain.Grade(0)), ErrInvalidGrade)
	assert.ErrorIs(t, s.Grade(domain.Grade(9)), ErrInvalidGrade)
	assert.Equal(t, 0, s.Cursor())
	assert.Empty(t, s.Tallies())

	require.NoError(t, s.Grade(domain.Good))
	require.True(t, s.Done())

	assert.ErrorIs(t, s.Grade(domain.Again), ErrSessionDone)
	assert.True(t, s.Done())
	assert.Equal(t, 1, s.Cursor())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, map[domain.Grade]int{domain.Good: 1}, s.Tallies())
}

func TestTalliesMatchGrades(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	s := startOrdered(40)

	issued := map[domain.Grade]int{}
	steps := 0
	prevCursor := 0
	for !s.Done() && steps < 500 {
		g := domain.Grades[rng.IntN(len(domain.Grades))]
		require.NoError(t, s.Grade(g))
		issued[g]++
		steps++

		assert.GreaterOrEqual(t, s.Cursor(), prevCursor)
		assert.LessOrEqual(t, s.Cursor(), s.Len())
		assert.Equal(t, s.Cursor() == s.Len(), s.Done())
		prevCursor = s.Cursor()
	}

	assert.Equal(t, issued, s.Tallies())
	assert.Equal(t, steps, s.Reviewed())
	assert.Equal(t, steps, s.Cursor())
}

func TestTalliesAreACopy(t *testing.T) {
	s := startOrdered(2)
	require.NoError(t, s.Grade(domain.Hard))

	tallies := s.Tallies()
	tallies[domain.Hard] = 99
	assert.Equal(t, 1, s.Tallies()[domain.Hard])
}

func TestCustomParams(t *testing.T) {
	s := New(Params{AgainFactor: 0.5, HardFactor: 0.9}).Start(makeCards(11), false)

	// remaining 10: floor(5.0) = 5
	require.NoError(t, s.Grade(domain.Again))
	assert.Equal(t, int64(0), s.Cards()[6].ID)

	// cursor 1, remaining 10: floor(9.0) = 9, index 11
	require.NoError(t, s.Grade(domain.Hard))
	assert.Equal(t, int64(1), s.Cards()[11].ID)
}

func TestReset(t *testing.T) {
	s := startOrdered(4)
	s.Flip()
	require.NoError(t, s.Grade(domain.Again))

	s.Reset()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Cursor())
	assert.False(t, s.Revealed())
	assert.Empty(t, s.Tallies())
	assert.True(t, s.Done())
	assert.ErrorIs(t, s.Grade(domain.Good), ErrSessionDone)
}
