package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/conorfennell/knoldeck/internal/domain"
)

var (
	// ErrDeckNotFound is returned when a reference matches no deck.
	ErrDeckNotFound = errors.New("deck not found")
	// ErrAmbiguousDeck is returned when a bare id matches decks in several directories.
	ErrAmbiguousDeck = errors.New("deck id is ambiguous")
)

// Ref identifies a deck across directories as "<deck dir>/<deck id>". Deck ids
// are only unique within one collection, and most packages ship a deck 1.
func Ref(deck domain.Deck) string {
	return filepath.Base(filepath.Dir(deck.DBPath)) + "/" + strconv.FormatInt(deck.ID, 10)
}

// Find resolves ref against a fresh listing. ref is either a full Ref or a
// bare deck id that must be unique across directories.
func (c *Catalog) Find(ctx context.Context, ref string) (domain.Deck, error) {
	decks, err := c.List(ctx)
	if err != nil {
		return domain.Deck{}, err
	}
	return Resolve(decks, ref)
}

// Resolve looks ref up in a listing.
func Resolve(decks []domain.Deck, ref string) (domain.Deck, error) {
	for _, d := range decks {
		if Ref(d) == ref {
			return d, nil
		}
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("%w: %s", ErrDeckNotFound, ref)
	}
	var matches []domain.Deck
	for _, d := range decks {
		if d.ID == id {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Deck{}, fmt.Errorf("%w: %s", ErrDeckNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return domain.Deck{}, fmt.Errorf("%w: %s matches %d decks, use <dir>/<id>", ErrAmbiguousDeck, ref, len(matches))
	}
}
