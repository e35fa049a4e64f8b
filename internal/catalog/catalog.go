// Package catalog manages the deck directories under the managed decks root.
// Every call reads from disk; nothing is cached.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/importer"
	"github.com/conorfennell/knoldeck/internal/storage"
)

// DefaultCardLimit caps the cards loaded for one study session.
const DefaultCardLimit = 200

// collectionExts are the file name endings of a deck package's database.
var collectionExts = []string{".anki2", ".anki21"}

// Catalog lists, loads and erases decks below a single root directory. It
// assumes a single writer: listing while erasing may observe a half-deleted
// directory.
type Catalog struct {
	root   string
	logger *slog.Logger
}

// New creates a Catalog for root.
func New(root string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{root: root, logger: logger}
}

// Root returns the managed decks root.
func (c *Catalog) Root() string {
	return c.root
}

// List returns the decks of every deck directory, sorted by name ignoring
// case. A missing root has no decks. Any unreadable collection fails the
// whole listing.
func (c *Catalog) List(ctx context.Context) ([]domain.Deck, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Deck{}, nil
		}
		return nil, fmt.Errorf("failed to read decks root %s: %w", c.root, err)
	}

	decks := []domain.Deck{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(c.root, entry.Name())
		dbPath, err := findCollection(dir)
		if err != nil {
			return nil, err
		}
		if dbPath == "" {
			c.logger.Debug("no collection in deck directory", "dir", dir)
			continue
		}

		found, err := storage.ListDecks(ctx, dbPath)
		if err != nil {
			return nil, err
		}
		decks = append(decks, found...)
	}

	SortByName(decks)
	return decks, nil
}

// findCollection returns the first regular file in dir whose name ends with a
// collection extension, or "" if there is none.
func findCollection(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read deck directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		for _, ext := range collectionExts {
			if strings.HasSuffix(entry.Name(), ext) {
				return filepath.Join(dir, entry.Name()), nil
			}
		}
	}
	return "", nil
}

// LoadCards reads up to limit cards of deck from its collection.
func (c *Catalog) LoadCards(ctx context.Context, deck domain.Deck, limit int) ([]domain.Card, error) {
	return storage.LoadCards(ctx, deck.DBPath, deck.ID, limit)
}

// ImportFile extracts the package at path into a new deck directory.
func (c *Catalog) ImportFile(path string) (string, error) {
	dir, err := importer.ExtractFile(path, c.root)
	if err != nil {
		return "", err
	}
	c.logger.Info("deck package imported", "source", path, "dir", dir)
	return dir, nil
}

// Import extracts the package read from src into a new deck directory.
func (c *Catalog) Import(src io.Reader, name string) (string, error) {
	dir, err := importer.Extract(src, c.root)
	if err != nil {
		return "", err
	}
	c.logger.Info("deck package imported", "source", name, "dir", dir)
	return dir, nil
}

// Erase deletes the deck directory that holds deck's collection, along with
// every other deck stored in it. Only strict descendants of the root are
// removed; anything else is left alone.
func (c *Catalog) Erase(deck domain.Deck) error {
	dir, ok := c.contains(filepath.Dir(deck.DBPath))
	if !ok {
		c.logger.Warn("refusing to erase outside decks root", "deck", deck.Name, "path", deck.DBPath)
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to erase deck directory %s: %w", dir, err)
	}
	c.logger.Info("deck directory erased", "deck", deck.Name, "dir", dir)
	return nil
}

// contains resolves dir to an absolute path and reports whether it lies
// strictly below the root.
func (c *Catalog) contains(dir string) (string, bool) {
	if dir == "" || dir == "." {
		return "", false
	}
	absRoot, err := filepath.Abs(c.root)
	if err != nil {
		return "", false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == "." || !filepath.IsLocal(rel) {
		return "", false
	}
	return absDir, true
}

// SortByName orders decks by case-folded name, then by id.
func SortByName(decks []domain.Deck) {
	caser := cases.Fold()
	keys := make(map[string]string, len(decks))
	key := func(name string) string {
		k, ok := keys[name]
		if !ok {
			k = caser.String(name)
			keys[name] = k
		}
		return k
	}
	slices.SortStableFunc(decks, func(a, b domain.Deck) int {
		if c := strings.Compare(key(a.Name), key(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Filter keeps the decks whose name contains term, ignoring case. A blank
// term keeps everything.
func Filter(decks []domain.Deck, term string) []domain.Deck {
	if strings.TrimSpace(term) == "" {
		return decks
	}
	caser := cases.Fold()
	needle := caser.String(term)

	out := []domain.Deck{}
	for _, d := range decks {
		if strings.Contains(caser.String(d.Name), needle) {
			out = append(out, d)
		}
	}
	return out
}

// Summary totals a deck listing.
type Summary struct {
	Decks int
	Cards int
}

// Stats counts decks and cards in a listing.
func Stats(decks []domain.Deck) Summary {
	s := Summary{Decks: len(decks)}
	for _, d := range decks {
		s.Cards += d.CardCount
	}
	return s
}
