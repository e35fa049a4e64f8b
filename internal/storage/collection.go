package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/conorfennell/knoldeck/internal/apperr"
	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/parser"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DefaultDeckName is used for catalog entries without a name.
const DefaultDeckName = "Deck"

// Collection is a read-only handle on a collection database file.
type Collection struct {
	conn *sql.DB
	path string
}

// OpenCollection opens the collection at path read-only. It never creates the
// file. The caller must Close the handle.
func OpenCollection(path string) (*Collection, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperr.StoreRead("failed to resolve collection path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, apperr.StoreRead("failed to open collection "+path, err)
	}
	if info.IsDir() {
		return nil, apperr.StoreRead("failed to open collection "+path, errors.New("is a directory"))
	}

	dsn := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperr.StoreRead("failed to open collection "+path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperr.StoreRead("failed to connect to collection "+path, err)
	}

	return &Collection{conn: db, path: path}, nil
}

// Close closes the database connection.
func (c *Collection) Close() error {
	return c.conn.Close()
}

// Decks decodes the deck catalog and counts the cards of every deck.
// Catalog keys that are not integers are skipped. A collection without a
// catalog row has no decks.
func (c *Collection) Decks(ctx context.Context) ([]domain.Deck, error) {
	var raw string
	err := c.conn.QueryRowContext(ctx, catalogQuery).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Deck{}, nil
		}
		return nil, apperr.StoreRead("failed to read deck catalog", err)
	}

	var catalog map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &catalog); err != nil {
		return nil, apperr.StoreRead("failed to decode deck catalog", err)
	}

	decks := make([]domain.Deck, 0, len(catalog))
	for key, value := range catalog {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}

		var entry struct {
			Name *string `json:"name"`
		}
		if err := json.Unmarshal(value, &entry); err != nil {
			return nil, apperr.StoreRead(fmt.Sprintf("failed to decode deck %d", id), err)
		}
		name := DefaultDeckName
		if entry.Name != nil {
			name = *entry.Name
		}

		count, err := c.CountCards(ctx, id)
		if err != nil {
			return nil, err
		}
		decks = append(decks, domain.Deck{ID: id, Name: name, CardCount: count, DBPath: c.path})
	}

	sort.Slice(decks, func(i, j int) bool { return decks[i].ID < decks[j].ID })
	return decks, nil
}

// CountCards returns the number of cards in a deck.
func (c *Collection) CountCards(ctx context.Context, deckID int64) (int, error) {
	var count int
	if err := c.conn.QueryRowContext(ctx, cardCountQuery, deckID).Scan(&count); err != nil {
		return 0, apperr.StoreRead(fmt.Sprintf("failed to count cards for deck %d", deckID), err)
	}
	return count, nil
}

// Cards returns up to limit cards of a deck in card id order. A limit of zero
// or less returns every card.
func (c *Collection) Cards(ctx context.Context, deckID int64, limit int) ([]domain.Card, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.conn.QueryContext(ctx, cardsQuery, deckID, limit)
	if err != nil {
		return nil, apperr.StoreRead(fmt.Sprintf("failed to query cards for deck %d", deckID), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, apperr.StoreRead("failed to read card columns", err)
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	cards := []domain.Card{}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, apperr.StoreRead(fmt.Sprintf("failed to scan card row for deck %d", deckID), err)
		}

		props := make(map[string]string, len(columns))
		for i, name := range columns {
			if _, seen := props[name]; !seen {
				props[name] = values[i].String
			}
		}

		id, err := strconv.ParseInt(props["id"], 10, 64)
		if err != nil {
			return nil, apperr.StoreRead("failed to decode card id", err)
		}
		fields := parser.ParseFields(props["flds"])
		cards = append(cards, domain.Card{
			ID:         id,
			Front:      fields.Front,
			Back:       fields.Back,
			Extra:      fields.Extra,
			Properties: props,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreRead(fmt.Sprintf("failed to read cards for deck %d", deckID), err)
	}
	return cards, nil
}

// ListDecks opens the collection at dbPath, lists its decks and closes it.
func ListDecks(ctx context.Context, dbPath string) ([]domain.Deck, error) {
	c, err := OpenCollection(dbPath)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.Decks(ctx)
}

// LoadCards opens the collection at dbPath, reads up to limit cards of a deck
// and closes it.
func LoadCards(ctx context.Context, dbPath string, deckID int64, limit int) ([]domain.Card, error) {
	c, err := OpenCollection(dbPath)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.Cards(ctx, deckID, limit)
}
