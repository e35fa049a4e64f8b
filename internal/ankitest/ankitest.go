// Package ankitest builds collection databases and deck packages for tests.
package ankitest

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// The subset of the collection schema the reader touches, with the column
// layout of a real collection.anki2 file.
const schema = `
CREATE TABLE col (
    id integer PRIMARY KEY,
    crt integer NOT NULL,
    mod integer NOT NULL,
    scm integer NOT NULL,
    ver integer NOT NULL,
    dty integer NOT NULL,
    usn integer NOT NULL,
    ls integer NOT NULL,
    conf text NOT NULL,
    models text NOT NULL,
    decks text NOT NULL,
    dconf text NOT NULL,
    tags text NOT NULL
);
CREATE TABLE notes (
    id integer PRIMARY KEY,
    guid text NOT NULL,
    mid integer NOT NULL,
    mod integer NOT NULL,
    usn integer NOT NULL,
    tags text NOT NULL,
    flds text NOT NULL,
    sfld integer NOT NULL,
    csum integer NOT NULL,
    flags integer NOT NULL,
    data text NOT NULL
);
CREATE TABLE cards (
    id integer PRIMARY KEY,
    nid integer NOT NULL,
    did integer NOT NULL,
    ord integer NOT NULL,
    mod integer NOT NULL,
    usn integer NOT NULL,
    type integer NOT NULL,
    queue integer NOT NULL,
    due integer NOT NULL,
    ivl integer NOT NULL,
    factor integer NOT NULL,
    reps integer NOT NULL,
    lapses integer NOT NULL,
    left integer NOT NULL,
    odue integer NOT NULL,
    odid integer NOT NULL,
    flags integer NOT NULL,
    data text NOT NULL
);
`

// Note is one row of the notes table.
type Note struct {
	ID     int64
	Fields []string
	Tags   string
}

// Card is one row of the cards table.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
}

// Collection describes the content of a fixture database.
type Collection struct {
	// Decks is the raw JSON stored in col.decks.
	Decks string
	// NoCatalog leaves the col table empty.
	NoCatalog bool
	Notes     []Note
	Cards     []Card
}

// DecksJSON renders a col.decks catalog for the given id to name mapping.
func DecksJSON(decks map[int64]string) string {
	catalog := make(map[string]map[string]any, len(decks))
	for id, name := range decks {
		catalog[strconv.FormatInt(id, 10)] = map[string]any{"id": id, "name": name}
	}
	b, err := json.Marshal(catalog)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Deck returns a collection with a single deck holding n cards. Note and card
// ids start at deckID*1000+1 so that several fixtures can be merged.
func Deck(deckID int64, name string, n int) Collection {
	c := Collection{Decks: DecksJSON(map[int64]string{deckID: name})}
	c.Add(deckID, n)
	return c
}

// Add appends n notes, each with one card in deckID.
func (c *Collection) Add(deckID int64, n int) {
	base := deckID*1000 + int64(len(c.Notes))
	for i := 1; i <= n; i++ {
		id := base + int64(i)
		c.Notes = append(c.Notes, Note{
			ID:     id,
			Fields: []string{fmt.Sprintf("front %d", i), fmt.Sprintf("back %d", i)},
			Tags:   " fixture ",
		})
		c.Cards = append(c.Cards, Card{ID: id, NoteID: id, DeckID: deckID})
	}
}

// WriteCollection creates a collection database at path.
func WriteCollection(tb testing.TB, path string, c Collection) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("failed to create fixture directory: %v", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("failed to open fixture database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		tb.Fatalf("failed to create fixture schema: %v", err)
	}

	if !c.NoCatalog {
		_, err := db.Exec(`
			INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
			VALUES (1, 0, 0, 0, 11, 0, 0, 0, '{}', '{}', ?, '{}', '{}')
		`, c.Decks)
		if err != nil {
			tb.Fatalf("failed to insert catalog: %v", err)
		}
	}

	for _, n := range c.Notes {
		sfld := ""
		if len(n.Fields) > 0 {
			sfld = n.Fields[0]
		}
		_, err := db.Exec(`
			INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			VALUES (?, ?, 1, 0, -1, ?, ?, ?, 0, 0, '')
		`, n.ID, fmt.Sprintf("guid%d", n.ID), n.Tags, strings.Join(n.Fields, "\x1f"), sfld)
		if err != nil {
			tb.Fatalf("failed to insert note %d: %v", n.ID, err)
		}
	}

	for _, card := range c.Cards {
		_, err := db.Exec(`
			INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
			VALUES (?, ?, ?, 0, 0, -1, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, '')
		`, card.ID, card.NoteID, card.DeckID)
		if err != nil {
			tb.Fatalf("failed to insert card %d: %v", card.ID, err)
		}
	}
}

// WritePackage creates an .apkg archive at path holding the collection as
// collection.anki2 together with the given media files.
func WritePackage(tb testing.TB, path string, c Collection, media map[string][]byte) {
	tb.Helper()

	dbPath := filepath.Join(tb.TempDir(), "collection.anki2")
	WriteCollection(tb, dbPath, c)
	dbBytes, err := os.ReadFile(dbPath)
	if err != nil {
		tb.Fatalf("failed to read fixture database: %v", err)
	}

	files := map[string][]byte{"collection.anki2": dbBytes}
	index := make(map[string]string, len(media))
	i := 0
	for name, content := range media {
		key := strconv.Itoa(i)
		index[key] = name
		files[key] = content
		i++
	}
	mediaJSON, err := json.Marshal(index)
	if err != nil {
		tb.Fatalf("failed to encode media index: %v", err)
	}
	files["media"] = mediaJSON

	WriteZip(tb, path, files)
}

// WriteZip writes a zip archive with the given entries. Names ending in "/"
// become directory entries.
func WriteZip(tb testing.TB, path string, entries map[string][]byte) {
	tb.Helper()

	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("failed to create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatalf("failed to add %s to archive: %v", name, err)
		}
		if strings.HasSuffix(name, "/") {
			continue
		}
		if _, err := w.Write(content); err != nil {
			tb.Fatalf("failed to write %s to archive: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("failed to finish archive: %v", err)
	}
}
