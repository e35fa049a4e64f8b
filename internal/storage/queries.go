package storage

// Queries against the collection schema. The reader never writes.
const (
	// col holds one row whose decks column is a JSON object keyed by deck id.
	catalogQuery = `SELECT decks FROM col LIMIT 1`

	cardCountQuery = `SELECT COUNT(*) FROM cards WHERE did = ?`

	// Every cards column plus the note columns the card is rendered from.
	// A negative LIMIT means no limit.
	cardsQuery = `
		SELECT c.*, n.flds, n.tags, n.sfld
		FROM cards c
		JOIN notes n ON c.nid = n.id
		WHERE c.did = ?
		ORDER BY c.id
		LIMIT ?
	`
)
