// Package index holds the in-memory SQLite note store for the current
// notes folder. It is rebuilt from disk and never persisted.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// AUTOINCREMENT keeps sqlite_sequence across DeleteAll, so an id handed
// out before a rebuild never resolves to a different note afterwards.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	file_name         TEXT NOT NULL UNIQUE,
	name_key          TEXT NOT NULL DEFAULT '',
	name              TEXT NOT NULL,
	text              TEXT NOT NULL DEFAULT '',
	disk_checksum     TEXT NOT NULL DEFAULT '',
	modified          INTEGER NOT NULL DEFAULT 0,
	dirty             INTEGER NOT NULL DEFAULT 0,
	crypto_key        BLOB,
	crypto_expires_at INTEGER NOT NULL DEFAULT 0,
	decrypted_text    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS note_tags (
	note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	tag     TEXT NOT NULL,
	UNIQUE(note_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_note_tags_tag ON note_tags(tag);
CREATE INDEX IF NOT EXISTS idx_notes_name_key ON notes(name_key);
`

// DB wraps a sql.DB with note store operations.
type DB struct {
	conn *sql.DB
}

// Open opens the SQLite database and applies the schema. Use ":memory:"
// for the per-process store.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}

	// An in-memory database exists per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
