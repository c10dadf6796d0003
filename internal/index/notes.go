package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	errs "github.com/alexjbarnes/noted/internal/errors"
	"golang.org/x/text/unicode/norm"
)

// Order selects the note list ordering.
type Order int

const (
	// ByModified lists the most recently modified notes first.
	ByModified Order = iota
	// ByName lists notes alphabetically by name.
	ByName
)

// Note is one note file of the current folder. IDs are only valid until
// the next rebuild; resolve across rebuilds by FileName.
type Note struct {
	ID       int64
	FileName string
	Name     string
	Text     string
	// DiskChecksum is the checksum of the text last read from or written
	// to disk.
	DiskChecksum string
	Modified     time.Time
	Dirty        bool
	Tags         []string
	Crypto       CryptoState
}

// CryptoState caches the decrypted form of an encrypted note.
type CryptoState struct {
	Key           []byte
	ExpiresAt     time.Time
	DecryptedText string
}

// Active reports whether a decrypted key is cached and not expired.
func (c CryptoState) Active(now time.Time) bool {
	return len(c.Key) > 0 && now.Before(c.ExpiresAt)
}

// NoteName returns the display name of a note file.
func NoteName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// NameKey is the comparison form of a file name: NFC with non-breaking
// spaces as plain spaces. File names are stored as found on disk; the key
// only matches names typed or reported in another form.
func NameKey(fileName string) string {
	return norm.NFC.String(strings.ReplaceAll(fileName, "\u00A0", " "))
}

// Checksum returns the hex SHA-256 of a note text.
func Checksum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NewNote builds a clean note as read from disk.
func NewNote(fileName, text string, modified time.Time) *Note {
	return &Note{
		FileName:     fileName,
		Name:         NoteName(fileName),
		Text:         text,
		DiskChecksum: Checksum(text),
		Modified:     modified,
	}
}

const noteColumns = `id, file_name, name, text, disk_checksum, modified, dirty,
	crypto_key, crypto_expires_at, decrypted_text`

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*Note, error) {
	var (
		n         Note
		modified  int64
		dirty     int
		expiresAt int64
	)

	err := s.Scan(&n.ID, &n.FileName, &n.Name, &n.Text, &n.DiskChecksum,
		&modified, &dirty, &n.Crypto.Key, &expiresAt, &n.Crypto.DecryptedText)
	if err != nil {
		return nil, err
	}

	n.Modified = time.Unix(0, modified)
	n.Dirty = dirty != 0

	if expiresAt != 0 {
		n.Crypto.ExpiresAt = time.Unix(0, expiresAt)
	}

	return &n, nil
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixNano()
}

func boolInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

// Insert stores a new note and sets its ID.
func (db *DB) Insert(n *Note) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if n.Name == "" {
		n.Name = NoteName(n.FileName)
	}

	res, err := tx.Exec(`
		INSERT INTO notes (file_name, name_key, name, text, disk_checksum, modified, dirty,
			crypto_key, crypto_expires_at, decrypted_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.FileName, NameKey(n.FileName), n.Name, n.Text, n.DiskChecksum, unixNano(n.Modified), boolInt(n.Dirty),
		n.Crypto.Key, unixNano(n.Crypto.ExpiresAt), n.Crypto.DecryptedText)
	if err != nil {
		return fmt.Errorf("index: insert note %q: %w", n.FileName, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("index: insert note id: %w", err)
	}

	n.ID = id
	n.Tags = parseTags(n.Text)

	if err := writeTags(tx, n.ID, n.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// Update writes every mutable field of an existing note.
func (db *DB) Update(n *Note) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`
		UPDATE notes SET text = ?, disk_checksum = ?, modified = ?, dirty = ?,
			crypto_key = ?, crypto_expires_at = ?, decrypted_text = ?
		WHERE id = ?
	`, n.Text, n.DiskChecksum, unixNano(n.Modified), boolInt(n.Dirty),
		n.Crypto.Key, unixNano(n.Crypto.ExpiresAt), n.Crypto.DecryptedText, n.ID)
	if err != nil {
		return fmt.Errorf("index: update note %q: %w", n.FileName, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return errs.ErrNoteNotFound
	}

	n.Tags = parseTags(n.Text)

	if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ?`, n.ID); err != nil {
		return fmt.Errorf("index: clear tags: %w", err)
	}

	if err := writeTags(tx, n.ID, n.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

func writeTags(tx *sql.Tx, id int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO note_tags (note_id, tag) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare tag insert: %w", err)
	}
	defer stmt.Close()

	for _, tag := range tags {
		if _, err := stmt.Exec(id, tag); err != nil {
			return fmt.Errorf("index: insert tag: %w", err)
		}
	}

	return nil
}

// FetchByID returns the note with the given ID. IDs from before the
// last rebuild return ErrNoteNotFound.
func (db *DB) FetchByID(id int64) (*Note, error) {
	row := db.conn.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	return db.withTags(scanNote(row))
}

// FetchByFileName returns the note stored for the given file name. An
// exact match wins; otherwise the name is matched by NameKey.
func (db *DB) FetchByFileName(fileName string) (*Note, error) {
	row := db.conn.QueryRow(`SELECT `+noteColumns+` FROM notes
		WHERE file_name = ? OR name_key = ?
		ORDER BY file_name = ? DESC, id LIMIT 1`, fileName, NameKey(fileName), fileName)
	return db.withTags(scanNote(row))
}

func (db *DB) withTags(n *Note, err error) (*Note, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNoteNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("index: fetch note: %w", err)
	}

	rows, err := db.conn.Query(`SELECT tag FROM note_tags WHERE note_id = ? ORDER BY rowid`, n.ID)
	if err != nil {
		return nil, fmt.Errorf("index: note tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}

		n.Tags = append(n.Tags, tag)
	}

	return n, rows.Err()
}

// All returns every note in the given order.
func (db *DB) All(order Order) ([]*Note, error) {
	return db.Search("", "", order)
}

// Search returns the notes whose name or text contains query
// (case-insensitive) and that carry tag. Empty arguments match all.
func (db *DB) Search(query, tag string, order Order) ([]*Note, error) {
	var (
		where []string
		args  []any
	)

	if query != "" {
		where = append(where, `(instr(lower(name), lower(?)) > 0 OR instr(lower(text), lower(?)) > 0)`)
		args = append(args, query, query)
	}

	if tag != "" {
		where = append(where, `id IN (SELECT note_id FROM note_tags WHERE tag = ?)`)
		args = append(args, tag)
	}

	q := `SELECT ` + noteColumns + ` FROM notes`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}

	if order == ByName {
		q += ` ORDER BY name COLLATE NOCASE, file_name`
	} else {
		q += ` ORDER BY modified DESC, file_name`
	}

	return db.queryNotes(q, args...)
}

// Dirty returns every note with unsaved changes.
func (db *DB) Dirty() ([]*Note, error) {
	return db.queryNotes(`SELECT ` + noteColumns + ` FROM notes WHERE dirty = 1 ORDER BY id`)
}

// HasDirty reports whether any note has unsaved changes.
func (db *DB) HasDirty() (bool, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM notes WHERE dirty = 1`).Scan(&n); err != nil {
		return false, fmt.Errorf("index: count dirty: %w", err)
	}

	return n > 0, nil
}

func (db *DB) queryNotes(q string, args ...any) ([]*Note, error) {
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("index: query notes: %w", err)
	}
	defer rows.Close()

	var notes []*Note

	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("index: scan note: %w", err)
		}

		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	tagsByID, err := db.allTags()
	if err != nil {
		return nil, err
	}

	for _, n := range notes {
		n.Tags = tagsByID[n.ID]
	}

	return notes, nil
}

func (db *DB) allTags() (map[int64][]string, error) {
	rows, err := db.conn.Query(`SELECT note_id, tag FROM note_tags ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("index: all tags: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]string)

	for rows.Next() {
		var (
			id  int64
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}

		out[id] = append(out[id], tag)
	}

	return out, rows.Err()
}

// Tags returns every distinct tag, sorted.
func (db *DB) Tags() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT tag FROM note_tags ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("index: tags: %w", err)
	}
	defer rows.Close()

	var tags []string

	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// Count returns the number of stored notes.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}

	return n, nil
}

// Delete removes one note.
func (db *DB) Delete(id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ?`, id); err != nil {
		return fmt.Errorf("index: delete tags: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}

	return tx.Commit()
}

// DeleteAll wipes every note. The id sequence is kept.
func (db *DB) DeleteAll() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM note_tags`); err != nil {
		return fmt.Errorf("index: delete tags: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM notes`); err != nil {
		return fmt.Errorf("index: delete notes: %w", err)
	}

	return tx.Commit()
}
