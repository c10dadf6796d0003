package notebook

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	errs "github.com/alexjbarnes/noted/internal/errors"
	"github.com/alexjbarnes/noted/internal/index"
)

// collisionTimeFormat is appended to new note names that already exist.
// Colons are not portable in file names.
const collisionTimeFormat = "2006-01-02T15.04.05"

// CurrentFileName returns the file name of the current note, or "".
func (c *Controller) CurrentFileName() string {
	return c.current
}

// CurrentNote returns the current note.
func (c *Controller) CurrentNote() (*index.Note, error) {
	return c.currentNote()
}

func (c *Controller) currentNote() (*index.Note, error) {
	if c.current == "" {
		return nil, errs.ErrNoCurrentNote
	}

	return c.store.FetchByFileName(c.current)
}

// Note returns the stored note for a file name.
func (c *Controller) Note(fileName string) (*index.Note, error) {
	return c.store.FetchByFileName(fileName)
}

// EditorText returns the text the editor shows for the current note.
func (c *Controller) EditorText() (string, error) {
	n, err := c.currentNote()
	if err != nil {
		return "", err
	}

	return c.editorText(n), nil
}

// SetCurrentNote binds the note with the given file name to the editor.
func (c *Controller) SetCurrentNote(fileName string) error {
	n, err := c.store.FetchByFileName(fileName)
	if err != nil {
		return err
	}

	c.setCurrent(n, true)

	return nil
}

func (c *Controller) setCurrent(n *index.Note, addHistory bool) {
	if n.FileName != c.current {
		c.tracker.Reset()
	}

	c.current = n.FileName

	if addHistory {
		c.history.Add(n.FileName)
	}

	c.ui.SelectNote(n.FileName)
	c.ui.SetEditorText(c.editorText(n))
}

// selectCurrent re-resolves fileName after a rebuild. When the note is
// gone the first visible note is selected and its text loaded.
func (c *Controller) selectCurrent(fileName string, reload bool) {
	n, err := c.store.FetchByFileName(fileName)
	if err != nil {
		notes := c.visibleNotes()
		if len(notes) == 0 {
			c.current = ""
			c.tracker.Reset()
			c.ui.SetEditorText("")

			return
		}

		if fileName != "" {
			c.logger.Debug("current note not found after rebuild",
				slog.String("file", fileName),
				slog.String("selected", notes[0].FileName),
			)
		}

		n = notes[0]
	}

	if n.FileName != c.current || reload {
		c.setCurrent(n, n.FileName != c.current)
		return
	}

	c.ui.SelectNote(n.FileName)
}

// EditText records a text change of the current note from the editor.
// The dirty flag is set iff the text differs from the disk text.
func (c *Controller) EditText(text string) error {
	n, err := c.currentNote()
	if err != nil {
		return err
	}

	now := c.now()

	if n.Crypto.Active(now) {
		if text == n.Crypto.DecryptedText {
			return nil
		}

		sealed, err := resealText(n.Crypto.Key, n.Text, text)
		if err != nil {
			return fmt.Errorf("encrypting note text: %w", err)
		}

		n.Text = sealed
		n.Crypto.DecryptedText = text
		n.Crypto.ExpiresAt = now.Add(c.settings.CryptoKeyTTL)
	} else {
		n.Text = text
	}

	n.Dirty = index.Checksum(n.Text) != n.DiskChecksum

	if err := c.store.Update(n); err != nil {
		return fmt.Errorf("updating stored note: %w", err)
	}

	c.tracker.Edited(now, n.Dirty)
	c.listStale = true

	return nil
}

// CreateNote writes a new note with a headline and makes it current. An
// existing name gets a timestamp suffix. Returns the new file name.
func (c *Controller) CreateNote(name string) (string, error) {
	name = strings.TrimSpace(index.NameKey(name))
	if IsNoteFile(name) {
		name = index.NoteName(name)
	}

	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidNoteName, name)
	}

	fileName := name + ".md"
	if c.folder.Exists(fileName) {
		name = name + " " + c.now().Format(collisionTimeFormat)
		fileName = name + ".md"
	}

	text := name + "\n" + strings.Repeat("=", utf8.RuneCountInString(name)) + "\n\n"

	release := c.watch.Suspend()
	err := c.folder.WriteText(fileName, text)
	release()

	if err != nil {
		return "", fmt.Errorf("creating note: %w", err)
	}

	c.logger.Info("note created", slog.String("file", fileName))

	if err := c.Rebuild(); err != nil {
		return "", err
	}

	return fileName, c.SetCurrentNote(fileName)
}

// RemoveCurrentNote deletes the current note after confirmation and
// selects the first remaining note. Returns false when declined.
func (c *Controller) RemoveCurrentNote() (bool, error) {
	n, err := c.currentNote()
	if err != nil {
		return false, err
	}

	if !c.prompt.ConfirmRemove(n.FileName) {
		return false, nil
	}

	release := c.watch.Suspend()
	err = c.folder.Remove(n.FileName)

	if err == nil {
		err = c.store.Delete(n.ID)
	}

	release()

	if err != nil {
		return false, fmt.Errorf("removing note: %w", err)
	}

	c.logger.Info("note removed", slog.String("file", n.FileName))

	c.history.Remove(n.FileName)
	c.current = ""
	c.tracker.Reset()

	return true, c.Rebuild()
}

// SaveNoteText replaces the text of a note and stores it at once. A
// missing note is created.
func (c *Controller) SaveNoteText(fileName, text string) error {
	fileName = strings.TrimSpace(fileName)

	n, err := c.store.FetchByFileName(fileName)
	if errors.Is(err, errs.ErrNoteNotFound) {
		fileName = index.NameKey(fileName)
		if !IsNoteFile(fileName) || strings.ContainsAny(fileName, "/\\\x00") {
			return fmt.Errorf("%w: %q", errs.ErrInvalidNoteName, fileName)
		}

		release := c.watch.Suspend()
		err = c.folder.WriteText(fileName, text)
		release()

		if err != nil {
			return fmt.Errorf("creating note: %w", err)
		}

		return c.Rebuild()
	}

	if err != nil {
		return err
	}

	if n.Crypto.Active(c.now()) || isEncrypted(n.Text) {
		return fmt.Errorf("%w: %s", errs.ErrAlreadyEncrypted, fileName)
	}

	n.Text = text
	n.Dirty = index.Checksum(text) != n.DiskChecksum

	if err := c.store.Update(n); err != nil {
		return fmt.Errorf("updating stored note: %w", err)
	}

	release := c.watch.Suspend()
	defer release()

	if err := c.writeNote(n); err != nil {
		return err
	}

	if n.FileName == c.current {
		c.ui.SetEditorText(c.editorText(n))
	}

	return nil
}
