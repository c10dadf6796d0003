package notebook

import (
	"fmt"

	errs "github.com/alexjbarnes/noted/internal/errors"
)

const (
	// maxHistory caps the visited note history.
	maxHistory = 100

	// bookmarkSlots is the number of note bookmarks.
	bookmarkSlots = 10
)

// History is the list of visited notes by file name with a cursor for
// back and forward navigation.
type History struct {
	entries []string
	pos     int
	max     int
}

func newHistory(max int) *History {
	return &History{pos: -1, max: max}
}

// Add records a visit. Forward entries are dropped. Revisiting the
// entry under the cursor is a no-op.
func (h *History) Add(fileName string) {
	if h.pos >= 0 && h.entries[h.pos] == fileName {
		return
	}

	h.entries = append(h.entries[:h.pos+1], fileName)

	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}

	h.pos = len(h.entries) - 1
}

// Back moves the cursor one entry back.
func (h *History) Back() (string, bool) {
	if h.pos <= 0 {
		return "", false
	}

	h.pos--

	return h.entries[h.pos], true
}

// Forward moves the cursor one entry forward.
func (h *History) Forward() (string, bool) {
	if h.pos < 0 || h.pos >= len(h.entries)-1 {
		return "", false
	}

	h.pos++

	return h.entries[h.pos], true
}

// Remove drops every entry for fileName, keeping the cursor on the same
// remaining entry where possible.
func (h *History) Remove(fileName string) {
	kept := h.entries[:0]
	pos := h.pos

	for i, e := range h.entries {
		if e == fileName {
			if i <= h.pos {
				pos--
			}

			continue
		}

		kept = append(kept, e)
	}

	h.entries = kept

	if pos < 0 && len(kept) > 0 {
		pos = 0
	}

	h.pos = pos
}

// Clear forgets every entry.
func (h *History) Clear() {
	h.entries = nil
	h.pos = -1
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Back makes the previous note of the history current. Entries whose
// note no longer exists are skipped.
func (c *Controller) Back() error {
	return c.walkHistory(c.history.Back)
}

// Forward makes the next note of the history current.
func (c *Controller) Forward() error {
	return c.walkHistory(c.history.Forward)
}

func (c *Controller) walkHistory(move func() (string, bool)) error {
	for i := c.history.Len(); i > 0; i-- {
		fileName, ok := move()
		if !ok {
			return errs.ErrNoteNotFound
		}

		n, err := c.store.FetchByFileName(fileName)
		if err != nil {
			continue
		}

		c.setCurrent(n, false)

		return nil
	}

	return errs.ErrNoteNotFound
}

// Bookmark is a stored note position.
type Bookmark struct {
	FileName string
	Cursor   int
}

// SetBookmark stores the current note and cursor position in slot.
func (c *Controller) SetBookmark(slot, cursor int) error {
	if slot < 0 || slot >= bookmarkSlots {
		return fmt.Errorf("bookmark slot %d out of range 0-%d", slot, bookmarkSlots-1)
	}

	if c.current == "" {
		return errs.ErrNoCurrentNote
	}

	c.bookmarks[slot] = Bookmark{FileName: c.current, Cursor: cursor}

	return nil
}

// GotoBookmark makes the bookmarked note current and returns the
// bookmark so the editor can restore the cursor.
func (c *Controller) GotoBookmark(slot int) (Bookmark, error) {
	b, ok := c.bookmarks[slot]
	if !ok {
		return Bookmark{}, fmt.Errorf("bookmark slot %d: %w", slot, errs.ErrNoteNotFound)
	}

	if err := c.SetCurrentNote(b.FileName); err != nil {
		return Bookmark{}, err
	}

	return b, nil
}
