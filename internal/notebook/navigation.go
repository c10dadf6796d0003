package notebook

import (
	"log/slog"

	errs "github.com/alexjbarnes/noted/internal/errors"
	"github.com/alexjbarnes/noted/internal/index"
)

// Filter restricts the visible notes. Empty fields match everything.
type Filter struct {
	Text string
	Tag  string
}

func (c *Controller) order() index.Order {
	if c.settings.SortAlphabetically {
		return index.ByName
	}

	return index.ByModified
}

// VisibleNotes returns the notes matching the active filter.
func (c *Controller) VisibleNotes() []*index.Note {
	return c.visibleNotes()
}

func (c *Controller) visibleNotes() []*index.Note {
	notes, err := c.store.Search(c.filter.Text, c.filter.Tag, c.order())
	if err != nil {
		c.logger.Warn("listing notes", slog.String("error", err.Error()))
		return nil
	}

	return notes
}

func (c *Controller) refreshNoteList() {
	c.ui.RefreshNoteList(c.visibleNotes())
	c.listStale = false
}

// Tags returns every tag used by a note of the folder.
func (c *Controller) Tags() ([]string, error) {
	return c.store.Tags()
}

// SetFilter replaces the active filter. When the current note is hidden
// by it the first visible note becomes current.
func (c *Controller) SetFilter(text, tag string) {
	c.filter = Filter{Text: text, Tag: tag}

	visible := c.visibleNotes()
	c.ui.RefreshNoteList(visible)
	c.listStale = false

	for _, n := range visible {
		if n.FileName == c.current {
			return
		}
	}

	if len(visible) > 0 {
		c.setCurrent(visible[0], true)
	}
}

// NextNote makes the next visible note current, wrapping at the end.
func (c *Controller) NextNote() error {
	return c.step(1)
}

// PreviousNote makes the previous visible note current, wrapping at the
// start.
func (c *Controller) PreviousNote() error {
	return c.step(-1)
}

// step walks the full note list in direction delta, skipping notes
// hidden by the filter. It looks at every note at most once.
func (c *Controller) step(delta int) error {
	all, err := c.store.All(c.order())
	if err != nil {
		return err
	}

	visible := make(map[string]bool)
	for _, n := range c.visibleNotes() {
		visible[n.FileName] = true
	}

	size := len(all)
	if size == 0 || len(visible) == 0 {
		return errs.ErrNoteNotFound
	}

	start := -1
	if delta < 0 {
		start = size
	}

	for i, n := range all {
		if n.FileName == c.current {
			start = i
			break
		}
	}

	for i := 1; i <= size; i++ {
		idx := ((start+delta*i)%size + size) % size
		if !visible[all[idx].FileName] {
			continue
		}

		c.setCurrent(all[idx], true)

		return nil
	}

	return errs.ErrNoteNotFound
}

// SearchNotes returns the notes matching text and tag without touching
// the active filter.
func (c *Controller) SearchNotes(text, tag string) ([]*index.Note, error) {
	return c.store.Search(text, tag, c.order())
}
