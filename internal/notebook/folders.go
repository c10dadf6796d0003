package notebook

import (
	"fmt"
	"log/slog"
)

// ChangeNoteFolder makes the stored note folder with the given ID
// current. Dirty notes are stored first; the switch is refused when any
// of them could not be written. The index, watch set, history,
// bookmarks and filter start over for the new folder.
func (c *Controller) ChangeNoteFolder(id int) error {
	nf, err := c.state.Folder(id)
	if err != nil {
		return err
	}

	folder, err := NewFolder(nf.LocalPath)
	if err != nil {
		return err
	}

	if folder.Dir() == c.folder.Dir() {
		return c.state.SetCurrentFolder(id)
	}

	c.StoreDirtyNotes()

	dirty, err := c.store.HasDirty()
	if err != nil {
		return err
	}

	if dirty {
		return fmt.Errorf("unsaved notes could not be stored, staying in %s", c.folder.Dir())
	}

	if err := c.state.SetCurrentFolder(id); err != nil {
		return err
	}

	previous := c.folder.Dir()

	if err := c.state.StoreRecentFolder(previous, folder.Dir()); err != nil {
		c.logger.Warn("storing recent folders", slog.String("error", err.Error()))
	}

	c.folder = folder
	c.current = ""
	c.tracker.Reset()
	c.history.Clear()
	c.bookmarks = make(map[int]Bookmark)
	c.filter = Filter{}

	c.logger.Info("note folder changed",
		slog.String("name", nf.Name),
		slog.String("from", previous),
		slog.String("to", folder.Dir()),
	)

	return c.Rebuild()
}
