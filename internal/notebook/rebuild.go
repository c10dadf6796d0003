package notebook

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/alexjbarnes/noted/internal/index"
)

// welcomeNote is selected after the demo notes were seeded.
const welcomeNote = "Welcome to Noted.md"

//go:embed demonotes/*.md
var demoNotes embed.FS

// Rebuild flushes dirty notes, re-reads the folder into the store and
// re-selects the current note by name. An empty folder is seeded with
// the demo notes once per installation.
func (c *Controller) Rebuild() error {
	seeded, err := c.rebuild()
	if err != nil {
		return err
	}

	switch {
	case seeded:
		c.selectCurrent(welcomeNote, true)
	case c.current == "":
		c.selectCurrent("", true)
	default:
		c.selectCurrent(c.current, false)
	}

	return nil
}

func (c *Controller) rebuild() (bool, error) {
	c.StoreDirtyNotes()

	// Notes that could not be written keep their edits across the wipe.
	unsaved, err := c.store.Dirty()
	if err != nil {
		return false, fmt.Errorf("listing unsaved notes: %w", err)
	}

	var crypto index.CryptoState
	if n, err := c.currentNote(); err == nil {
		crypto = n.Crypto
	}

	files, err := c.folder.List()
	if err != nil {
		return false, err
	}

	seeded := false

	if len(files) == 0 && !c.state.DemoNotesCreated() {
		if err := c.seedDemoNotes(); err != nil {
			c.logger.Warn("creating demo notes", slog.String("error", err.Error()))
		} else {
			seeded = true

			if files, err = c.folder.List(); err != nil {
				return false, err
			}
		}
	}

	if err := c.store.DeleteAll(); err != nil {
		return false, err
	}

	names := make([]string, 0, len(files))

	for _, f := range files {
		text, err := c.folder.ReadText(f.Name)
		if err != nil {
			c.logger.Warn("skipping unreadable note",
				slog.String("file", f.Name),
				slog.String("error", err.Error()),
			)

			continue
		}

		if err := c.store.Insert(index.NewNote(f.Name, text, f.Modified)); err != nil {
			c.logger.Warn("indexing note",
				slog.String("file", f.Name),
				slog.String("error", err.Error()),
			)

			continue
		}

		names = append(names, f.Name)
	}

	for _, u := range unsaved {
		n, err := c.store.FetchByFileName(u.FileName)
		if err != nil {
			continue
		}

		n.Text = u.Text
		n.Dirty = index.Checksum(n.Text) != n.DiskChecksum
		n.Crypto = u.Crypto

		if err := c.store.Update(n); err != nil {
			c.logger.Warn("restoring unsaved note", slog.String("file", u.FileName), slog.String("error", err.Error()))
		}
	}

	if len(crypto.Key) > 0 && c.current != "" {
		if n, err := c.store.FetchByFileName(c.current); err == nil {
			n.Crypto = crypto
			if err := c.store.Update(n); err != nil {
				c.logger.Warn("restoring note key", slog.String("error", err.Error()))
			}
		}
	}

	if err := c.watch.SetWatchSet(c.folder.Dir(), names); err != nil {
		c.logger.Warn("replacing watch set", slog.String("error", err.Error()))
	}

	c.logger.Debug("index rebuilt",
		slog.String("dir", c.folder.Dir()),
		slog.Int("notes", len(names)),
	)

	c.refreshNoteList()

	return seeded, nil
}

func (c *Controller) seedDemoNotes() error {
	entries, err := fs.ReadDir(demoNotes, "demonotes")
	if err != nil {
		return err
	}

	release := c.watch.Suspend()
	defer release()

	for _, e := range entries {
		data, err := demoNotes.ReadFile(path.Join("demonotes", e.Name()))
		if err != nil {
			return err
		}

		if err := c.folder.WriteFile(e.Name(), data); err != nil {
			return err
		}
	}

	if err := c.state.SetDemoNotesCreated(true); err != nil {
		return fmt.Errorf("storing demo notes flag: %w", err)
	}

	c.logger.Info("demo notes created", slog.Int("count", len(entries)))

	return nil
}
