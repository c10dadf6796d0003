package notebook

import "log/slog"

// StoreDirtyNotes writes every dirty note to disk and returns how many
// were written. With nothing dirty it touches neither disk nor watcher.
// Notes that fail to write stay dirty for the next run.
func (c *Controller) StoreDirtyNotes() int {
	dirty, err := c.store.Dirty()
	if err != nil {
		c.logger.Warn("listing dirty notes", slog.String("error", err.Error()))
		return 0
	}

	if len(dirty) == 0 {
		return 0
	}

	release := c.watch.Suspend()
	defer release()

	count := 0

	for _, n := range dirty {
		if err := c.writeNote(n); err != nil {
			continue
		}

		count++
	}

	c.logger.Debug("stored dirty notes",
		slog.Int("count", count),
		slog.Int("failed", len(dirty)-count),
	)

	return count
}
