// Package notebook implements the note folder controller: the note list,
// the current note, autosave, index rebuilds and reconciliation of notes
// changed on disk by other programs.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	errs "github.com/alexjbarnes/noted/internal/errors"
	"github.com/alexjbarnes/noted/internal/index"
)

// Display times of transient status messages.
const (
	statusMessageDuration = 3 * time.Second
	storedMessageDuration = time.Second
)

// storeError is a failed note write. The user has already been told.
type storeError struct {
	fileName string
	err      error
}

func (e *storeError) Error() string {
	return fmt.Sprintf("storing %s: %v", e.fileName, e.err)
}

func (e *storeError) Unwrap() error {
	return e.err
}

// Controller owns the note store and the current note. All methods must
// run on the goroutine executing Run, or before Run starts. Other
// goroutines go through Do.
type Controller struct {
	logger   *slog.Logger
	folder   *Folder
	store    index.NoteStore
	watch    FileWatch
	state    StateStore
	ui       UI
	prompt   Prompt
	settings Settings
	client   *http.Client
	now      func() time.Time

	current   string
	tracker   DirtyTracker
	history   *History
	bookmarks map[int]Bookmark
	filter    Filter

	listStale       bool
	settingsChanged bool

	subscribers []func(Result)
	calls       chan func()
}

// New creates a controller for the given notes folder. Call Rebuild to
// load the folder before Run.
func New(folder *Folder, store index.NoteStore, watch FileWatch, st StateStore, ui UI, prompt Prompt, settings Settings, logger *slog.Logger) *Controller {
	return &Controller{
		logger:    logger,
		folder:    folder,
		store:     store,
		watch:     watch,
		state:     st,
		ui:        ui,
		prompt:    prompt,
		settings:  settings,
		client:    &http.Client{},
		now:       time.Now,
		history:   newHistory(maxHistory),
		bookmarks: make(map[int]Bookmark),
		calls:     make(chan func()),
	}
}

// Folder returns the current notes folder.
func (c *Controller) Folder() *Folder {
	return c.folder
}

// Settings returns the active policy.
func (c *Controller) Settings() Settings {
	return c.settings
}

// ApplySettings replaces the active policy. Timer intervals take effect
// on the next loop iteration.
func (c *Controller) ApplySettings(s Settings) {
	c.settings = s
	c.settingsChanged = true
	c.listStale = true
}

// Run drives the controller until the context is cancelled. Watcher
// events, timers and Do calls are handled one at a time.
func (c *Controller) Run(ctx context.Context) error {
	autosave := time.NewTicker(interval(c.settings.AutosaveInterval, 10*time.Second))
	defer autosave.Stop()

	refresh := time.NewTicker(interval(c.settings.ViewRefreshInterval, 2*time.Second))
	defer refresh.Stop()

	periodic := time.NewTicker(interval(c.settings.PeriodicCheckInterval, time.Minute))
	defer periodic.Stop()

	c.logger.Info("controller started", slog.String("dir", c.folder.Dir()))

	for {
		select {
		case <-ctx.Done():
			if n := c.StoreDirtyNotes(); n > 0 {
				c.logger.Info("stored dirty notes on shutdown", slog.Int("count", n))
			}

			return ctx.Err()

		case ev := <-c.watch.Events():
			c.dispatch(ev)

		case <-autosave.C:
			c.StoreDirtyNotes()

		case <-refresh.C:
			if c.listStale {
				c.refreshNoteList()
			}

		case <-periodic.C:
			c.ExpireCryptoKeys()

		case fn := <-c.calls:
			fn()
		}

		if c.settingsChanged {
			c.settingsChanged = false
			autosave.Reset(interval(c.settings.AutosaveInterval, 10*time.Second))
			refresh.Reset(interval(c.settings.ViewRefreshInterval, 2*time.Second))
			periodic.Reset(interval(c.settings.PeriodicCheckInterval, time.Minute))
		}
	}
}

// Do runs fn on the controller loop and waits for it to return.
func (c *Controller) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})

	select {
	case c.calls <- func() {
		defer close(done)
		fn()
	}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func interval(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}

	return d
}

func (c *Controller) dispatch(ev Event) {
	c.logger.Debug("watch event",
		slog.String("kind", ev.Kind.String()),
		slog.String("file", ev.FileName),
		slog.Uint64("seq", ev.Seq),
	)

	switch ev.Kind {
	case FileChanged:
		c.HandleFileChanged(ev.FileName)
	case DirChanged:
		c.HandleDirectoryChanged()
	}
}

// HandleFileChanged reconciles a note file changed outside the
// application. The watch set stays suspended until the outcome has been
// applied.
func (c *Controller) HandleFileChanged(fileName string) Result {
	if m, err := c.store.FetchByFileName(fileName); err == nil {
		fileName = m.FileName
	}

	in := ReconcileInput{
		Now:        c.now(),
		NotifyAll:  c.settings.NotifyAllExternalModifications,
		QuietAfter: c.settings.QuietReloadAfter,
	}

	n, err := c.currentNote()
	if err == nil && n.FileName == fileName {
		in.IsCurrent = true
	}

	release := func() {}
	defer func() { release() }()

	if in.IsCurrent {
		release = c.watch.Suspend()

		diskText, err := c.folder.ReadText(fileName)
		if err != nil && !errors.Is(err, errs.ErrNoteFileNotFound) {
			return c.fail(fileName, err)
		}

		in.OnDisk = err == nil
		in.DiskText = diskText
		in.MemoryText = n.Text
		in.Dirty = n.Dirty || c.tracker.Dirty()
		in.LastEdited = c.tracker.LastEdited()
	}

	decision := Decide(in)

	c.logger.Debug("reconciling note",
		slog.String("file", fileName),
		slog.String("decision", decision.String()),
	)

	switch decision {
	case DecisionRestore:
		return c.restore(n)

	case DecisionNoop:
		return c.publish(Result{FileName: fileName, Outcome: OutcomeNoop})

	case DecisionSilentReload:
		c.ui.ShowTransientMessage("Current note was modified externally", statusMessageDuration)

		if err := c.loadFromDisk(n, in.DiskText); err != nil {
			return c.fail(fileName, err)
		}

		c.logger.Info("reloaded note changed on disk", slog.String("file", fileName))

		return c.publish(Result{FileName: fileName, Outcome: OutcomeSilentReload})

	case DecisionPrompt:
		c.ui.ShowTransientMessage("Current note was modified externally", statusMessageDuration)

		return c.resolveConflict(n, in.DiskText)

	default:
		c.ui.ShowTransientMessage("Note was modified externally: "+fileName, statusMessageDuration)

		if err := c.Rebuild(); err != nil {
			return c.fail(fileName, err)
		}

		return c.publish(Result{FileName: fileName, Outcome: OutcomeRebuilt})
	}
}

// HandleDirectoryChanged rebuilds the index after files were added,
// removed or renamed and re-selects the current note by name. The editor
// text is only replaced when the current note is gone.
func (c *Controller) HandleDirectoryChanged() Result {
	c.ui.ShowTransientMessage("Notes directory was modified externally", statusMessageDuration)

	if err := c.Rebuild(); err != nil {
		return c.fail("", err)
	}

	return c.publish(Result{FileName: c.current, Outcome: OutcomeRebuilt})
}

func (c *Controller) restore(n *index.Note) Result {
	if !c.prompt.ConfirmRestore(n.FileName) {
		return c.publish(Result{FileName: n.FileName, Outcome: OutcomeRestoreDeclined})
	}

	if err := c.writeNote(n); err != nil {
		return c.fail(n.FileName, err)
	}

	c.ui.ShowTransientMessage("Stored current note to disk", storedMessageDuration)

	if err := c.Rebuild(); err != nil {
		return c.fail(n.FileName, err)
	}

	c.logger.Info("restored deleted note", slog.String("file", n.FileName))

	return c.publish(Result{FileName: n.FileName, Outcome: OutcomeRestored})
}

func (c *Controller) resolveConflict(n *index.Note, diskText string) Result {
	resolution := c.prompt.ResolveConflict(Conflict{
		FileName: n.FileName,
		Local:    n.Text,
		Disk:     diskText,
		Diffs:    TextDiff(n.Text, diskText),
	})

	c.logger.Info("conflict resolved",
		slog.String("file", n.FileName),
		slog.String("resolution", resolution.String()),
	)

	switch resolution {
	case ResolutionOverwrite:
		if err := c.writeNote(n); err != nil {
			return c.fail(n.FileName, err)
		}

		c.ui.ShowTransientMessage("Stored current note to disk", storedMessageDuration)

		return c.publish(Result{FileName: n.FileName, Outcome: OutcomeOverwrite})

	case ResolutionReload:
		if err := c.loadFromDisk(n, diskText); err != nil {
			return c.fail(n.FileName, err)
		}

		return c.publish(Result{FileName: n.FileName, Outcome: OutcomeReload})

	default:
		return c.publish(Result{FileName: n.FileName, Outcome: OutcomeIgnored})
	}
}

// fail reports a reconciliation error to the user and the subscribers.
// In-memory state is left as it was.
func (c *Controller) fail(fileName string, err error) Result {
	c.logger.Warn("reconciliation failed",
		slog.String("file", fileName),
		slog.String("error", err.Error()),
	)

	var stored *storeError
	if !errors.As(err, &stored) {
		msg := "Could not update notes: " + err.Error()
		if fileName != "" {
			msg = fmt.Sprintf("Could not update note %s: %v", fileName, err)
		}

		c.ui.ShowTransientMessage(msg, statusMessageDuration)
	}

	return c.publish(Result{FileName: fileName, Outcome: OutcomeFailed, Err: err})
}

// writeNote stores the in-memory text of n to its file. The caller holds
// a watch suspension. On failure the note stays dirty.
func (c *Controller) writeNote(n *index.Note) error {
	if err := c.folder.WriteText(n.FileName, n.Text); err != nil {
		c.logger.Warn("storing note failed",
			slog.String("file", n.FileName),
			slog.String("error", err.Error()),
		)
		c.ui.ShowTransientMessage(fmt.Sprintf("Could not store note %q: %v", n.Name, err), statusMessageDuration)

		return &storeError{fileName: n.FileName, err: err}
	}

	n.Dirty = false
	n.DiskChecksum = index.Checksum(n.Text)

	if mtime, err := c.folder.ModTime(n.FileName); err == nil {
		n.Modified = mtime
	}

	if err := c.store.Update(n); err != nil {
		return fmt.Errorf("updating stored note: %w", err)
	}

	if n.FileName == c.current {
		c.tracker.Saved()
	}

	c.listStale = true

	return nil
}

// loadFromDisk replaces the in-memory text of n with text read from its
// file and refreshes the editor.
func (c *Controller) loadFromDisk(n *index.Note, text string) error {
	n.Text = text
	n.DiskChecksum = index.Checksum(text)
	n.Dirty = false

	if mtime, err := c.folder.ModTime(n.FileName); err == nil {
		n.Modified = mtime
	}

	if n.Crypto.Active(c.now()) && isEncrypted(text) {
		plain, err := openWithKey(n.Crypto.Key, text)
		if err != nil {
			n.Crypto = index.CryptoState{}
		} else {
			n.Crypto.DecryptedText = plain
		}
	} else if !isEncrypted(text) {
		n.Crypto = index.CryptoState{}
	}

	if err := c.store.Update(n); err != nil {
		return fmt.Errorf("updating stored note: %w", err)
	}

	if n.FileName == c.current {
		c.tracker.Saved()
		c.ui.SetEditorText(c.editorText(n))
	}

	c.listStale = true

	return nil
}

// editorText is the text shown for n: the decrypted text while its key
// is cached, the stored text otherwise.
func (c *Controller) editorText(n *index.Note) string {
	if n.Crypto.Active(c.now()) {
		return n.Crypto.DecryptedText
	}

	return n.Text
}
