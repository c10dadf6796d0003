package notebook

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind distinguishes content changes of a watched note file from
// changes to the directory listing.
type EventKind int

const (
	// FileChanged means a watched note file was modified or removed.
	FileChanged EventKind = iota
	// DirChanged means a note file was added, removed or renamed.
	DirChanged
)

func (k EventKind) String() string {
	if k == DirChanged {
		return "dir_changed"
	}

	return "file_changed"
}

// Event is one coalesced watcher notification. Seq orders events by
// their first arrival.
type Event struct {
	Kind     EventKind
	FileName string
	Seq      uint64
}

// FileWatch is the filesystem subscription used by the controller.
type FileWatch interface {
	// SetWatchSet replaces the watched paths with dir plus the given
	// note files, which must be ordered newest-modified first.
	SetWatchSet(dir string, fileNames []string) error
	// Suspend drops notifications until the returned release function
	// has been called and the settle delay has passed.
	Suspend() (release func())
	Events() <-chan Event
}

// WatcherOptions tunes a Watcher.
type WatcherOptions struct {
	// SettleDelay keeps notifications muted after the last release.
	SettleDelay time.Duration
	// Debounce coalesces rapid notifications for one path.
	Debounce time.Duration
	// MaxFiles caps the individually watched note files.
	MaxFiles int
}

type pendingEvent struct {
	kind     EventKind
	fileName string
	seq      uint64
	lastSeen time.Time
}

// Watcher subscribes to the notes directory and to the most recently
// modified note files.
type Watcher struct {
	opts    WatcherOptions
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	events  chan Event
	now     func() time.Time

	mu         sync.Mutex
	dir        string
	files      map[string]bool // file name -> individually watched
	suspended  int
	mutedUntil time.Time
	seq        uint64
}

// Verify *Watcher satisfies FileWatch at compile time.
var _ FileWatch = (*Watcher)(nil)

// NewWatcher creates a watcher. No paths are watched until SetWatchSet.
func NewWatcher(opts WatcherOptions, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &Watcher{
		opts:    opts,
		logger:  logger,
		watcher: fsw,
		events:  make(chan Event, 64),
		now:     time.Now,
		files:   make(map[string]bool),
	}, nil
}

// Events returns the channel of coalesced notifications.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close releases the underlying OS watches.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// SetWatchSet replaces the watch set in full.
func (w *Watcher) SetWatchSet(dir string, fileNames []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range w.watcher.WatchList() {
		_ = w.watcher.Remove(p)
	}

	w.dir = dir
	w.files = make(map[string]bool, len(fileNames))

	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	limit := len(fileNames)
	if w.opts.MaxFiles > 0 && limit > w.opts.MaxFiles {
		limit = w.opts.MaxFiles
	}

	for _, name := range fileNames[:limit] {
		if err := w.watcher.Add(filepath.Join(dir, name)); err != nil {
			w.logger.Debug("watching note file failed",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)

			continue
		}

		w.files[name] = true
	}

	w.logger.Debug("watch set replaced",
		slog.String("dir", dir),
		slog.Int("files", len(w.files)),
	)

	return nil
}

// Suspend mutes notifications. Suspensions nest; the release function
// is safe to call more than once.
func (w *Watcher) Suspend() (release func()) {
	w.mu.Lock()
	w.suspended++
	w.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()

			w.suspended--
			w.mutedUntil = w.now().Add(w.opts.SettleDelay)
		})
	}
}

func (w *Watcher) muted() bool {
	return w.suspended > 0 || w.now().Before(w.mutedUntil)
}

// Watch forwards filesystem notifications until the context is
// cancelled. Notifications arriving while muted are dropped.
func (w *Watcher) Watch(ctx context.Context) error {
	pending := make(map[string]*pendingEvent)

	interval := w.opts.Debounce / 2
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("file watcher started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("fsnotify events channel closed unexpectedly")
			}

			for _, ev := range w.classify(event) {
				key := ev.kind.String() + ":" + ev.fileName
				if p, ok := pending[key]; ok {
					p.lastSeen = ev.lastSeen
					continue
				}

				pending[key] = ev
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("fsnotify errors channel closed unexpectedly")
			}

			w.logger.Warn("watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			if err := w.flush(ctx, pending); err != nil {
				return err
			}
		}
	}
}

// classify maps a raw notification to pending events. A removed or
// renamed watched file yields a file event followed by a directory event.
func (w *Watcher) classify(event fsnotify.Event) []*pendingEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.muted() || w.dir == "" || filepath.Dir(event.Name) != w.dir {
		return nil
	}

	name := filepath.Base(event.Name)
	if !IsNoteFile(name) {
		return nil
	}

	now := w.now()

	var out []*pendingEvent

	add := func(kind EventKind, fileName string) {
		w.seq++
		out = append(out, &pendingEvent{kind: kind, fileName: fileName, seq: w.seq, lastSeen: now})
	}

	watched := w.files[name]
	removed := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)

	if watched && (removed || event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
		add(FileChanged, name)
	}

	if removed || (event.Has(fsnotify.Create) && !watched) {
		add(DirChanged, "")
	}

	return out
}

// flush emits pending events whose debounce window has passed, in
// arrival order.
func (w *Watcher) flush(ctx context.Context, pending map[string]*pendingEvent) error {
	now := w.now()

	var ready []*pendingEvent

	for key, p := range pending {
		if now.Sub(p.lastSeen) < w.opts.Debounce {
			continue
		}

		delete(pending, key)
		ready = append(ready, p)
	}

	sort.Slice(ready, func(i, j int) bool {
		return ready[i].seq < ready[j].seq
	})

	for _, p := range ready {
		select {
		case w.events <- Event{Kind: p.kind, FileName: p.fileName, Seq: p.seq}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
