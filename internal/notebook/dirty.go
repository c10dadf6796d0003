package notebook

import "time"

// DirtyTracker records user edits of the current note. It is never
// persisted and is reset whenever another note becomes current.
type DirtyTracker struct {
	lastEdited time.Time
	dirty      bool
}

// Edited records a text change at t.
func (d *DirtyTracker) Edited(t time.Time, dirty bool) {
	d.lastEdited = t
	d.dirty = dirty
}

// Saved marks the in-memory text as equal to the disk text.
func (d *DirtyTracker) Saved() {
	d.dirty = false
}

// Reset forgets every edit.
func (d *DirtyTracker) Reset() {
	*d = DirtyTracker{}
}

// Dirty reports whether the current note has unsaved edits.
func (d *DirtyTracker) Dirty() bool {
	return d.dirty
}

// LastEdited returns the time of the last user edit, or the zero time.
func (d *DirtyTracker) LastEdited() time.Time {
	return d.lastEdited
}
