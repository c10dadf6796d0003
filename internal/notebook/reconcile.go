package notebook

import (
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffCleanupThreshold is the minimum number of diffs before running the
// semantic cleanup pass.
const diffCleanupThreshold = 2

// Decision is the outcome of comparing the in-memory state of a changed
// note against its file. The controller performs I/O based on it.
type Decision int

const (
	// DecisionRebuild means the changed file is not the current note.
	// Rebuild the index and re-select the current note by name.
	DecisionRebuild Decision = iota

	// DecisionRestore means the current note's file is gone. Ask the
	// user whether to write the in-memory text back.
	DecisionRestore

	// DecisionNoop means disk and memory hold the same text.
	DecisionNoop

	// DecisionSilentReload means the disk text replaces the in-memory
	// text without asking.
	DecisionSilentReload

	// DecisionPrompt means the user must choose between the two texts.
	DecisionPrompt
)

func (d Decision) String() string {
	switch d {
	case DecisionRebuild:
		return "rebuild"
	case DecisionRestore:
		return "restore"
	case DecisionNoop:
		return "noop"
	case DecisionSilentReload:
		return "silent_reload"
	case DecisionPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// ReconcileInput is the state Decide looks at.
type ReconcileInput struct {
	IsCurrent  bool
	OnDisk     bool
	DiskText   string
	MemoryText string
	Dirty      bool
	LastEdited time.Time
	Now        time.Time

	NotifyAll  bool
	QuietAfter time.Duration
}

// Decide picks the reconciliation for a file-changed notification. This
// is a pure function with no I/O.
func Decide(in ReconcileInput) Decision {
	if !in.IsCurrent {
		return DecisionRebuild
	}

	if !in.OnDisk {
		return DecisionRestore
	}

	if in.DiskText == in.MemoryText {
		return DecisionNoop
	}

	if !in.NotifyAll && !in.Dirty && quiet(in.LastEdited, in.Now, in.QuietAfter) {
		return DecisionSilentReload
	}

	return DecisionPrompt
}

// quiet reports whether the note has not been edited within d. A note
// never edited in this session is quiet.
func quiet(lastEdited, now time.Time, d time.Duration) bool {
	if lastEdited.IsZero() {
		return true
	}

	return !now.Before(lastEdited.Add(d))
}

// TextDiff computes a line-oriented diff from local to disk.
func TextDiff(local, disk string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(local, disk)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	if len(diffs) > diffCleanupThreshold {
		diffs = dmp.DiffCleanupSemantic(diffs)
	}

	return diffs
}
