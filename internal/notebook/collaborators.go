package notebook

//go:generate mockgen -source=collaborators.go -destination=mocks_test.go -package=notebook

import (
	"time"

	"github.com/alexjbarnes/noted/internal/index"
	"github.com/alexjbarnes/noted/internal/state"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Resolution is the user's answer to a conflict prompt.
type Resolution int

const (
	// ResolutionCancel leaves both texts untouched.
	ResolutionCancel Resolution = iota
	// ResolutionOverwrite writes the in-memory text to disk.
	ResolutionOverwrite
	// ResolutionReload replaces the in-memory text with the disk text.
	ResolutionReload
	// ResolutionIgnore leaves both texts untouched.
	ResolutionIgnore
)

func (r Resolution) String() string {
	switch r {
	case ResolutionOverwrite:
		return "overwrite"
	case ResolutionReload:
		return "reload"
	case ResolutionIgnore:
		return "ignore"
	default:
		return "cancel"
	}
}

// Conflict describes a current note whose file changed on disk while it
// differs from the in-memory text.
type Conflict struct {
	FileName string
	Local    string
	Disk     string
	Diffs    []diffmatchpatch.Diff
}

// Prompt asks the user to settle reconciliation questions. Calls block
// the controller loop until answered.
type Prompt interface {
	ResolveConflict(c Conflict) Resolution
	ConfirmRestore(fileName string) bool
	ConfirmRemove(fileName string) bool
}

// UI is the view bound to the controller.
type UI interface {
	RefreshNoteList(notes []*index.Note)
	SelectNote(fileName string)
	SetEditorText(text string)
	ShowTransientMessage(text string, d time.Duration)
}

// StateStore is the persisted application state the controller uses.
type StateStore interface {
	DemoNotesCreated() bool
	SetDemoNotesCreated(created bool) error
	Folder(id int) (state.NoteFolder, error)
	SetCurrentFolder(id int) error
	StoreRecentFolder(add, remove string) error
}

// Verify *state.State satisfies StateStore at compile time.
var _ StateStore = (*state.State)(nil)
