package index

// NoteStore defines the note store operations used by the notebook
// controller. Consumers should depend on this interface rather than the
// concrete *DB type.
type NoteStore interface {
	Insert(n *Note) error
	Update(n *Note) error
	FetchByID(id int64) (*Note, error)
	FetchByFileName(fileName string) (*Note, error)
	All(order Order) ([]*Note, error)
	Search(query, tag string, order Order) ([]*Note, error)
	Dirty() ([]*Note, error)
	HasDirty() (bool, error)
	Tags() ([]string, error)
	Count() (int, error)
	Delete(id int64) error
	DeleteAll() error
	Close() error
}

// Verify *DB satisfies NoteStore at compile time.
var _ NoteStore = (*DB)(nil)
