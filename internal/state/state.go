package state

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	errs "github.com/alexjbarnes/noted/internal/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	// stateDirPerm is the permission mode for the state directory (~/.noted/).
	stateDirPerm = fs.FileMode(0o700)

	// stateFilePerm is the permission mode for the state database file.
	stateFilePerm = fs.FileMode(0o600)

	// stateOpenTimeout is the maximum time to wait for the bolt database lock.
	stateOpenTimeout = 5 * time.Second

	// maxRecentFolders caps the recent note folder list.
	maxRecentFolders = 10
)

var (
	appBucket     = []byte("app")
	foldersBucket = []byte("note_folders")

	demoNotesCreatedKey = []byte("demo_notes_created")
	currentFolderKey    = []byte("current_folder")
	recentFoldersKey    = []byte("recent_folders")
)

// NoteFolder is a named notes root directory. Exactly one folder is
// current at a time.
type NoteFolder struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	LocalPath string `json:"local_path"`
	Priority  int    `json:"priority"`
}

// State wraps a bbolt database for the process-wide flags and the note
// folder list. Note contents are never stored here.
type State struct {
	db *bolt.DB
}

// LoadAt opens a state database at the given path, creating it if it
// does not exist.
func LoadAt(path string) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(path), stateDirPerm); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := bolt.Open(path, stateFilePerm, &bolt.Options{Timeout: stateOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(appBucket); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists(foldersBucket)

		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing state db: %w", err)
	}

	return &State{db: db}, nil
}

// Close closes the database.
func (s *State) Close() error {
	return s.db.Close()
}

// DemoNotesCreated reports whether the bundled demo notes were already
// written once for this installation.
func (s *State) DemoNotesCreated() bool {
	var created bool

	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(appBucket).Get(demoNotesCreatedKey)
		created = len(v) == 1 && v[0] == 1

		return nil
	})

	return created
}

// SetDemoNotesCreated persists the demo notes flag.
func (s *State) SetDemoNotesCreated(created bool) error {
	var v byte
	if created {
		v = 1
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(appBucket).Put(demoNotesCreatedKey, []byte{v})
	})
}

// AddFolder stores a new note folder and assigns its ID. The first
// folder ever added becomes the current folder.
func (s *State) AddFolder(name, localPath string) (NoteFolder, error) {
	f := NoteFolder{Name: name, LocalPath: localPath}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(foldersBucket)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		f.ID = int(seq)

		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			f.Priority++
		}

		data, err := json.Marshal(f)
		if err != nil {
			return err
		}

		if err := b.Put(folderKey(f.ID), data); err != nil {
			return err
		}

		app := tx.Bucket(appBucket)
		if app.Get(currentFolderKey) == nil {
			return app.Put(currentFolderKey, folderKey(f.ID))
		}

		return nil
	})

	return f, err
}

// Folder returns the note folder with the given ID.
func (s *State) Folder(id int) (NoteFolder, error) {
	var f NoteFolder

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(foldersBucket).Get(folderKey(id))
		if v == nil {
			return errs.ErrFolderNotFound
		}

		return json.Unmarshal(v, &f)
	})

	return f, err
}

// AllFolders returns every note folder ordered by priority.
func (s *State) AllFolders() ([]NoteFolder, error) {
	var folders []NoteFolder

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(foldersBucket).ForEach(func(k, v []byte) error {
			var f NoteFolder
			if err := json.Unmarshal(v, &f); err != nil {
				return err
			}

			folders = append(folders, f)

			return nil
		})
	})

	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].Priority < folders[j].Priority
	})

	return folders, err
}

// CurrentFolder returns the current note folder.
func (s *State) CurrentFolder() (NoteFolder, error) {
	var id int

	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(appBucket).Get(currentFolderKey)
		if len(v) == 8 {
			id = int(binary.BigEndian.Uint64(v))
		}

		return nil
	})

	if id == 0 {
		return NoteFolder{}, errs.ErrFolderNotFound
	}

	return s.Folder(id)
}

// SetCurrentFolder marks the folder with the given ID as current.
func (s *State) SetCurrentFolder(id int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(foldersBucket).Get(folderKey(id)) == nil {
			return errs.ErrFolderNotFound
		}

		return tx.Bucket(appBucket).Put(currentFolderKey, folderKey(id))
	})
}

// RecentFolders returns the recently used note folder paths, most
// recent first.
func (s *State) RecentFolders() ([]string, error) {
	var recent []string

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(appBucket).Get(recentFoldersKey)
		if v == nil {
			return nil
		}

		return json.Unmarshal(v, &recent)
	})

	return recent, err
}

// StoreRecentFolder prepends add to the recent folder list and drops
// remove from it. Adding the folder that is being removed only drops it.
func (s *State) StoreRecentFolder(add, remove string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(appBucket)

		var recent []string
		if v := b.Get(recentFoldersKey); v != nil {
			if err := json.Unmarshal(v, &recent); err != nil {
				return err
			}
		}

		kept := make([]string, 0, len(recent)+1)
		if add != remove && add != "" {
			kept = append(kept, add)
		}

		for _, p := range recent {
			if p == "" || p == add || p == remove {
				continue
			}

			kept = append(kept, p)
		}

		if len(kept) > maxRecentFolders {
			kept = kept[:maxRecentFolders]
		}

		data, err := json.Marshal(kept)
		if err != nil {
			return err
		}

		return b.Put(recentFoldersKey, data)
	})
}

func folderKey(id int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))

	return k
}
