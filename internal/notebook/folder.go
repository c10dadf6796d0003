package notebook

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	errs "github.com/alexjbarnes/noted/internal/errors"
	"github.com/natefinch/atomic"
)

const (
	// folderDirPerm is the permission mode for directories created inside
	// a notes folder.
	folderDirPerm = fs.FileMode(0o755)

	// mediaDir holds downloaded media, relative to the notes folder.
	mediaDir = "media"
)

// noteExtensions are the file extensions recognised as notes.
var noteExtensions = []string{".md", ".txt"}

// FileInfo describes one note file found in a folder listing.
type FileInfo struct {
	Name     string
	Modified time.Time
}

// Folder provides filesystem operations on one notes directory. Note
// files live directly in the directory; sub-directories are not notes.
type Folder struct {
	dir string
	mu  sync.RWMutex
}

// NewFolder creates a Folder rooted at dir, creating the directory if it
// does not exist.
func NewFolder(dir string) (*Folder, error) {
	if dir == "" {
		return nil, fmt.Errorf("notes directory must not be empty")
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving notes directory: %w", err)
	}

	if err := os.MkdirAll(dir, folderDirPerm); err != nil {
		return nil, fmt.Errorf("creating notes directory %s: %w", dir, err)
	}

	// Watcher events carry symlink-resolved paths on some platforms.
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}

	return &Folder{dir: dir}, nil
}

// Dir returns the absolute notes directory.
func (f *Folder) Dir() string {
	return f.dir
}

// IsNoteFile reports whether name has a note extension and is not hidden.
func IsNoteFile(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range noteExtensions {
		if ext == e {
			return true
		}
	}

	return false
}

// List returns the note files in the folder, newest-modified first.
// Names are returned exactly as stored on disk.
func (f *Folder) List() ([]FileInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", f.dir, err)
	}

	files := make([]FileInfo, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() || !IsNoteFile(e.Name()) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}

		files = append(files, FileInfo{
			Name:     e.Name(),
			Modified: info.ModTime(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Modified.Equal(files[j].Modified) {
			return files[i].Name < files[j].Name
		}

		return files[i].Modified.After(files[j].Modified)
	})

	return files, nil
}

// ReadText reads a note file. A missing file returns ErrNoteFileNotFound.
func (f *Folder) ReadText(fileName string) (string, error) {
	absPath, err := f.resolve(fileName)
	if err != nil {
		return "", err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(absPath) //nolint:gosec // G304: absPath validated by Folder.resolve
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", errs.ErrNoteFileNotFound, fileName)
	}

	if err != nil {
		return "", fmt.Errorf("reading %s: %w", fileName, err)
	}

	return string(data), nil
}

// WriteText atomically replaces a note file with text.
func (f *Folder) WriteText(fileName, text string) error {
	return f.WriteFile(fileName, []byte(text))
}

// WriteFile atomically writes data to a path relative to the folder,
// creating parent directories as needed.
func (f *Folder) WriteFile(relPath string, data []byte) error {
	absPath, err := f.resolve(relPath)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(absPath), folderDirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", relPath, err)
	}

	if err := atomic.WriteFile(absPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", relPath, err)
	}

	return nil
}

// Remove deletes a note file. A missing file is not an error.
func (f *Folder) Remove(fileName string) error {
	absPath, err := f.resolve(fileName)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(absPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", fileName, err)
	}

	return nil
}

// Exists reports whether the note file is present on disk.
func (f *Folder) Exists(fileName string) bool {
	_, err := f.ModTime(fileName)
	return err == nil
}

// ModTime returns the modification time of a note file.
func (f *Folder) ModTime(fileName string) (time.Time, error) {
	absPath, err := f.resolve(fileName)
	if err != nil {
		return time.Time{}, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	info, err := os.Stat(absPath)
	if err != nil {
		return time.Time{}, err
	}

	return info.ModTime(), nil
}

// resolve converts a folder-relative path to an absolute path, rejecting
// traversal outside the folder.
func (f *Folder) resolve(relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.ContainsRune(relPath, 0) {
		return "", fmt.Errorf("path contains null byte: %q", relPath)
	}

	if filepath.Separator == '\\' {
		relPath = strings.ReplaceAll(relPath, "\\", "/")
	}

	for _, seg := range strings.Split(relPath, "/") {
		if seg == ".." {
			return "", fmt.Errorf("path contains ..: %q", relPath)
		}
	}

	absPath := filepath.Join(f.dir, filepath.FromSlash(relPath))
	if !strings.HasPrefix(absPath, f.dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("path traversal blocked: %q resolves outside notes dir", relPath)
	}

	return absPath, nil
}

