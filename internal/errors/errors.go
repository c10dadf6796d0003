package errors

import "errors"

// Note and folder lookup errors.
var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrNoteFileNotFound = errors.New("note file not found on disk")
	ErrNoCurrentNote    = errors.New("no current note")
	ErrFolderNotFound   = errors.New("note folder not found")
	ErrInvalidNoteName  = errors.New("invalid note name")
)

// Encryption errors.
var (
	ErrNotEncrypted     = errors.New("note text is not encrypted")
	ErrAlreadyEncrypted = errors.New("note text is already encrypted")
	ErrWrongPassword    = errors.New("note cannot be decrypted with this password")
)

// Transport errors.
var (
	ErrDownloadFailed = errors.New("download failed")
)
