package notebook

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"

	errs "github.com/alexjbarnes/noted/internal/errors"
	"github.com/alexjbarnes/noted/internal/index"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

const (
	// scryptN is the CPU/memory cost parameter for scrypt key derivation (2^15).
	scryptN = 32768

	// scryptR is the block size parameter for scrypt key derivation.
	scryptR = 8

	// scryptP is the parallelization parameter for scrypt key derivation.
	scryptP = 1

	// scryptKeyLen is the derived key length in bytes.
	scryptKeyLen = 32

	// saltLen is the per-note random salt length in bytes.
	saltLen = 16

	encryptedBegin = "<!-- BEGIN ENCRYPTED TEXT --"
	encryptedEnd   = "-- END ENCRYPTED TEXT -->"
)

// deriveKey derives a 32-byte key from password and salt using scrypt.
// The password is normalized to NFKC before hashing.
func deriveKey(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(norm.NFKC.String(password)), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}

	return key, nil
}

// IsEncrypted reports whether text is an encrypted note body.
func IsEncrypted(text string) bool {
	return isEncrypted(text)
}

func isEncrypted(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, encryptedBegin) && strings.HasSuffix(t, encryptedEnd)
}

// encryptText encrypts plain under a fresh salt and returns the note
// body together with the derived key.
func encryptText(password, plain string) (string, []byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", nil, fmt.Errorf("generating salt: %w", err)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return "", nil, err
	}

	sealed, err := sealText(key, salt, plain)
	if err != nil {
		return "", nil, err
	}

	return sealed, key, nil
}

// resealText encrypts plain with a cached key, keeping the salt of the
// previous body so the key stays valid for the password.
func resealText(key []byte, previous, plain string) (string, error) {
	salt, _, err := parseSealed(previous)
	if err != nil {
		return "", err
	}

	return sealText(key, salt, plain)
}

// sealText builds the note body: salt, nonce and AES-GCM ciphertext,
// base64 encoded between the begin and end markers.
func sealText(key, salt []byte, plain string) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	payload := make([]byte, 0, len(salt)+len(nonce)+len(plain)+gcm.Overhead())
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = gcm.Seal(payload, nonce, []byte(plain), nil)

	return encryptedBegin + "\n" + base64.StdEncoding.EncodeToString(payload) + "\n" + encryptedEnd + "\n", nil
}

// parseSealed splits a note body into salt and the nonce-prefixed
// ciphertext.
func parseSealed(text string) ([]byte, []byte, error) {
	if !isEncrypted(text) {
		return nil, nil, errs.ErrNotEncrypted
	}

	t := strings.TrimSpace(text)
	t = strings.TrimSuffix(strings.TrimPrefix(t, encryptedBegin), encryptedEnd)

	payload, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(t), ""))
	if err != nil {
		return nil, nil, fmt.Errorf("decoding encrypted text: %w", err)
	}

	if len(payload) < saltLen {
		return nil, nil, fmt.Errorf("encrypted text too short")
	}

	return payload[:saltLen], payload[saltLen:], nil
}

// openText decrypts a note body with a password. Returns the plain text
// and the derived key.
func openText(password, text string) (string, []byte, error) {
	salt, _, err := parseSealed(text)
	if err != nil {
		return "", nil, err
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return "", nil, err
	}

	plain, err := openWithKey(key, text)
	if err != nil {
		return "", nil, err
	}

	return plain, key, nil
}

// openWithKey decrypts a note body with a cached key.
func openWithKey(key []byte, text string) (string, error) {
	_, data, err := parseSealed(text)
	if err != nil {
		return "", err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("encrypted text too short")
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errs.ErrWrongPassword
	}

	return string(plain), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return gcm, nil
}

// EncryptCurrentNote encrypts the current note with password and stores
// it. The key stays cached for CryptoKeyTTL so editing continues on the
// plain text.
func (c *Controller) EncryptCurrentNote(password string) error {
	if password == "" {
		return fmt.Errorf("%w: empty password", errs.ErrWrongPassword)
	}

	n, err := c.currentNote()
	if err != nil {
		return err
	}

	if isEncrypted(n.Text) {
		return errs.ErrAlreadyEncrypted
	}

	plain := n.Text

	sealed, key, err := encryptText(password, plain)
	if err != nil {
		return err
	}

	n.Text = sealed
	n.Dirty = true
	n.Crypto = index.CryptoState{
		Key:           key,
		ExpiresAt:     c.now().Add(c.settings.CryptoKeyTTL),
		DecryptedText: plain,
	}

	if err := c.store.Update(n); err != nil {
		return fmt.Errorf("updating stored note: %w", err)
	}

	release := c.watch.Suspend()
	defer release()

	if err := c.writeNote(n); err != nil {
		return err
	}

	c.logger.Info("note encrypted", slog.String("file", n.FileName))

	return nil
}

// UnlockCurrentNote decrypts the current note for editing and caches
// the key. The note stays encrypted on disk.
func (c *Controller) UnlockCurrentNote(password string) error {
	n, err := c.currentNote()
	if err != nil {
		return err
	}

	plain, key, err := openText(password, n.Text)
	if err != nil {
		return err
	}

	n.Crypto = index.CryptoState{
		Key:           key,
		ExpiresAt:     c.now().Add(c.settings.CryptoKeyTTL),
		DecryptedText: plain,
	}

	if err := c.store.Update(n); err != nil {
		return fmt.Errorf("updating stored note: %w", err)
	}

	c.ui.SetEditorText(plain)

	return nil
}

// DecryptCurrentNote removes the encryption of the current note and
// stores the plain text.
func (c *Controller) DecryptCurrentNote(password string) error {
	n, err := c.currentNote()
	if err != nil {
		return err
	}

	plain, _, err := openText(password, n.Text)
	if err != nil {
		return err
	}

	n.Text = plain
	n.Dirty = true
	n.Crypto = index.CryptoState{}

	if err := c.store.Update(n); err != nil {
		return fmt.Errorf("updating stored note: %w", err)
	}

	release := c.watch.Suspend()
	defer release()

	if err := c.writeNote(n); err != nil {
		return err
	}

	c.ui.SetEditorText(plain)
	c.logger.Info("note decrypted", slog.String("file", n.FileName))

	return nil
}

// ExpireCryptoKeys drops the cached key of the current note once it has
// expired and shows the encrypted text again. Reports whether a key was
// dropped.
func (c *Controller) ExpireCryptoKeys() bool {
	n, err := c.currentNote()
	if err != nil || len(n.Crypto.Key) == 0 || n.Crypto.Active(c.now()) {
		return false
	}

	n.Crypto = index.CryptoState{}

	if err := c.store.Update(n); err != nil {
		c.logger.Warn("expiring note key", slog.String("error", err.Error()))
		return false
	}

	c.ui.SetEditorText(n.Text)
	c.logger.Debug("note key expired", slog.String("file", n.FileName))

	return true
}
