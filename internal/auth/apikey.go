// Package auth guards the MCP endpoint with an optional API key. Only a
// bcrypt hash of the key is configured; the key itself is shown once by
// `noted mcp-key`.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	// APIKeyPrefix marks noted API keys.
	APIKeyPrefix = "nk_"
	apiKeyBytes  = 32
)

// NewAPIKey returns a random API key and its bcrypt hash.
func NewAPIKey() (key, hash string, err error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating key: %w", err)
	}

	key = APIKeyPrefix + hex.EncodeToString(b)

	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hashing key: %w", err)
	}

	return key, string(h), nil
}

// ValidateHash reports whether hash is a usable bcrypt hash.
func ValidateHash(hash string) error {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return fmt.Errorf("invalid bcrypt hash: %w", err)
	}

	return nil
}

// keyChecker compares bearer keys against the configured hash. Accepted
// keys are remembered by SHA-256 so bcrypt runs once per key.
type keyChecker struct {
	hash []byte

	mu       sync.Mutex
	accepted map[[sha256.Size]byte]struct{}
}

func (k *keyChecker) check(key string) bool {
	sum := sha256.Sum256([]byte(key))

	k.mu.Lock()
	_, ok := k.accepted[sum]
	k.mu.Unlock()

	if ok {
		return true
	}

	if bcrypt.CompareHashAndPassword(k.hash, []byte(key)) != nil {
		return false
	}

	k.mu.Lock()
	k.accepted[sum] = struct{}{}
	k.mu.Unlock()

	return true
}

// Middleware returns HTTP middleware that requires a Bearer API key
// matching hash. An empty hash disables the check.
func Middleware(hash string, logger *slog.Logger) func(http.Handler) http.Handler {
	if hash == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	checker := &keyChecker{
		hash:     []byte(hash),
		accepted: make(map[[sha256.Size]byte]struct{}),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Debug("middleware: no bearer token",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)

				return
			}

			key := strings.TrimPrefix(authHeader, "Bearer ")
			if !strings.HasPrefix(key, APIKeyPrefix) || !checker.check(key) {
				logger.Debug("middleware: invalid API key",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				w.WriteHeader(http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
