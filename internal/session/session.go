// Package session stores the bearer credential obtained from the
// post-login redirect. The token lives in a single local file so it
// survives between runs, mirroring how the browser dashboard keeps it
// in localStorage. Presence of the token is the logged-in state; no
// client-side validation of the token's shape is performed.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a file-backed token store. The zero value is not usable;
// create one with NewStore.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store persisting to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Token returns the stored token and whether one is present.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", false
	}
	return token, true
}

// Set persists the token, creating the parent directory if needed.
func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an already-empty store is
// not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
