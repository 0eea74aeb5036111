package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenAbsent(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "token"))
	token, ok := s.Token()
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestSetAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fimdash", "token")
	s := NewStore(path)

	require.NoError(t, s.Set("abc-123"))

	token, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "abc-123", token)

	// Survives a new Store instance over the same file.
	token, ok = NewStore(path).Token()
	require.True(t, ok)
	assert.Equal(t, "abc-123", token)
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewStore(path)
	require.NoError(t, s.Set("abc"))
	require.NoError(t, s.Clear())

	_, ok := s.Token()
	assert.False(t, ok)

	// Clearing an already-empty store is not an error.
	require.NoError(t, s.Clear())
}

func TestWhitespaceOnlyFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, ok := NewStore(path).Token()
	assert.False(t, ok)
}
