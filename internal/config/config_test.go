package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndReadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	cfg := NewConfig(dir)
	cfg.ServerURL = "https://fim.example.com"
	cfg.LogLevel = "debug"

	require.NoError(t, Init(path, cfg))

	got, err := ReadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Init(path, NewConfig(dir)))

	err := Init(path, NewConfig(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "config.toml")

	require.NoError(t, Init(path, NewConfig(dir)))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestReadFromFile_Missing(t *testing.T) {
	_, err := ReadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config { return NewConfig(t.TempDir()) }

	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("required fields", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*Config)
		}{
			{"server_url", func(c *Config) { c.ServerURL = "" }},
			{"token_path", func(c *Config) { c.TokenPath = "" }},
			{"download_dir", func(c *Config) { c.DownloadDir = "" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				cfg := base()
				tc.mutate(cfg)
				err := cfg.Validate()
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.name)
			})
		}
	})

	t.Run("optional fields get defaults", func(t *testing.T) {
		cfg := base()
		cfg.Provider = ""
		cfg.CallbackAddr = ""
		cfg.LogLevel = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "google", cfg.Provider)
		assert.Equal(t, "127.0.0.1:8791", cfg.CallbackAddr)
		assert.Equal(t, "info", cfg.LogLevel)
	})
}
