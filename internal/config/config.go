// Package config reads and writes the fimdash configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the client configuration.
type Config struct {
	// ServerURL is the base URL of the file integrity monitoring service.
	ServerURL string `toml:"server_url"`
	// Provider is the OAuth provider segment of the login URL.
	Provider string `toml:"provider"`
	// TokenPath is where the session token is persisted.
	TokenPath string `toml:"token_path"`
	// DownloadDir is where restored backup files are saved.
	DownloadDir string `toml:"download_dir"`
	// CallbackAddr is the local address the login redirect lands on.
	CallbackAddr string `toml:"callback_addr"`
	// LogLevel is the zap level name ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "fimdash"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// NewConfig returns a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		ServerURL:    "http://127.0.0.1:5000",
		Provider:     "google",
		TokenPath:    filepath.Join(baseDir, "token"),
		DownloadDir:  filepath.Join(baseDir, "downloads"),
		CallbackAddr: "127.0.0.1:8791",
		LogLevel:     "info",
	}
}

// Init writes cfg to path, refusing to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// ReadFromFile loads and validates the config at path.
func ReadFromFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields that have no workable zero value.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("config: server_url is required")
	}
	if c.TokenPath == "" {
		return fmt.Errorf("config: token_path is required")
	}
	if c.DownloadDir == "" {
		return fmt.Errorf("config: download_dir is required")
	}
	if c.Provider == "" {
		c.Provider = "google"
	}
	if c.CallbackAddr == "" {
		c.CallbackAddr = "127.0.0.1:8791"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}
