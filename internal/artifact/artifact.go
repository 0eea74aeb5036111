// Package artifact persists downloaded backup payloads to the local
// filesystem. Writes go through a uuid-named staging file in the target
// directory and are renamed into place, so a partial write never leaves
// a truncated file under the final name.
package artifact

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Saver writes artifacts into a fixed download directory.
type Saver struct {
	dir string
}

// NewSaver creates a Saver targeting dir. The directory is created on
// first save.
func NewSaver(dir string) *Saver {
	return &Saver{dir: dir}
}

// Save writes data under the given display name inside the download
// directory and returns the final path. The name is reduced to its base
// component so a server-supplied path cannot escape the directory.
func (s *Saver) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "backup.bin"
	}

	staging := filepath.Join(s.dir, "."+uuid.NewString()+".part")
	if err := os.WriteFile(staging, data, 0o644); err != nil {
		return "", fmt.Errorf("write staging file: %w", err)
	}

	final := filepath.Join(s.dir, base)
	if err := os.Rename(staging, final); err != nil {
		_ = os.Remove(staging)
		return "", fmt.Errorf("finalize %s: %w", base, err)
	}
	return final, nil
}

// FilenameFromDisposition extracts the filename attribute from a
// Content-Disposition header value. It accepts both quoted and bare
// forms; malformed headers that still carry a recognizable filename=
// attribute are parsed leniently, matching what browsers do.
func FilenameFromDisposition(disposition string) (string, bool) {
	if disposition == "" {
		return "", false
	}

	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := strings.Trim(strings.TrimSpace(params["filename"]), `"'`); name != "" {
			return name, true
		}
	}

	// Lenient fallback for headers mime.ParseMediaType rejects.
	lower := strings.ToLower(disposition)
	idx := strings.Index(lower, "filename=")
	if idx < 0 {
		return "", false
	}
	name := disposition[idx+len("filename="):]
	if semi := strings.IndexByte(name, ';'); semi >= 0 {
		name = name[:semi]
	}
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	if name == "" {
		return "", false
	}
	return name, true
}
