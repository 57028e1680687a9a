// stale.go implements enumeration and removal of leftover run directories,
// used by the clean component.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StaleDir describes one leftover run directory under the temp root.
type StaleDir struct {
	// Path is the absolute path of the run directory.
	Path string

	// Age is how long ago the directory was last modified.
	Age time.Duration
}

// FindStale returns the sos-* run directories under baseDir whose
// modification time is older than olderThan, relative to now. Entries that
// are not directories or do not carry the run-directory prefix are skipped:
// the temp root is shared with unrelated files that must never be touched.
func FindStale(baseDir string, olderThan time.Duration, now time.Time) ([]StaleDir, error) {
	if olderThan <= 0 {
		return nil, fmt.Errorf("age must be positive, got %v", olderThan)
	}

	entries, err := os.ReadDir(baseDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read temp root %s: %w", baseDir, err)
	}

	cutoff := now.Add(-olderThan)
	var stale []StaleDir

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), DirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return stale, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		stale = append(stale, StaleDir{
			Path: filepath.Join(baseDir, entry.Name()),
			Age:  now.Sub(info.ModTime()),
		})
	}

	return stale, nil
}

// Remove deletes one run directory. It refuses paths whose base name lacks
// the run-directory prefix, so a bad caller cannot turn cleanup into
// arbitrary deletion.
func Remove(path string) error {
	if !strings.HasPrefix(filepath.Base(path), DirPrefix) {
		return fmt.Errorf("refusing to remove %s: not a %s* run directory", path, DirPrefix)
	}
	return os.RemoveAll(path)
}
