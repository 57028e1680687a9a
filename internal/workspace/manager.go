// manager.go implements the run-scoped workspace directory and its temp
// file allocator.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/sosreport/sos/internal/model"
)

// DirPrefix is the name prefix of every run directory. The clean component
// refuses to touch anything under the temp root that does not carry it.
const DirPrefix = "sos-"

// Manager owns one run's workspace directory and allocates uniquely named
// temp files inside it. A Manager is created once during runtime
// provisioning and closed on the orderly exit path.
type Manager struct {
	runID string
	dir   string

	// mu guards the file counter and the open-file list. Components are
	// single-threaded today, but NewFile's contract is that concurrent
	// callers never receive the same file.
	mu    sync.Mutex
	seq   int
	files []*os.File
}

// Create allocates the run directory under baseDir. An empty baseDir means
// the OS temp root. The directory name embeds a fresh UUID, so successive
// invocations cannot collide. Failure to create the directory is a
// model.WorkspaceError; the caller treats it as fatal.
func Create(baseDir string) (*Manager, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}

	runID := uuid.NewString()
	dir := filepath.Join(baseDir, DirPrefix+runID)

	// 0700: the workspace holds collected diagnostic data and must not be
	// readable by other users.
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, &model.WorkspaceError{Path: baseDir, Err: err}
	}
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, &model.WorkspaceError{Path: dir, Err: err}
	}

	return &Manager{runID: runID, dir: dir}, nil
}

// RunID returns the UUID identifying this run.
func (m *Manager) RunID() string {
	return m.runID
}

// Dir returns the absolute path of the run directory.
func (m *Manager) Dir() string {
	return m.dir
}

// NewFile returns a new, empty, exclusively created file inside the
// workspace. Each call yields a fresh file; the sequence counter plus
// O_EXCL guarantees no two callers ever share a handle.
func (m *Manager) NewFile() (*os.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := fmt.Sprintf("sos.tmp.%03d", m.seq)
	m.seq++

	f, err := os.OpenFile(filepath.Join(m.dir, name), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, &model.WorkspaceError{Path: m.dir, Err: err}
	}
	m.files = append(m.files, f)
	return f, nil
}

// CreateFile creates an exclusively owned file with a caller-chosen name
// inside the workspace. Components use this for their named artifacts
// (e.g. report output files); name must not contain a path separator.
func (m *Manager) CreateFile(name string) (*os.File, error) {
	if name != filepath.Base(name) {
		return nil, &model.WorkspaceError{
			Path: m.dir,
			Err:  fmt.Errorf("file name %q must not contain path separators", name),
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(m.dir, name), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, &model.WorkspaceError{Path: m.dir, Err: err}
	}
	m.files = append(m.files, f)
	return f, nil
}

// Close flushes and closes every file the manager handed out. It runs on
// the orderly exit path, including signal-initiated exits, so no file is
// abandoned mid-write. Close is idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, f := range m.files {
		if err := f.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.files = nil
	return firstErr
}

// RemoveAll deletes the run directory and everything under it. Used by
// tests and by cleanup paths; a normal report run leaves its directory in
// place because the directory is the run's output.
func (m *Manager) RemoveAll() error {
	if err := m.Close(); err != nil {
		return err
	}
	return os.RemoveAll(m.dir)
}
