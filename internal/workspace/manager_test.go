package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreate_UniqueDirectories verifies two successive allocations in the
// same process never collide: each run directory embeds a fresh UUID.
func TestCreate_UniqueDirectories(t *testing.T) {
	base := t.TempDir()

	first, err := Create(base)
	require.NoError(t, err)
	defer first.RemoveAll()

	second, err := Create(base)
	require.NoError(t, err)
	defer second.RemoveAll()

	assert.NotEqual(t, first.Dir(), second.Dir())
	assert.True(t, strings.HasPrefix(filepath.Base(first.Dir()), DirPrefix))

	info, err := os.Stat(first.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm(), "workspace must be private to the owner")
}

// TestCreate_UnwritableBase verifies a workspace that cannot be created
// surfaces a WorkspaceError — this is the fatal provisioning case.
func TestCreate_UnwritableBase(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	base := filepath.Join(t.TempDir(), "readonly")
	require.NoError(t, os.Mkdir(base, 0o500))

	_, err := Create(base)
	assert.Error(t, err)
}

// TestNewFile_FreshFilePerCall verifies every NewFile call yields a
// distinct, initially empty file, even under concurrent callers.
func TestNewFile_FreshFilePerCall(t *testing.T) {
	m, err := Create(t.TempDir())
	require.NoError(t, err)
	defer m.RemoveAll()

	const callers = 8
	names := make(chan string, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, ferr := m.NewFile()
			assert.NoError(t, ferr)
			names <- f.Name()
		}()
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool)
	for name := range names {
		assert.False(t, seen[name], "file %s was handed out twice", name)
		seen[name] = true
	}
	assert.Len(t, seen, callers)
}

// TestCreateFile_RejectsPathTraversal verifies named artifacts cannot
// escape the run directory.
func TestCreateFile_RejectsPathTraversal(t *testing.T) {
	m, err := Create(t.TempDir())
	require.NoError(t, err)
	defer m.RemoveAll()

	_, err = m.CreateFile("../escape.txt")
	assert.Error(t, err)

	f, err := m.CreateFile("report-host.txt")
	require.NoError(t, err)
	assert.Equal(t, m.Dir(), filepath.Dir(f.Name()))
}

// TestClose_FlushesHandedOutFiles verifies Close syncs and closes every
// allocated file and is safe to call twice — the orderly teardown path
// depends on both properties.
func TestClose_FlushesHandedOutFiles(t *testing.T) {
	m, err := Create(t.TempDir())
	require.NoError(t, err)
	defer os.RemoveAll(m.Dir())

	f, err := m.NewFile()
	require.NoError(t, err)
	_, err = f.WriteString("mid-write content\n")
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "Close must be idempotent")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "mid-write content\n", string(data))
}

// TestFindStale_FiltersByAgeAndPrefix verifies stale enumeration only sees
// aged sos-* directories, never fresh runs or unrelated entries.
func TestFindStale_FiltersByAgeAndPrefix(t *testing.T) {
	base := t.TempDir()
	now := time.Now()

	old := filepath.Join(base, DirPrefix+"old-run")
	require.NoError(t, os.Mkdir(old, 0o700))
	past := now.Add(-100 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	fresh := filepath.Join(base, DirPrefix+"fresh-run")
	require.NoError(t, os.Mkdir(fresh, 0o700))

	unrelated := filepath.Join(base, "user-data")
	require.NoError(t, os.Mkdir(unrelated, 0o700))
	require.NoError(t, os.Chtimes(unrelated, past, past))

	stale, err := FindStale(base, 72*time.Hour, now)
	require.NoError(t, err)

	require.Len(t, stale, 1)
	assert.Equal(t, old, stale[0].Path)
	assert.Greater(t, stale[0].Age, 72*time.Hour)
}

// TestRemove_RefusesForeignPaths verifies Remove only deletes run
// directories, guarding the shared temp root.
func TestRemove_RefusesForeignPaths(t *testing.T) {
	base := t.TempDir()
	foreign := filepath.Join(base, "precious")
	require.NoError(t, os.Mkdir(foreign, 0o700))

	assert.Error(t, Remove(foreign))
	assert.DirExists(t, foreign)

	run := filepath.Join(base, DirPrefix+"gone")
	require.NoError(t, os.Mkdir(run, 0o700))
	require.NoError(t, Remove(run))
	assert.NoDirExists(t, run)
}
