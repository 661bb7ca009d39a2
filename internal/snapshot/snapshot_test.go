package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleabitdev/synthbuild/internal/ignore"
)

// writeFile creates a file with arbitrary content under dir.
func writeFile(t *testing.T, dir, name string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(name), 0o644))

	return p
}

// ---------------------------------------------------------------------------
// Capture
// ---------------------------------------------------------------------------

func TestCapture_FingerprintsAllFiles(t *testing.T) {
	src := t.TempDir()
	resources := t.TempDir()

	writeFile(t, src, "app.tsx")
	writeFile(t, src, "style.scss")
	writeFile(t, resources, "require.js")

	snap, err := Capture([]string{src, resources}, nil)
	require.NoError(t, err)
	require.Len(t, snap, 3)

	for path, mtime := range snap {
		assert.True(t, filepath.IsAbs(path), "path %s should be absolute", path)
		assert.Positive(t, mtime)
	}
}

func TestCapture_NestedDirectoryIsFatal(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "app.tsx")
	require.NoError(t, os.Mkdir(filepath.Join(src, "nested"), 0o755))

	_, err := Capture([]string{src}, nil)
	require.Error(t, err)

	var nested *NestedDirectoryError
	require.ErrorAs(t, err, &nested)
	assert.Equal(t, src, nested.Dir)
	assert.Equal(t, "nested", nested.Entry)
	assert.Contains(t, err.Error(), src)
}

func TestCapture_MissingDirectory(t *testing.T) {
	_, err := Capture([]string{"/nonexistent/dir/12345"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing")
}

func TestCapture_SkipsIgnoredNames(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "app.tsx")
	writeFile(t, src, ".app.tsx.swp")
	writeFile(t, src, "app.tsx~")

	snap, err := Capture([]string{src}, ignore.Default())
	require.NoError(t, err)
	require.Len(t, snap, 1)
}

func TestCapture_EmptyDirectory(t *testing.T) {
	snap, err := Capture([]string{t.TempDir()}, nil)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

// ---------------------------------------------------------------------------
// Diff
// ---------------------------------------------------------------------------

func TestDiff_IdenticalSnapshotsAreEmpty(t *testing.T) {
	snap := Snapshot{"/src/app.tsx": 100, "/src/style.scss": 200}

	cs := Diff(snap, snap)
	assert.True(t, cs.Empty())
	assert.Empty(t, cs.Changed)
	assert.Empty(t, cs.Removed)
}

func TestDiff_TimestampBumpIsChanged(t *testing.T) {
	old := Snapshot{"/src/app.tsx": 100, "/src/style.scss": 200}
	next := Snapshot{"/src/app.tsx": 150, "/src/style.scss": 200}

	cs := Diff(old, next)
	assert.Equal(t, []string{"/src/app.tsx"}, cs.Changed)
	assert.Empty(t, cs.Removed)
}

func TestDiff_EqualTimestampIsUnchanged(t *testing.T) {
	old := Snapshot{"/src/app.tsx": 100}
	next := Snapshot{"/src/app.tsx": 100}

	assert.True(t, Diff(old, next).Empty())
}

func TestDiff_NewFileIsChanged(t *testing.T) {
	old := Snapshot{"/src/app.tsx": 100}
	next := Snapshot{"/src/app.tsx": 100, "/src/util.ts": 300}

	cs := Diff(old, next)
	assert.Equal(t, []string{"/src/util.ts"}, cs.Changed)
	assert.Empty(t, cs.Removed)
}

func TestDiff_DeletedFileIsRemoved(t *testing.T) {
	old := Snapshot{"/src/app.tsx": 100, "/src/util.ts": 300}
	next := Snapshot{"/src/app.tsx": 100}

	cs := Diff(old, next)
	assert.Empty(t, cs.Changed)
	assert.Equal(t, []string{"/src/util.ts"}, cs.Removed)
}

// Timestamp regression (e.g. a file restored from backup) must not
// count as a change.
func TestDiff_OlderTimestampIsUnchanged(t *testing.T) {
	old := Snapshot{"/src/app.tsx": 100}
	next := Snapshot{"/src/app.tsx": 50}

	assert.True(t, Diff(old, next).Empty())
}

func TestDiff_ModifiedAndAddedTogether(t *testing.T) {
	old := Snapshot{"/src/app.tsx": 100}
	next := Snapshot{"/src/app.tsx": 200, "/src/util.ts": 300}

	cs := Diff(old, next)
	assert.Equal(t, []string{"/src/app.tsx", "/src/util.ts"}, cs.Changed)
	assert.Empty(t, cs.Removed)
}

func TestChangeSet_Paths(t *testing.T) {
	cs := ChangeSet{
		Changed: []string{"/src/b.ts"},
		Removed: []string{"/src/a.ts"},
	}

	assert.Equal(t, []string{"/src/a.ts", "/src/b.ts"}, cs.Paths())
}

// ---------------------------------------------------------------------------
// Capture + Diff round trip against a real directory
// ---------------------------------------------------------------------------

func TestCaptureDiff_RealEdits(t *testing.T) {
	src := t.TempDir()
	appPath := writeFile(t, src, "app.tsx")

	before, err := Capture([]string{src}, nil)
	require.NoError(t, err)

	// Bump mtime well past filesystem granularity and add a file.
	bumpMtime(t, appPath)
	writeFile(t, src, "util.ts")

	after, err := Capture([]string{src}, nil)
	require.NoError(t, err)

	cs := Diff(before, after)
	require.Len(t, cs.Changed, 2)
	assert.Empty(t, cs.Removed)
}

func bumpMtime(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)

	newTime := info.ModTime().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, newTime, newTime))
}
