// Package snapshot captures point-in-time fingerprints of watched
// directories and diffs them into change sets. A fingerprint maps each
// regular file directly inside a watched directory to its modification
// time; subdirectories are not supported.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fleabitdev/synthbuild/internal/ignore"
)

// Snapshot maps absolute file paths to modification times in
// nanoseconds. Iteration order carries no meaning.
type Snapshot map[string]int64

// NestedDirectoryError reports a subdirectory inside a watched
// directory. Recursive watching is not supported, so this is fatal.
type NestedDirectoryError struct {
	// Dir is the watched directory containing the offender.
	Dir string

	// Entry is the name of the offending subdirectory.
	Entry string
}

func (e *NestedDirectoryError) Error() string {
	return fmt.Sprintf("subdirectories within %s are not supported (found %q)", e.Dir, e.Entry)
}

// Capture fingerprints the direct entries of each dir. Files whose name
// matches skip are omitted, as are files that vanish between listing and
// stat-ing (a concurrent edit may drop a temp file; the next capture
// reconciles). A subdirectory inside any dir returns a
// *NestedDirectoryError.
func Capture(dirs []string, skip *ignore.Matcher) (Snapshot, error) {
	snap := make(Snapshot)

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				return nil, &NestedDirectoryError{Dir: dir, Entry: entry.Name()}
			}

			if skip.Match(entry.Name()) {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				// Deleted between ReadDir and stat.
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}

				return nil, fmt.Errorf("stat %s: %w", filepath.Join(dir, entry.Name()), err)
			}

			abs, err := filepath.Abs(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", entry.Name(), err)
			}

			snap[abs] = info.ModTime().UnixNano()
		}
	}

	return snap, nil
}
