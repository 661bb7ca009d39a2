// Package ignore decides which file names the watcher should skip.
// Editor temp files are always skipped; callers can add their own
// glob patterns on top.
package ignore

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// defaultPatterns cover the temp files common editors leave next to
// the files being edited.
var defaultPatterns = []string{
	".*",    // hidden files, vim/vscode lock files
	"*~",    // backup files
	"*.swp", // vim swap files
	"#*#",   // emacs autosave files
}

// Matcher reports whether a file name matches any ignore pattern.
type Matcher struct {
	globs []glob.Glob
}

// New compiles the built-in editor temp-file patterns plus any extra
// user-supplied glob patterns into a Matcher.
func New(extra ...string) (*Matcher, error) {
	patterns := make([]string, 0, len(defaultPatterns)+len(extra))
	patterns = append(patterns, defaultPatterns...)

	for _, p := range extra {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		patterns = append(patterns, p)
	}

	globs := make([]glob.Glob, 0, len(patterns))

	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling ignore pattern %q: %w", p, err)
		}

		globs = append(globs, g)
	}

	return &Matcher{globs: globs}, nil
}

// Default returns a Matcher with only the built-in patterns.
// The built-in patterns always compile, so no error is possible.
func Default() *Matcher {
	m, err := New()
	if err != nil {
		panic(err)
	}

	return m
}

// Match reports whether name (a bare file name, not a path) should be
// skipped. A nil Matcher skips nothing.
func (m *Matcher) Match(name string) bool {
	if m == nil {
		return false
	}

	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}

	return false
}
