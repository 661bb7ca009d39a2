package watch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fleabitdev/synthbuild/internal/snapshot"
)

// Category names the build action a changed file triggers.
type Category string

// The three build action categories.
const (
	CategoryStyle    Category = "style"
	CategoryScript   Category = "script"
	CategoryResource Category = "resource"
)

// scriptExts are the recognised script source suffixes, covering typed
// and plain variants in both component and plain forms.
var scriptExts = []string{".tsx", ".ts", ".jsx", ".js"}

// Classifier maps changed paths to build action categories.
type Classifier struct {
	resourcesDir string
}

// NewClassifier builds a classifier that treats files directly inside
// resourcesDir as resource inputs.
func NewClassifier(resourcesDir string) (*Classifier, error) {
	abs, err := filepath.Abs(resourcesDir)
	if err != nil {
		return nil, fmt.Errorf("resolving resources directory %q: %w", resourcesDir, err)
	}

	return &Classifier{resourcesDir: abs}, nil
}

// Classify returns the category for path, or false when no build
// action applies. Rules are evaluated in precedence order: stylesheet
// extension, script extensions, resources directory, markup extension.
func (c *Classifier) Classify(path string) (Category, bool) {
	if strings.HasSuffix(path, ".scss") {
		return CategoryStyle, true
	}

	for _, ext := range scriptExts {
		if strings.HasSuffix(path, ext) {
			return CategoryScript, true
		}
	}

	if filepath.Clean(filepath.Dir(path)) == c.resourcesDir {
		return CategoryResource, true
	}

	if strings.HasSuffix(path, ".html") {
		return CategoryResource, true
	}

	return "", false
}

// Buckets groups changed paths by category. Ignored holds paths no
// rule matched; changes to them trigger nothing.
type Buckets struct {
	Style    []string
	Resource []string
	Script   []string
	Ignored  []string
}

// Empty reports whether no category received any path.
func (b Buckets) Empty() bool {
	return len(b.Style) == 0 && len(b.Resource) == 0 && len(b.Script) == 0
}

// Partition classifies every path in cs. Removed paths classify
// exactly like changed ones: the build actions always run over the
// whole current input set, so losing an input is handled the same way
// as editing one.
func (c *Classifier) Partition(cs snapshot.ChangeSet) Buckets {
	var b Buckets

	for _, path := range cs.Paths() {
		switch cat, ok := c.Classify(path); {
		case !ok:
			b.Ignored = append(b.Ignored, path)
		case cat == CategoryStyle:
			b.Style = append(b.Style, path)
		case cat == CategoryResource:
			b.Resource = append(b.Resource, path)
		case cat == CategoryScript:
			b.Script = append(b.Script, path)
		}
	}

	return b
}
