package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleabitdev/synthbuild/internal/snapshot"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()

	c, err := NewClassifier("/project/resources")
	require.NoError(t, err)

	return c
}

func TestClassify_Rules(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name string
		path string
		want Category
		ok   bool
	}{
		{"stylesheet", "/project/src/style.scss", CategoryStyle, true},
		{"typed component", "/project/src/app.tsx", CategoryScript, true},
		{"typed script", "/project/src/audioWorklet.ts", CategoryScript, true},
		{"plain component", "/project/src/legacy.jsx", CategoryScript, true},
		{"plain script", "/project/src/vendor.js", CategoryScript, true},
		{"resource file", "/project/resources/icon.png", CategoryResource, true},
		{"markup outside resources", "/project/src/index.html", CategoryResource, true},
		{"unrecognized extension", "/project/src/notes.md", "", false},
		{"no extension", "/project/src/LICENSE", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := c.Classify(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, cat)
		})
	}
}

// Extension rules take precedence over location: a script inside the
// resources directory still triggers the script build.
func TestClassify_ScriptInResourcesDir(t *testing.T) {
	c := newTestClassifier(t)

	cat, ok := c.Classify("/project/resources/require.js")
	require.True(t, ok)
	assert.Equal(t, CategoryScript, cat)
}

func TestPartition_GroupsByCategory(t *testing.T) {
	c := newTestClassifier(t)

	cs := snapshot.ChangeSet{
		Changed: []string{
			"/project/src/app.tsx",
			"/project/src/style.scss",
			"/project/resources/icon.png",
			"/project/src/notes.md",
		},
	}

	b := c.Partition(cs)
	assert.Equal(t, []string{"/project/src/style.scss"}, b.Style)
	assert.Equal(t, []string{"/project/resources/icon.png"}, b.Resource)
	assert.Equal(t, []string{"/project/src/app.tsx"}, b.Script)
	assert.Equal(t, []string{"/project/src/notes.md"}, b.Ignored)
	assert.False(t, b.Empty())
}

// Removed paths classify exactly like changed ones.
func TestPartition_RemovedPathsClassified(t *testing.T) {
	c := newTestClassifier(t)

	cs := snapshot.ChangeSet{
		Removed: []string{"/project/src/style.scss"},
	}

	b := c.Partition(cs)
	assert.Equal(t, []string{"/project/src/style.scss"}, b.Style)
}

func TestPartition_Empty(t *testing.T) {
	c := newTestClassifier(t)

	b := c.Partition(snapshot.ChangeSet{})
	assert.True(t, b.Empty())

	b = c.Partition(snapshot.ChangeSet{Changed: []string{"/project/src/notes.md"}})
	assert.True(t, b.Empty(), "ignored-only change set populates no category")
}
