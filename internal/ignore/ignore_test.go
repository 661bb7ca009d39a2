package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EditorTempFiles(t *testing.T) {
	m := Default()

	tests := []struct {
		name string
		want bool
	}{
		{"style.scss", false},
		{"app.tsx", false},
		{"index.html", false},
		{".app.tsx.swo", true},
		{".hidden", true},
		{"app.tsx~", true},
		{"app.tsx.swp", true},
		{"#app.tsx#", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.name))
		})
	}
}

func TestNew_ExtraPatterns(t *testing.T) {
	m, err := New("*.tmp", "  ", "generated_*")
	require.NoError(t, err)

	assert.True(t, m.Match("out.tmp"))
	assert.True(t, m.Match("generated_icons.js"))
	assert.False(t, m.Match("app.tsx"))
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New("[unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling ignore pattern")
}

func TestMatch_NilMatcher(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Match(".hidden"))
}
