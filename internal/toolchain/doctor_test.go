package toolchain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner resolves and reports versions from canned maps.
type fakeRunner struct {
	paths    map[string]string
	versions map[string]string
	runErr   map[string]error
}

func (f *fakeRunner) Run(_ context.Context, name string, _ ...string) error {
	if err, ok := f.runErr[name]; ok {
		return err
	}

	return nil
}

func (f *fakeRunner) Output(_ context.Context, name string, _ ...string) (string, error) {
	if err, ok := f.runErr[name]; ok {
		return "", err
	}

	return f.versions[name], nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if p, ok := f.paths[name]; ok {
		return p, nil
	}

	return "", errors.New("executable file not found in $PATH")
}

func healthyRunner() *fakeRunner {
	return &fakeRunner{
		paths: map[string]string{
			ToolSass:    "/usr/bin/sass",
			ToolTsc:     "/usr/bin/tsc",
			ToolRjs:     "/usr/bin/r.js",
			ToolClosure: "/usr/bin/google-closure-compiler",
		},
		versions: map[string]string{
			ToolSass:    "1.77.8 compiled with dart2js 3.4.4",
			ToolTsc:     "Version 5.4.5",
			ToolRjs:     "r.js: 2.3.7, RequireJS: 2.3.7, UglifyJS: 3.17.4",
			ToolClosure: "v20240317",
		},
	}
}

// ---------------------------------------------------------------------------
// Check
// ---------------------------------------------------------------------------

func TestCheck_AllHealthy(t *testing.T) {
	results := Check(context.Background(), healthyRunner(), Requirements())
	require.Len(t, results, 4)

	byName := map[string]CheckResult{}
	for _, r := range results {
		byName[r.Name] = r
	}

	assert.Equal(t, StatusOK, byName[ToolSass].Status)
	assert.Equal(t, "1.77.8", byName[ToolSass].Version)
	assert.Equal(t, StatusOK, byName[ToolTsc].Status)
	assert.Equal(t, "5.4.5", byName[ToolTsc].Version)
	assert.Equal(t, StatusOK, byName[ToolRjs].Status)

	// Closure's version string has no x.y.z token.
	assert.Equal(t, StatusUnknown, byName[ToolClosure].Status)

	assert.True(t, Healthy(results))
}

func TestCheck_MissingTool(t *testing.T) {
	runner := healthyRunner()
	delete(runner.paths, ToolTsc)

	results := Check(context.Background(), runner, Requirements())

	var tsc CheckResult
	for _, r := range results {
		if r.Name == ToolTsc {
			tsc = r
		}
	}

	assert.Equal(t, StatusMissing, tsc.Status)
	assert.Contains(t, tsc.Detail, "not found on PATH")
	assert.False(t, Healthy(results))
}

func TestCheck_OutdatedTool(t *testing.T) {
	runner := healthyRunner()
	runner.versions[ToolSass] = "1.20.0 compiled with dart2js 2.10.0"

	results := Check(context.Background(), runner, Requirements())

	var sass CheckResult
	for _, r := range results {
		if r.Name == ToolSass {
			sass = r
		}
	}

	assert.Equal(t, StatusOutdated, sass.Status)
	assert.Contains(t, sass.Detail, ">= 1.33.0")
	assert.False(t, Healthy(results))
}

func TestCheck_VersionCommandFails(t *testing.T) {
	runner := healthyRunner()
	runner.runErr = map[string]error{ToolSass: errors.New("exit status 1")}

	results := Check(context.Background(), runner, Requirements())

	var sass CheckResult
	for _, r := range results {
		if r.Name == ToolSass {
			sass = r
		}
	}

	assert.Equal(t, StatusUnknown, sass.Status)
	assert.True(t, Healthy(results), "unknown versions do not fail the doctor")
}

// ---------------------------------------------------------------------------
// parseVersion / versionSatisfied
// ---------------------------------------------------------------------------

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"tsc style", "Version 5.4.5", "5.4.5"},
		{"sass style", "1.77.8 compiled with dart2js 3.4.4", "1.77.8"},
		{"rjs style", "r.js: 2.3.7, RequireJS: 2.3.7", "2.3.7"},
		{"no version", "v20240317", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseVersion(tt.output))
		})
	}
}

func TestVersionSatisfied(t *testing.T) {
	assert.True(t, versionSatisfied("1.33.0", "1.77.8"))
	assert.True(t, versionSatisfied("1.33.0", "1.33.0"))
	assert.False(t, versionSatisfied("1.33.0", "1.20.0"))
	assert.False(t, versionSatisfied("1.33.0", "garbage"))
}
