package toolchain

import (
	"context"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Tool names synthbuild shells out to.
const (
	ToolSass    = "sass"
	ToolTsc     = "tsc"
	ToolRjs     = "r.js"
	ToolClosure = "google-closure-compiler"
)

// Requirement describes one external program the build needs.
type Requirement struct {
	// Name is what gets resolved against PATH.
	Name string

	// VersionArgs invoke the tool's version report.
	VersionArgs []string

	// MinVersion is a semver floor; empty means presence suffices.
	MinVersion string
}

// Requirements returns the programs a full build shells out to.
// r.js and google-closure-compiler are only exercised by release
// builds but are checked regardless.
func Requirements() []Requirement {
	return []Requirement{
		{Name: ToolSass, VersionArgs: []string{"--version"}, MinVersion: "1.33.0"},
		{Name: ToolTsc, VersionArgs: []string{"--version"}, MinVersion: "4.0.0"},
		{Name: ToolRjs, VersionArgs: []string{"-v"}},
		{Name: ToolClosure, VersionArgs: []string{"--version"}},
	}
}

// CheckStatus classifies a doctor check outcome.
type CheckStatus string

// Doctor check outcomes.
const (
	StatusOK       CheckStatus = "ok"
	StatusMissing  CheckStatus = "missing"
	StatusOutdated CheckStatus = "outdated"
	StatusUnknown  CheckStatus = "unknown"
)

// CheckResult is the outcome of probing one required tool.
type CheckResult struct {
	Name    string      `json:"name"`
	Path    string      `json:"path,omitempty"`
	Version string      `json:"version,omitempty"`
	Status  CheckStatus `json:"status"`
	Detail  string      `json:"detail,omitempty"`
}

// Check probes every requirement: PATH resolution, then version
// report, then the semver floor when one is set.
func Check(ctx context.Context, runner Runner, reqs []Requirement) []CheckResult {
	results := make([]CheckResult, 0, len(reqs))

	for _, req := range reqs {
		results = append(results, checkOne(ctx, runner, req))
	}

	return results
}

// Healthy reports whether no result is missing or outdated. Tools
// with unparseable version output still count as healthy.
func Healthy(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusMissing || r.Status == StatusOutdated {
			return false
		}
	}

	return true
}

func checkOne(ctx context.Context, runner Runner, req Requirement) CheckResult {
	result := CheckResult{Name: req.Name}

	path, err := runner.LookPath(req.Name)
	if err != nil {
		result.Status = StatusMissing
		result.Detail = "not found on PATH"

		return result
	}

	result.Path = path

	out, err := runner.Output(ctx, req.Name, req.VersionArgs...)
	if err != nil {
		result.Status = StatusUnknown
		result.Detail = "version check failed: " + strings.TrimSpace(err.Error())

		return result
	}

	ver := parseVersion(out)
	if ver == "" {
		result.Status = StatusUnknown
		result.Detail = "could not parse version output"

		return result
	}

	result.Version = ver

	if req.MinVersion != "" && !versionSatisfied(req.MinVersion, ver) {
		result.Status = StatusOutdated
		result.Detail = "need >= " + req.MinVersion

		return result
	}

	result.Status = StatusOK

	return result
}

var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// parseVersion pulls the first x.y.z token out of a version report.
// Tools format these lines differently (tsc prints "Version 5.4.5",
// sass prints "1.77.8 compiled with dart2js ...").
func parseVersion(output string) string {
	return versionPattern.FindString(output)
}

// versionSatisfied checks actual against a ">= min" constraint.
func versionSatisfied(minVersion, actual string) bool {
	c, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		return false
	}

	v, err := semver.NewVersion(actual)
	if err != nil {
		return false
	}

	return c.Check(v)
}
