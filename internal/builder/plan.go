package builder

import (
	"path/filepath"

	"github.com/fleabitdev/synthbuild/internal/toolchain"
)

// Plan describes the resolved build without running it: directories,
// mode, and the ordered steps with their tools and outputs.
type Plan struct {
	RootDir      string `json:"rootDir" yaml:"rootDir"`
	SrcDir       string `json:"srcDir" yaml:"srcDir"`
	ResourcesDir string `json:"resourcesDir" yaml:"resourcesDir"`
	DstDir       string `json:"dstDir" yaml:"dstDir"`
	Release      bool   `json:"release" yaml:"release"`
	Steps        []Step `json:"steps" yaml:"steps"`
}

// Step is one stage of the build plan.
type Step struct {
	Name    string   `json:"name" yaml:"name"`
	Tools   []string `json:"tools,omitempty" yaml:"tools,omitempty"`
	Inputs  []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// Plan returns the steps InitialBuild would execute, in order.
func (p *Pipeline) Plan() Plan {
	scriptTools := []string{toolchain.ToolTsc}
	if p.Release {
		scriptTools = append(scriptTools, toolchain.ToolRjs, toolchain.ToolClosure)
	}

	return Plan{
		RootDir:      p.RootDir,
		SrcDir:       p.SrcDir,
		ResourcesDir: p.ResourcesDir,
		DstDir:       p.DstDir,
		Release:      p.Release,
		Steps: []Step{
			{
				Name:    "clean",
				Outputs: []string{p.DstDir},
			},
			{
				Name:    "resources",
				Inputs:  []string{filepath.Join(p.SrcDir, "*.html"), filepath.Join(p.ResourcesDir, "*")},
				Outputs: []string{p.DstDir},
			},
			{
				Name: "runtime-scripts",
				Inputs: []string{
					filepath.Join(p.ResourcesDir, "react.*.js"),
					filepath.Join(p.ResourcesDir, "react-dom.*.js"),
					filepath.Join(p.ResourcesDir, "require.js"),
					filepath.Join(p.ResourcesDir, "live.js"),
				},
				Outputs: []string{
					filepath.Join(p.DstDir, "react.js"),
					filepath.Join(p.DstDir, "react-dom.js"),
					filepath.Join(p.DstDir, "require.js"),
					filepath.Join(p.DstDir, "live.js"),
				},
			},
			{
				Name:    "style",
				Tools:   []string{toolchain.ToolSass},
				Inputs:  []string{filepath.Join(p.SrcDir, "style.scss")},
				Outputs: []string{filepath.Join(p.DstDir, "style.css")},
			},
			{
				Name:  "script",
				Tools: scriptTools,
				Inputs: []string{
					filepath.Join(p.SrcDir, "app.tsx"),
					filepath.Join(p.SrcDir, "audioWorklet.ts"),
				},
				Outputs: []string{
					filepath.Join(p.DstDir, "app.js"),
					filepath.Join(p.DstDir, "audioWorklet.js"),
				},
			},
		},
	}
}
