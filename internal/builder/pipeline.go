// Package builder implements synthbuild's build actions: the style,
// script, and resource operations the watch dispatcher triggers, plus
// the full initial build. Every action is idempotent and always runs
// over the whole current input set; no incremental compilation is
// asked of the external tools.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fleabitdev/synthbuild/internal/toolchain"
)

// Pipeline holds the directory layout and mode for one project build.
// The layout is conventional: sources under <root>/src, static inputs
// under <root>/resources, outputs under <root>/dst.
type Pipeline struct {
	RootDir      string
	SrcDir       string
	ResourcesDir string
	DstDir       string

	// Release selects the production build: minified outputs,
	// production react, no source maps, and an empty live.js.
	Release bool

	runner toolchain.Runner
	logger *slog.Logger
}

// New resolves the conventional layout under rootDir.
func New(rootDir string, release bool, runner toolchain.Runner, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		RootDir:      rootDir,
		SrcDir:       filepath.Join(rootDir, "src"),
		ResourcesDir: filepath.Join(rootDir, "resources"),
		DstDir:       filepath.Join(rootDir, "dst"),
		Release:      release,
		runner:       runner,
		logger:       logger,
	}
}

// Validate checks the expected layout before any build runs.
func (p *Pipeline) Validate() error {
	for _, dir := range []string{p.SrcDir, p.ResourcesDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
	}

	return nil
}

// InitialBuild recreates dst from scratch and runs every build step
// once. Script compilation runs last: it is by far the slowest step,
// so markup, styles, and resources land first.
func (p *Pipeline) InitialBuild(ctx context.Context) error {
	if err := p.resetDst(); err != nil {
		return err
	}

	if err := p.ResourceCopy(ctx); err != nil {
		return err
	}

	if err := p.copyRuntimeScripts(); err != nil {
		return err
	}

	if err := p.StyleBuild(ctx); err != nil {
		return err
	}

	return p.ScriptBuild(ctx)
}

// resetDst deletes and recreates the output directory.
func (p *Pipeline) resetDst() error {
	if err := os.RemoveAll(p.DstDir); err != nil {
		return fmt.Errorf("clearing %s: %w", p.DstDir, err)
	}

	if err := os.MkdirAll(p.DstDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", p.DstDir, err)
	}

	return nil
}

// StyleBuild compiles src/style.scss (and its imports) into a single
// dst/style.css via sass. A project without style.scss has no styles
// to build, which is not an error.
func (p *Pipeline) StyleBuild(ctx context.Context) error {
	srcPath := filepath.Join(p.SrcDir, "style.scss")
	if _, err := os.Stat(srcPath); err != nil {
		p.logger.Debug("no style.scss, skipping style build")
		return nil
	}

	args := []string{"--no-source-map"}
	if p.Release {
		args = append(args, "--style=compressed")
	}

	args = append(args, srcPath, filepath.Join(p.DstDir, "style.css"))

	return p.runner.Run(ctx, toolchain.ToolSass, args...)
}

// ScriptBuild compiles src/app.tsx and src/audioWorklet.ts (and their
// imports) via tsc into a temporary directory under dst, then either
// bundles and minifies the result (release) or copies it into dst
// as-is. The temporary directory is removed either way.
func (p *Pipeline) ScriptBuild(ctx context.Context) error {
	tmpDir := filepath.Join(p.DstDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", tmpDir, err)
	}
	defer os.RemoveAll(tmpDir)

	args := []string{"--strict", "--target", "es6", "--jsx", "react", "--module", "amd"}
	if !p.Release {
		args = append(args, "--sourceMap")
	}

	args = append(args,
		"--esModuleInterop", "--removeComments", "--skipLibCheck",
		filepath.Join(p.SrcDir, "app.tsx"),
		filepath.Join(p.SrcDir, "audioWorklet.ts"),
		"--outDir", tmpDir,
	)

	if err := p.runner.Run(ctx, toolchain.ToolTsc, args...); err != nil {
		return err
	}

	if p.Release {
		return p.bundleRelease(ctx, tmpDir)
	}

	return p.copyCompiledScripts(tmpDir)
}

// bundleRelease collates the app module graph into one file via r.js
// and minifies both entry points via google-closure-compiler.
// audioWorklet is a single module, so it only needs the minify step.
func (p *Pipeline) bundleRelease(ctx context.Context, tmpDir string) error {
	err := p.runner.Run(ctx, toolchain.ToolRjs, "-o",
		"baseUrl="+tmpDir,
		"name=app",
		"out="+filepath.Join(tmpDir, "app.collated.js"),
		"paths.react=empty:",
		"paths.react-dom=empty:",
		"optimize=none",
		"logLevel=4",
	)
	if err != nil {
		return err
	}

	err = copyFile(
		filepath.Join(tmpDir, "audioWorklet.js"),
		filepath.Join(tmpDir, "audioWorklet.collated.js"),
	)
	if err != nil {
		return err
	}

	for _, entry := range []string{"app", "audioWorklet"} {
		err := p.runner.Run(ctx, toolchain.ToolClosure,
			"--language_in", "ECMASCRIPT_2016",
			"--language_out", "ECMASCRIPT_2016",
			"--js", filepath.Join(tmpDir, entry+".collated.js"),
			"--js_output_file", filepath.Join(p.DstDir, entry+".js"),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// copyCompiledScripts moves tsc's output (js and source maps) from the
// temporary directory into dst.
func (p *Pipeline) copyCompiledScripts(tmpDir string) error {
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", tmpDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		err := copyFile(
			filepath.Join(tmpDir, entry.Name()),
			filepath.Join(p.DstDir, entry.Name()),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// ResourceCopy copies src/*.html and every non-script file under
// resources/ into dst. Scripts under resources/ are runtime files
// with release/debug variants, handled by copyRuntimeScripts.
func (p *Pipeline) ResourceCopy(_ context.Context) error {
	srcEntries, err := os.ReadDir(p.SrcDir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", p.SrcDir, err)
	}

	for _, entry := range srcEntries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".html" {
			continue
		}

		err := copyFile(
			filepath.Join(p.SrcDir, entry.Name()),
			filepath.Join(p.DstDir, entry.Name()),
		)
		if err != nil {
			return err
		}
	}

	resEntries, err := os.ReadDir(p.ResourcesDir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", p.ResourcesDir, err)
	}

	for _, entry := range resEntries {
		if entry.IsDir() || filepath.Ext(entry.Name()) == ".js" {
			continue
		}

		err := copyFile(
			filepath.Join(p.ResourcesDir, entry.Name()),
			filepath.Join(p.DstDir, entry.Name()),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// copyRuntimeScripts places the react, require.js, and live.js runtime
// files into dst. Release builds use the production react bundles and
// an empty live.js so the live-reload client disappears from shipped
// pages.
func (p *Pipeline) copyRuntimeScripts() error {
	reactSuffix := "development"
	if p.Release {
		reactSuffix = "production.min"
	}

	for _, lib := range []string{"react", "react-dom"} {
		err := copyFile(
			filepath.Join(p.ResourcesDir, fmt.Sprintf("%s.%s.js", lib, reactSuffix)),
			filepath.Join(p.DstDir, lib+".js"),
		)
		if err != nil {
			return err
		}
	}

	err := copyFile(
		filepath.Join(p.ResourcesDir, "require.js"),
		filepath.Join(p.DstDir, "require.js"),
	)
	if err != nil {
		return err
	}

	liveDst := filepath.Join(p.DstDir, "live.js")
	if p.Release {
		return writeEmptyFile(liveDst)
	}

	return copyFile(filepath.Join(p.ResourcesDir, "live.js"), liveDst)
}
