// Package toolchain executes the external compilers synthbuild
// orchestrates (sass, tsc, r.js, google-closure-compiler) and checks
// their availability. The Runner interface keeps the builder and
// dispatcher testable without shelling out.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	// Run executes name with args, streaming output to the
	// configured writers. A non-zero exit status is an error.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes name with args and captures combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// LookPath resolves name against PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// NewExecRunner returns an ExecRunner wired to the process's stdio.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}

	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// Run executes the command, streaming its output.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	r.Logger.Debug("running command",
		slog.String("name", name),
		slog.String("args", strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}

// Output executes the command and returns its combined output.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s: %w", name, err)
	}

	return string(out), nil
}

// LookPath resolves name against PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
