package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fleabitdev/synthbuild/internal/builder"
	"github.com/fleabitdev/synthbuild/internal/logging"
	"github.com/fleabitdev/synthbuild/internal/toolchain"
)

// buildOptions are shared by the build, watch, and inspect commands.
type buildOptions struct {
	release bool
}

// registerBuildFlags adds the shared build mode flag to a cobra command.
func registerBuildFlags(cmd *cobra.Command, opts *buildOptions) {
	cmd.Flags().BoolVarP(&opts.release, "release", "r", false,
		"production build: minified outputs, production react, no source maps")
}

// resolveRoot returns the project root from args, defaulting to the
// working directory.
func resolveRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return "."
}

// newPipeline builds a validated pipeline for root, wired to the
// command's stdio and the context logger.
func newPipeline(ctx context.Context, cmd *cobra.Command, root string, release bool) (*builder.Pipeline, error) {
	logger := logging.FromContext(ctx)

	runner := &toolchain.ExecRunner{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Logger: logger,
	}

	p := builder.New(root, release, runner, logger)
	if err := p.Validate(); err != nil {
		return nil, &ExitError{Code: 2, Err: err}
	}

	return p, nil
}
