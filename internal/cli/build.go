package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newBuildCommand() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [root-dir]",
		Short: "Build the application once",
		Long: `Build clears and recreates <root>/dst, copies static resources and
runtime scripts, compiles src/style.scss via sass, and compiles
src/app.tsx and src/audioWorklet.ts via tsc.

Release builds additionally bundle the script output via r.js, minify
everything via google-closure-compiler, use the production react
bundles, and emit an empty live.js.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cmd, resolveRoot(args), opts)
		},
	}

	registerBuildFlags(cmd, opts)

	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, root string, opts *buildOptions) error {
	pipeline, err := newPipeline(ctx, cmd, root, opts.release)
	if err != nil {
		return err
	}

	if err := pipeline.InitialBuild(ctx); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "build complete: %s\n", pipeline.DstDir)

	return nil
}
