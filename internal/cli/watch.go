package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleabitdev/synthbuild/internal/config"
	"github.com/fleabitdev/synthbuild/internal/ignore"
	"github.com/fleabitdev/synthbuild/internal/logging"
	"github.com/fleabitdev/synthbuild/internal/watch"
)

type watchOptions struct {
	buildOptions

	notify bool
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [root-dir]",
		Short: "Build, then rebuild on source changes",
		Long: `Watch performs a full build and then monitors the src and resources
directories, re-running the matching build action whenever files
change: stylesheets trigger sass, script sources trigger tsc, and
resources or markup trigger a resource copy. Many changed files of one
kind still cause only a single rebuild per cycle.

A failed rebuild rings the terminal bell and names the offending
action, but watching continues; the next change to a relevant file is
the retry trigger.

The default change detection polls the watched directories. Use
--notify to switch to OS file notifications; rebuild batching and
ordering are unaffected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, resolveRoot(args), opts)
		},
	}

	registerBuildFlags(cmd, &opts.buildOptions)

	// interval and debounce are read back through the config layer so
	// the file and environment sources keep their precedence.
	f := cmd.Flags()
	f.Duration("interval", 500*time.Millisecond, "poll period between change scans")
	f.Duration("debounce", 500*time.Millisecond, "quiet period before a rebuild in notify mode")
	f.BoolVar(&opts.notify, "notify", false, "use OS file notifications instead of polling")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, root string, opts *watchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	pipeline, err := newPipeline(ctx, cmd, root, opts.release)
	if err != nil {
		return err
	}

	if err := pipeline.InitialBuild(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "initial build complete. watching for changes...")

	matcher, err := ignore.New(cfg.Ignore...)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	dispatcher, err := watch.NewDispatcher(watch.Options{
		SourceDir:    pipeline.SrcDir,
		ResourcesDir: pipeline.ResourcesDir,
		Interval:     cfg.Interval,
		Debounce:     cfg.Debounce,
		Ignore:       matcher,
		Logger:       logger,
		Out:          cmd.ErrOrStderr(),
	}, pipeline)
	if err != nil {
		return err
	}

	if opts.notify {
		return dispatcher.RunNotify(ctx)
	}

	return dispatcher.Run(ctx)
}
