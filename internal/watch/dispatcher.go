package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fleabitdev/synthbuild/internal/ignore"
	"github.com/fleabitdev/synthbuild/internal/snapshot"
)

// Actions is the set of build operations the dispatcher can trigger.
// Each one runs over the whole current input set and reports success
// or failure; the builder package provides the real implementation.
type Actions interface {
	StyleBuild(ctx context.Context) error
	ResourceCopy(ctx context.Context) error
	ScriptBuild(ctx context.Context) error
}

// Options configures the rebuild dispatcher.
type Options struct {
	// SourceDir and ResourcesDir are the two watched directories.
	SourceDir    string
	ResourcesDir string

	// Interval is the poll period between snapshots.
	Interval time.Duration

	// Debounce is the quiet period before a rebuild in notify mode.
	Debounce time.Duration

	// Ignore filters editor temp files out of snapshots and events.
	Ignore *ignore.Matcher

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status lines and the
	// failure bell.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Interval: 500 * time.Millisecond,
		Debounce: 500 * time.Millisecond,
		Ignore:   ignore.Default(),
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Dispatcher owns the baseline snapshot and drives the
// poll-diff-classify-dispatch cycle. It is not safe for concurrent
// use; one goroutine runs the whole loop.
type Dispatcher struct {
	opts       Options
	actions    Actions
	classifier *Classifier
	baseline   snapshot.Snapshot
}

// NewDispatcher validates opts and builds a dispatcher over actions.
func NewDispatcher(opts Options, actions Actions) (*Dispatcher, error) {
	if opts.Interval <= 0 {
		opts.Interval = 500 * time.Millisecond
	}

	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	classifier, err := NewClassifier(opts.ResourcesDir)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		opts:       opts,
		actions:    actions,
		classifier: classifier,
	}, nil
}

// Run blocks in the polling loop until ctx is cancelled or a
// SIGINT/SIGTERM signal arrives. The returned error is fatal: a nested
// directory inside a watched directory, or an unreadable watched
// directory. Build failures ring the bell and the loop continues.
func (d *Dispatcher) Run(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Prime(); err != nil {
		return err
	}

	fmt.Fprintf(d.opts.Out, "watching %s and %s (interval=%s)\n",
		d.opts.SourceDir, d.opts.ResourcesDir, d.opts.Interval)

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(d.opts.Out, "\nshutting down watcher")
			return nil

		case <-time.After(d.opts.Interval):
		}

		if err := d.Tick(sigCtx); err != nil {
			return err
		}
	}
}

// Prime captures the initial baseline snapshot. It also surfaces a
// nested directory before the first tick runs.
func (d *Dispatcher) Prime() error {
	baseline, err := snapshot.Capture(d.dirs(), d.opts.Ignore)
	if err != nil {
		return err
	}

	d.baseline = baseline

	return nil
}

// Tick runs one snapshot-diff-classify-dispatch cycle. Only fatal
// errors are returned; build failures are reported and swallowed.
func (d *Dispatcher) Tick(ctx context.Context) error {
	next, err := snapshot.Capture(d.dirs(), d.opts.Ignore)
	if err != nil {
		return err
	}

	cs := snapshot.Diff(d.baseline, next)

	// The baseline advances whether or not a build succeeds, so a
	// persistent compile error does not re-fire on every tick.
	d.baseline = next

	if cs.Empty() {
		return nil
	}

	d.dispatch(ctx, d.classifier.Partition(cs))

	return nil
}

// Baseline returns the snapshot from the most recent capture.
func (d *Dispatcher) Baseline() snapshot.Snapshot {
	return d.baseline
}

func (d *Dispatcher) dirs() []string {
	return []string{d.opts.SourceDir, d.opts.ResourcesDir}
}

// dispatch triggers at most one build action per populated category.
// Script compilation is the slowest step, so it runs last and the
// faster style and resource updates land first.
func (d *Dispatcher) dispatch(ctx context.Context, b Buckets) {
	for _, path := range b.Ignored {
		d.opts.Logger.Debug("no build action for changed file", slog.String("path", path))
	}

	d.runAction(ctx, CategoryStyle, b.Style, d.actions.StyleBuild)
	d.runAction(ctx, CategoryResource, b.Resource, d.actions.ResourceCopy)
	d.runAction(ctx, CategoryScript, b.Script, d.actions.ScriptBuild)
}

// runAction invokes one build action and reports its outcome. A
// failure rings the terminal bell (\a) and names the action and the
// paths that triggered it, but never stops the loop.
func (d *Dispatcher) runAction(ctx context.Context, cat Category, paths []string, fn func(context.Context) error) {
	if len(paths) == 0 {
		return
	}

	now := time.Now().Format("15:04:05")
	fmt.Fprintf(d.opts.Out, "[%s] files changed: %s → running %s build...\n",
		now, strings.Join(paths, ", "), cat)

	if err := fn(ctx); err != nil {
		fmt.Fprintf(d.opts.Out, "\a[%s] %s build FAILED (%s): %v\n",
			time.Now().Format("15:04:05"), cat, strings.Join(paths, ", "), err)
		d.opts.Logger.Error("build action failed",
			slog.String("action", string(cat)),
			slog.String("error", err.Error()))

		return
	}

	fmt.Fprintf(d.opts.Out, "[%s] %s build OK\n", time.Now().Format("15:04:05"), cat)
}
