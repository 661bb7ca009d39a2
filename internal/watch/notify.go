package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
)

// RunNotify drives the dispatcher from fsnotify events instead of
// polling. Events only trigger a tick; the tick itself still snapshots
// and diffs, so per-category batching, the style-resource-script
// ordering, and baseline advancement behave exactly as in polling
// mode. Rapid event bursts are debounced into a single tick.
func (d *Dispatcher) RunNotify(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The initial capture also rejects nested directories.
	if err := d.Prime(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range d.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	fmt.Fprintf(d.opts.Out, "watching %s and %s (notify, debounce=%s)\n",
		d.opts.SourceDir, d.opts.ResourcesDir, d.opts.Debounce)

	// A tick inside the debounce callback can hit a fatal error
	// (e.g. a nested directory appearing); it escapes via tickErr.
	tickErr := make(chan error, 1)

	debouncer := NewDebouncer(d.opts.Debounce, func() {
		if err := d.Tick(sigCtx); err != nil {
			select {
			case tickErr <- err:
			default:
			}
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(d.opts.Out, "\nshutting down watcher")
			return nil

		case err := <-tickErr:
			return err

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !d.isRelevant(event) {
				continue
			}

			debouncer.Trigger()

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			d.opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// isRelevant filters out events that could never affect a build.
func (d *Dispatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op == 0 {
		return false
	}

	// Only write, create, remove, and rename matter.
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	// Hidden files are skipped even when no ignore matcher is set.
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}

	return !d.opts.Ignore.Match(name)
}
