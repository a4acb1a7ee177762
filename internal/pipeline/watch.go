package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ppiankov/apa7/internal/convert"
	"github.com/ppiankov/apa7/internal/worker"
)

// BuildFunc receives the outcome of every build started by Watch.
type BuildFunc func(res *Result, err error)

// Watch builds every target once, then again whenever the markup document
// is written. Targets build one after the other. Bursts of events collapse
// into one rebuild, and rebuilds of a target are at least the configured
// interval apart. Build failures are reported to onBuild and do not stop
// watching. Watch returns nil when ctx is done.
func (p *Pipeline) Watch(ctx context.Context, onBuild BuildFunc, targets ...convert.Target) error {
	if len(targets) == 0 {
		return fmt.Errorf("watch: no targets")
	}

	markdown, err := filepath.Abs(p.config.Paths.Markdown)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", p.config.Paths.Markdown, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// watch the directory: editors replace the file on save
	if err := watcher.Add(filepath.Dir(markdown)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(markdown), err)
	}

	limiter := worker.NewLimiter(p.config.Watch.Interval, 1)

	build := func() {
		drain(watcher)
		for _, target := range targets {
			if err := limiter.Wait(ctx, string(target)); err != nil {
				return
			}
			res, err := p.Build(ctx, target)
			if ctx.Err() != nil {
				return
			}
			onBuild(res, err)
		}
	}

	p.logger.InfoContext(ctx, "watching for changes", "path", markdown, "targets", targets)
	build()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, markdown) {
				continue
			}
			p.logger.DebugContext(ctx, "change detected", "path", event.Name, "op", event.Op.String())
			build()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.WarnContext(ctx, "watch error", "error", err)
		}
	}
}

func relevant(event fsnotify.Event, markdown string) bool {
	if filepath.Clean(event.Name) != markdown {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// drain discards events already queued, since the build about to start
// covers them.
func drain(w *fsnotify.Watcher) {
	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
