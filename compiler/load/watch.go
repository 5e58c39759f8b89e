package load

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/sqlderive/schema"
)

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *slog.Logger
	debounce time.Duration
}

// WatchLogger sets the logger reload failures are reported to.
func WatchLogger(l *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WatchDebounce sets how long Watch waits for file events to settle before
// reloading. Default is 100ms.
func WatchDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.debounce = d
	}
}

// Watch loads the schema files of dir into r and reloads them whenever they
// change, until ctx is done. Every load replaces the contents of r, so records
// deleted from dir are removed. onChange, if not nil, is called with the schemas
// of every successful load, including the initial one.
//
// The initial load must succeed. A later reload that fails is logged and
// leaves the registry with the schemas of the last successful load.
func Watch(ctx context.Context, dir string, r *schema.Registry, onChange func([]*schema.Schema), opts ...WatchOption) error {
	cfg := &watchConfig{logger: slog.Default(), debounce: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(cfg)
	}
	reload := func() error {
		recs, err := LoadDir(dir)
		if err != nil {
			return err
		}
		schemas, err := ReplaceAll(r, recs)
		if err != nil {
			return err
		}
		if onChange != nil {
			onChange(schemas)
		}
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("load: creating watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("load: watching %s: %w", dir, err)
	}
	if err := reload(); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !IsSchemaFile(ev.Name) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			cfg.logger.DebugContext(ctx, "schema file changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(cfg.debounce)
			} else {
				timer.Reset(cfg.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := reload(); err != nil {
				cfg.logger.ErrorContext(ctx, "reloading schemas failed, keeping previous schemas", "dir", dir, "error", err)
				continue
			}
			cfg.logger.InfoContext(ctx, "schemas reloaded", "dir", dir)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cfg.logger.ErrorContext(ctx, "watching schema dir", "dir", dir, "error", err)
		}
	}
}
