package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and re-applies the reloadable settings each time the
// file is written: the log level is set on level, and the stream rebroadcast
// interval is passed to setInterval (nil to skip). All other settings need a
// restart. Watch runs until ctx is cancelled.
//
// A reload that fails to parse or validate is logged and the previous
// settings stay active.
func Watch(ctx context.Context, path string, level *slog.LevelVar, setInterval func(time.Duration)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Writes and creates both count: editors often save via rename,
			// which shows up as a create of a fresh inode.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			applyReload(path, level, setInterval)

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// applyReload loads path and applies the reloadable settings.
func applyReload(path string, level *slog.LevelVar, setInterval func(time.Duration)) {
	cfg, err := Load(path)
	if err != nil {
		slog.Error("config: reload failed, keeping previous settings",
			"path", path, "err", err)
		return
	}

	level.Set(cfg.Server.SlogLevel())
	if setInterval != nil {
		setInterval(cfg.Server.Stream.Interval)
	}

	slog.Info("config: reloaded",
		"path", path,
		"log_level", cfg.Server.LogLevel,
		"stream_interval", cfg.Server.Stream.Interval,
	)
}
