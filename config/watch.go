package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watch reloads the file at path whenever it changes and hands the new
// Config to onChange. It runs until ctx is cancelled. A reload that fails to
// parse or validate is logged and skipped, so the previous config stays in
// effect.
//
// The parent directory is watched rather than the file, so saves that
// replace the file by renaming over it keep being picked up.
//
// Reloaded configs do not see command-line flags.
func Watch(ctx context.Context, path string, log *slog.Logger, onChange func(*Config)) error {
	path = filepath.Clean(path)

	if _, err := os.Stat(path); err != nil {
		return errors.WithStack(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WithStack(err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "watching directory of %s", path)
	}

	log.Info("Watching config for changes", slog.String("file", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			cfg, err := Load(path, nil)
			if err != nil {
				log.Error("Config reload failed, keeping previous config",
					slog.String("file", path),
					slog.String("op", event.Op.String()),
					slog.Any("err", err))
				continue
			}

			log.Info("Config reloaded", slog.String("file", path))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Config watcher error", slog.Any("err", err))
		}
	}
}
