package builder

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stencilgen/stencil/internal/config"
)

// debounceDelay coalesces bursts of change events into one rebuild.
const debounceDelay = 500 * time.Millisecond

// ReloadFunc produces a fresh configuration when the config file changes.
type ReloadFunc func() (*config.Config, error)

// Watch observes the content, templates and static trees plus the
// configuration file and re-runs the full pass on every (debounced) change.
// It blocks until ctx is cancelled.
func (b *Builder) Watch(ctx context.Context, configPath string, reload ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	cfg := b.config()
	for _, root := range []string{cfg.Paths.Content, cfg.Paths.Templates, cfg.Paths.Static} {
		watchTree(watcher, root, b.log)
	}
	if configPath != "" {
		if err := watcher.Add(configPath); err != nil {
			b.log.Warn("watching config file failed", "stage", "watch", "path", configPath, "error", err)
		}
	}
	b.log.Info("watching for changes", "content", cfg.Paths.Content, "templates", cfg.Paths.Templates, "static", cfg.Paths.Static)

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			b.log.Info("change detected", "path", event.Name, "op", event.Op.String())

			// New directories are not watched automatically.
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					b.log.Warn("watching new directory failed", "stage", "watch", "path", event.Name, "error", err)
				}
			}

			if configPath != "" && event.Name == configPath {
				if fresh, err := reload(); err != nil {
					b.log.Warn("config reload failed, keeping previous configuration", "stage", "watch", "error", err)
				} else {
					b.SwapConfig(fresh)
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				if err := b.Run(); err != nil {
					b.log.Error("rebuild failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.log.Warn("watcher error", "stage", "watch", "error", err)
		}
	}
}

// watchTree adds root and every directory below it to the watcher.
func watchTree(watcher *fsnotify.Watcher, root string, logger *slog.Logger) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walking watch tree failed", "stage", "watch", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				logger.Warn("watching directory failed", "stage", "watch", "path", path, "error", err)
			}
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
