package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/arthur-debert/testpilot/pkg/logging"
	"github.com/arthur-debert/testpilot/pkg/rules"
	"github.com/fsnotify/fsnotify"
)

// debounce window for bursts of write events from editors that save in
// multiple steps (truncate+write, or write-to-temp-then-rename)
const reloadDelay = 250 * time.Millisecond

// Watch reloads the configuration file whenever it changes on disk and
// passes each successfully loaded configuration to apply. Reload
// failures are logged and the previous configuration stays live. Watch
// returns once the watcher is installed; it stops when ctx is cancelled.
//
// The parent directory is watched rather than the file itself, so
// editors that replace the file on save keep the watch alive.
func Watch(ctx context.Context, path string, apply func(rules.Configuration)) error {
	logger := logging.GetLogger("config.watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer func() { _ = watcher.Close() }()

		var pending *time.Timer
		reload := make(chan struct{}, 1)

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(reloadDelay, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})

			case <-reload:
				config, err := LoadFile(path)
				if err != nil {
					logger.Warn().Err(err).Str("path", path).Msg("configuration reload failed, keeping previous rules")
					continue
				}
				logger.Info().Str("path", path).Msg("configuration reloaded")
				apply(config)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("configuration watcher error")
			}
		}
	}()

	return nil
}
