package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// Watch starts a best-effort background watcher on the directory containing
// path, logging changes to the shared configuration file as they arrive.
// It is diagnostic only: the dispatcher always re-reads the file fresh on
// every tools/list call, and never waits on or trusts this watcher.
//
// The returned stop function is safe to call multiple times. If the watcher
// cannot be started (e.g. inotify limits exhausted), Watch logs a warning
// and returns a no-op stop function rather than failing the caller.
func Watch(path string, log logr.Logger) (stop func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Info("config watcher disabled", "reason", err.Error())
		return func() {}
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		log.Info("config watcher disabled", "dir", dir, "reason", err.Error())
		_ = watcher.Close()
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				log.V(1).Info("config file changed", "op", event.Op.String())
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Info("config watcher error", "reason", werr.Error())
			case <-done:
				return
			}
		}
	}()

	var closed bool
	return func() {
		if closed {
			return
		}
		closed = true
		close(done)
		_ = watcher.Close()
	}
}
