package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/logship-labs/logship/pkg/log"
)

const watchDebounce = 100 * time.Millisecond

// Watcher re-reads the config file when it changes and reports the merged
// result. Flag and environment precedence still applies: a reloaded file
// never overrides a value that was set explicitly on the command line.
type Watcher struct {
	path     string
	base     Config
	changed  map[string]bool
	onChange func(Config)
	logger   log.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a watcher for the given config file. base is the
// configuration before the file overlay (defaults, env, flags); onChange is
// called with the merged, validated result of each reload.
func NewWatcher(path string, base Config, changed map[string]bool, logger log.Logger, onChange func(Config)) *Watcher {
	return &Watcher{
		path:     path,
		base:     base,
		changed:  changed,
		onChange: onChange,
		logger:   logger,
	}
}

// Run watches the config file until the context is canceled.
func (w *Watcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("config watcher: create failed", log.Err(err))
		return
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and config management tools
	// typically replace the file, which would orphan a direct watch.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Error("config watcher: watch failed",
			log.String("path", w.path), log.Err(err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher: error", log.Err(err))
		}
	}
}

// scheduleReload debounces bursts of write events into one reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(watchDebounce, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Error("config watcher: reload failed", log.Err(err))
		return
	}

	cfg := w.base
	if err := ApplyFileConfig(&cfg, fc, w.changed); err != nil {
		w.logger.Error("config watcher: apply failed", log.Err(err))
		return
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Error("config watcher: invalid config ignored", log.Err(err))
		return
	}

	w.logger.Info("config reloaded", log.String("path", w.path))
	w.onChange(cfg)
}
