package agent

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stagelab/stagestream/pkg/log"
)

// configWatcher monitors the config file via fsnotify and applies
// sample-rate changes at runtime. The new value goes through the same
// bounds check SET_RATE uses; anything else in the file is startup-only.
type configWatcher struct {
	path   string
	rate   *rateCell
	logger log.Logger

	debounceDelay time.Duration

	mu       sync.Mutex
	debounce *time.Timer
}

func newConfigWatcher(path string, rate *rateCell, logger log.Logger) *configWatcher {
	return &configWatcher{
		path:          path,
		rate:          rate,
		logger:        logger,
		debounceDelay: 100 * time.Millisecond,
	}
}

// Run watches the config file's directory until the context is canceled.
// Editors replace files rather than rewriting them in place, so the watch is
// on the directory and events are filtered by name.
func (w *configWatcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("config watcher: create failed", log.Err(err))
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		w.logger.Error("config watcher: watch failed",
			log.String("dir", dir),
			log.Err(err),
		)
		return
	}

	w.logger.Info("config watcher started", log.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", log.Err(err))
		}
	}
}

// scheduleReload debounces bursts of events from a single save.
func (w *configWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *configWatcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", log.Err(err))
		return
	}
	if fc.SampleRateHz == 0 || fc.SampleRateHz == w.rate.Hz() {
		return
	}
	if err := w.rate.Set(fc.SampleRateHz); err != nil {
		w.logger.Warn("config reload: rate rejected",
			log.Int("rate_hz", fc.SampleRateHz),
			log.Err(err),
		)
		return
	}
	w.logger.Info("sampling rate changed from config file",
		log.Int("rate_hz", fc.SampleRateHz),
	)
}
