package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"quotedesk/internal/domain"
	"quotedesk/internal/eventbus"
)

// reloadDelay coalesces the burst of events editors emit on save
const reloadDelay = 150 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	svc      ConfigService
	bus      eventbus.EventBus
	watcher  *fsnotify.Watcher
	onReload func(*Config)

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches the directory of svc.Path(). The directory is watched
// rather than the file because editors replace files by rename.
// onReload runs on the watcher goroutine with the freshly loaded config.
func NewWatcher(svc ConfigService, bus eventbus.EventBus, onReload func(*Config)) (*Watcher, error) {
	dir := filepath.Dir(svc.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		svc:      svc,
		bus:      bus,
		watcher:  fw,
		onReload: onReload,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start runs the event loop. Call it in a goroutine.
func (w *Watcher) Start() {
	target := filepath.Clean(w.svc.Path())
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			cfgLog.Warn("config_watcher_error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDelay, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	cfg, err := w.svc.LoadFromPath(w.svc.Path())
	if err != nil {
		cfgLog.Warn("config_reload_failed", slog.String("error", err.Error()))
		return
	}
	ApplyEnv(cfg)
	cfgLog.Info("config_reloaded", slog.String("path", w.svc.Path()))

	if w.onReload != nil {
		w.onReload(cfg)
	}
	if w.bus != nil {
		w.bus.Publish(domain.ConfigChangedEvent{Path: w.svc.Path()})
	}
}

// Stop shuts down the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.cancel()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	_ = w.watcher.Close()
}
