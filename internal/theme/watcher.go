package theme

import (
	"context"
	"log/slog"
	"sync"

	dark "github.com/thiagokokada/dark-mode-go"
)

// Watcher forwards OS appearance changes as theme names.
type Watcher struct {
	changeCh  chan string
	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewWatcher starts watching the OS appearance. It returns nil when the
// platform offers no notifications.
func NewWatcher(parent context.Context) *Watcher {
	ctx, cancel := context.WithCancel(parent)

	events, errs, err := dark.WatchDarkMode(ctx)
	if err != nil {
		cancel()
		themeLog.Warn("watcher_init_failed", slog.String("error", err.Error()))
		return nil
	}

	w := newWatcher()
	go w.loop(ctx, cancel, events, errs)
	return w
}

func newWatcher() *Watcher {
	return &Watcher{
		changeCh: make(chan string, 1),
		closeCh:  make(chan struct{}),
	}
}

func (w *Watcher) loop(ctx context.Context, cancel context.CancelFunc, events <-chan bool, errs <-chan error) {
	defer cancel()
	for {
		select {
		case <-w.closeCh:
			return
		case <-ctx.Done():
			return
		case isDark, ok := <-events:
			if !ok {
				return
			}
			// drop if the consumer hasn't read the previous change yet
			select {
			case w.changeCh <- FromDark(isDark):
			default:
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				themeLog.Warn("watcher_error", slog.String("error", err.Error()))
			}
		}
	}
}

// Changes receives the new theme name on every OS change
func (w *Watcher) Changes() <-chan string {
	return w.changeCh
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.closeCh)
	})
}
