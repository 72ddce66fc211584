package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/tfdriver/internal/logfields"
)

// stateWatcher reloads the driver's state snapshot when the state file
// changes out-of-band, e.g. a colleague applying from their own machine
// against the same local state.
type stateWatcher struct {
	statePath string
	reload    func() error
	logger    *slog.Logger
	watcher   *fsnotify.Watcher
	debounce  time.Duration
}

func newStateWatcher(statePath string, reload func() error, logger *slog.Logger) (*stateWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create state watcher: %w", err)
	}
	absPath, err := filepath.Abs(statePath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("resolve state path: %w", err)
	}
	return &stateWatcher{
		statePath: absPath,
		reload:    reload,
		logger:    logger,
		watcher:   watcher,
		debounce:  2 * time.Second,
	}, nil
}

// start watches the directory containing the state file; watching the
// directory survives the rename-over-write pattern terraform uses.
func (w *stateWatcher) start(ctx context.Context) error {
	dir := filepath.Dir(w.statePath)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch state directory %s: %w", dir, err)
	}
	w.logger.Info("Watching state file", logfields.Path(w.statePath))
	go w.loop(ctx)
	return nil
}

func (w *stateWatcher) loop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.statePath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.logger.Debug("State file changed, reloading", logfields.Path(w.statePath))
			if err := w.reload(); err != nil {
				w.logger.Warn("State reload failed", logfields.Error(err))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("State watcher error", logfields.Error(err))
		}
	}
}

func (w *stateWatcher) stop() error { return w.watcher.Close() }
