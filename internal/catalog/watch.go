package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/nurye/shop/internal/debounce"
)

// reloadDelay batches the burst of events an editor save produces.
const reloadDelay = 200 * time.Millisecond

// Watcher reloads a Fixture when its file changes.
type Watcher struct {
	fixture  *Fixture
	watcher  *fsnotify.Watcher
	timer    *debounce.Timer
	logger   *zap.Logger
	onReload func()

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// WatchFixture starts watching the fixture's directory. onReload runs after
// each successful reload, on the watcher's goroutine.
func WatchFixture(f *Fixture, logger *zap.Logger, onReload func()) (*Watcher, error) {
	if f == nil || f.Path() == "" {
		return nil, errors.New("fixture has no backing file")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory; editors often replace the file by rename.
	if err := fw.Add(filepath.Dir(f.Path())); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(f.Path()), err)
	}

	w := &Watcher{
		fixture:  f,
		watcher:  fw,
		logger:   logger,
		onReload: onReload,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	w.timer = debounce.New(reloadDelay, func(uint64) { w.reload() })
	go w.run()
	return w, nil
}

// Stop ends the watch and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.timer.Cancel()
		if err := w.watcher.Close(); err != nil {
			w.logger.Debug("close fixture watcher", zap.Error(err))
		}
	})
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	target := filepath.Clean(w.fixture.Path())

	for {
		select {
		case <-w.stopCh:
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
			w.timer.Reset()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fixture watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	if err := w.fixture.Reload(); err != nil {
		w.logger.Warn("fixture reload failed", zap.String("path", w.fixture.Path()), zap.Error(err))
		return
	}
	w.logger.Info("fixture reloaded", zap.String("path", w.fixture.Path()))
	if w.onReload != nil {
		w.onReload()
	}
}
