package gamedata

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ubuntunux/stoneage/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a game-data file when it changes on disk. Successfully
// loaded libraries arrive on Libraries; load and watch failures on Errors.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *zap.Logger

	Libraries chan *Library
	Errors    chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching path. The parent directory is watched so
// editors that save by rename still trigger a reload.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("gamedata: watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("gamedata: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("gamedata: watch %s: %w", path, err)
	}

	w := &Watcher{
		path:      abs,
		debounce:  debounce,
		watcher:   fw,
		log:       logger.Named("gamedata"),
		Libraries: make(chan *Library, 1),
		Errors:    make(chan error, 1),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. The output channels are closed once the
// watch goroutine exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Libraries)
		close(w.Errors)
		close(w.done)
	}()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			lib, err := Load(w.path)
			if err != nil {
				w.log.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
				w.send(w.Errors, err)
				continue
			}
			w.log.Info("game data reloaded", zap.String("path", w.path))
			w.sendLibrary(lib)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(w.Errors, err)

		case <-w.closeCh:
			timer.Stop()
			return
		}
	}
}

// sendLibrary keeps only the newest library when the consumer lags.
func (w *Watcher) sendLibrary(lib *Library) {
	for {
		select {
		case w.Libraries <- lib:
			return
		case <-w.closeCh:
			return
		default:
		}
		select {
		case <-w.Libraries:
		default:
		}
	}
}

func (w *Watcher) send(ch chan error, err error) {
	select {
	case ch <- err:
	default:
		w.log.Debug("dropped watcher error", zap.Error(err))
	}
}
