package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/pickstorm/internal/log"
)

// ReloadHandler receives the freshly loaded configuration after a change.
type ReloadHandler func(cfg Config)

// Watcher watches a config file and invokes a reload handler when it
// changes. The watch is placed on the file's directory so editor-style
// atomic saves (write temp, rename over) are still observed.
type Watcher struct {
	path     string
	onReload ReloadHandler
	logger   *log.Logger

	debounce time.Duration

	mu      sync.Mutex
	fw      *fsnotify.Watcher
	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadDebounce sets the quiet period before a reload fires.
func WithReloadDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *log.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(path string, onReload ReloadHandler, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		onReload: onReload,
		logger:   log.Default().WithComponent("config-watcher"),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. Returns an error if already running or if the
// config directory cannot be watched.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("config watcher already running")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	w.fw = fw
	w.done = make(chan struct{})
	w.running = true

	w.wg.Add(1)
	go w.watchLoop()

	return nil
}

// Stop ends the watch. Idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.done)
	_ = w.fw.Close()
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	reload := newDebouncer(w.debounce, w.reload)
	defer reload.cancel()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.matches(ev) {
				continue
			}
			w.logger.Debug("config file event: %s", ev.Op)
			reload.call()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error: %v", err)
		}
	}
}

func (w *Watcher) matches(ev fsnotify.Event) bool {
	if ev.Name != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("config reload failed: %v", err)
		return
	}
	w.logger.Info("config reloaded from %s", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
