package settings

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dang-lang/dang-extension/internal/host"
)

// Event reports a change to a settings file.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string

	// Time is when the change was observed.
	Time time.Time
}

// Handler is called when a settings file changes.
type Handler func(Event)

// Watcher monitors a worktree's settings layers for changes and
// notifies subscribers so they can re-resolve. The store itself never
// caches, so the watcher exists purely for hosts that want to push
// updated configuration to a running server.
type Watcher struct {
	fsw      *fsnotify.Watcher
	handler  Handler
	debounce time.Duration

	pendingMu sync.Mutex
	pending   map[string]*time.Timer

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period applied per file before the
// handler fires. Default 100ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watch starts watching the settings layers for the given worktree.
// Layer directories that do not exist yet are skipped. The returned
// watcher runs until Close is called.
func (s *Store) Watch(wt host.Worktree, handler Handler, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		handler:  handler,
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	watched := 0
	for _, dir := range s.LayerDirs(wt) {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
		watched++
	}
	log.Debugf("watching %d settings layer(s)", watched)

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
		w.wg.Wait()

		w.pendingMu.Lock()
		for _, timer := range w.pending {
			timer.Stop()
		}
		w.pending = nil
		w.pendingMu.Unlock()
	})
	return err
}

// loop consumes fsnotify events until the watcher is closed.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !isSettingsFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ev.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warningf("settings watch error: %s", err.Error())
		}
	}
}

// schedule arms (or re-arms) the debounce timer for a path.
func (w *Watcher) schedule(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if w.pending == nil {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.pendingMu.Lock()
		delete(w.pending, path)
		w.pendingMu.Unlock()

		w.handler(Event{Path: path, Time: time.Now()})
	})
}

// isSettingsFile reports whether path names one of the recognized
// settings files.
func isSettingsFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range fileNames {
		if base == name {
			return true
		}
	}
	return false
}
