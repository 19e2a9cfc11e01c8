// Package watcher watches the posts directory with fsnotify and reports debounced changes.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before onChange fires.
const DefaultDebounce = 400 * time.Millisecond

// Watcher watches one flat directory for documents with a given extension.
type Watcher struct {
	dir         string
	extension   string
	onChange    func(path string)
	onRemove    func(path string)
	debounce    time.Duration
	watcher     *fsnotify.Watcher
	mu          sync.Mutex
	debounceMap map[string]*time.Timer
	done        chan struct{}
	started     bool
	stopOnce    sync.Once
	logger      *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for dir. onChange runs after a create or write settles;
// onRemove runs when a document is removed or renamed away. Either may be nil.
func New(dir, extension string, onChange, onRemove func(path string), opts ...Option) *Watcher {
	w := &Watcher{
		dir:         filepath.Clean(dir),
		extension:   extension,
		onChange:    onChange,
		onRemove:    onRemove,
		debounce:    DefaultDebounce,
		debounceMap: make(map[string]*time.Timer),
		done:        make(chan struct{}),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Start creates the directory if needed and begins watching. It runs until
// ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return err
	}
	w.watcher = fw
	w.started = true
	w.logger.Debug("watcher starting", zap.String("dir", w.dir), zap.String("extension", w.extension))
	go w.run(ctx, fw)
	return nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name
	if filepath.Dir(filepath.Clean(path)) != w.dir || !w.matches(path) {
		return
	}
	w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancelDebounce(path)
		if w.onRemove != nil {
			w.onRemove(path)
		}
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return
		}
		w.debounceChange(path)
	}
}

func (w *Watcher) matches(path string) bool {
	return matchExtension(path, w.extension)
}

func matchExtension(path, extension string) bool {
	if extension == "" {
		return true
	}
	want := strings.TrimPrefix(strings.ToLower(extension), ".")
	got := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return want == got
}

func (w *Watcher) debounceChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounceMap[path]; ok {
		t.Stop()
	}
	w.debounceMap[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.debounceMap, path)
		w.mu.Unlock()
		w.logger.Debug("watcher change settled", zap.String("path", path))
		if w.onChange != nil {
			w.onChange(path)
		}
	})
}

func (w *Watcher) cancelDebounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounceMap[path]; ok {
		t.Stop()
		delete(w.debounceMap, path)
	}
}

// SyncExisting runs onChange for every matching file already in the
// directory, in listing order. A missing directory is a no-op.
func (w *Watcher) SyncExisting() error {
	if w.onChange == nil {
		return nil
	}
	entries, err := os.ReadDir(w.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	w.logger.Debug("watcher syncing existing files", zap.String("dir", w.dir), zap.Int("entries", len(entries)))
	for _, e := range entries {
		if e.IsDir() || !w.matches(e.Name()) {
			continue
		}
		w.onChange(filepath.Join(w.dir, e.Name()))
	}
	return nil
}

// Stop stops the watcher and drops pending changes.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	for path, t := range w.debounceMap {
		t.Stop()
		delete(w.debounceMap, path)
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
