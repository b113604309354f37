package reference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/signadot/cfgtree/debug"
	"github.com/signadot/cfgtree/format"
	"github.com/signadot/cfgtree/format/codecs"
	"github.com/signadot/cfgtree/ir"
)

// Reloader is what a Watcher updates.  *Reference[T] implements it.
type Reloader interface {
	Options() *ir.Options
	Reload(next *ir.Node) error
}

type watchConfig struct {
	debounce time.Duration
	codec    format.Codec
	err      error
	onError  func(error)
	onReload func()
}

type WatchOption func(*watchConfig)

// WithDebounce sets how long the file must be quiet before it is
// reloaded.  The default is 100ms.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.debounce = d
	}
}

// WithFormat reads the file as f instead of choosing by extension.
func WithFormat(f format.Format) WatchOption {
	return func(c *watchConfig) {
		c.codec, c.err = codecs.For(f)
	}
}

// WithErrorHandler sets the function receiving read, parse, reload
// and watcher errors.  Without one errors are only logged under
// CFGTREE_DEBUG_WATCH.
func WithErrorHandler(f func(error)) WatchOption {
	return func(c *watchConfig) {
		c.onError = f
	}
}

// WithReloadHandler sets a function called after each successful
// reload.
func WithReloadHandler(f func()) WatchOption {
	return func(c *watchConfig) {
		c.onReload = f
	}
}

// Watcher reloads a Reloader whenever its file changes.
type Watcher struct {
	path    string
	target  Reloader
	cfg     watchConfig
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewWatcher starts watching the directory holding path.  Editors
// often replace files rather than write them, so the directory is
// watched and events are filtered by name.  Events are not handled
// until Run is called.
func NewWatcher(target Reloader, path string, opts ...WatchOption) (*Watcher, error) {
	w := &Watcher{
		path:   filepath.Clean(path),
		target: target,
		cfg:    watchConfig{debounce: 100 * time.Millisecond},
	}
	for _, o := range opts {
		o(&w.cfg)
	}
	if w.cfg.err != nil {
		return nil, w.cfg.err
	}
	if w.cfg.codec == nil {
		c, err := codecs.ForPath(path)
		if err != nil {
			return nil, err
		}
		w.cfg.codec = c
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("could not watch %s: %w", dir, err), fw.Close())
	}
	w.watcher = fw
	return w, nil
}

// Watch watches path and reloads r on change until ctx is done.
func Watch(ctx context.Context, r Reloader, path string, opts ...WatchOption) error {
	w, err := NewWatcher(r, path, opts...)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// Run handles events until ctx is done or the watcher fails, and then
// releases the watcher.  It returns ctx.Err() on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debug.Watch() {
				debug.Logf("watch %s: %s\n", w.path, ev.Op)
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.report(fmt.Errorf("watching %s: %w", w.path, err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.debounce, w.reload)
}

func (w *Watcher) stop() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	w.watcher.Close()
}

func (w *Watcher) reload() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	d, err := os.ReadFile(w.path)
	if err != nil {
		// a rename may leave no file until the next event
		w.report(err)
		return
	}
	n := ir.NewRoot(w.target.Options())
	if err := w.cfg.codec.ParseInto(n, d); err != nil {
		w.report(fmt.Errorf("%s: %w", w.path, err))
		return
	}
	if err := w.target.Reload(n); err != nil {
		w.report(fmt.Errorf("reloading %s: %w", w.path, err))
		return
	}
	if debug.Watch() {
		debug.Logf("reloaded %s\n", w.path)
	}
	if w.cfg.onReload != nil {
		w.cfg.onReload()
	}
}

func (w *Watcher) report(err error) {
	if debug.Watch() {
		debug.Logf("watch error: %v\n", err)
	}
	if w.cfg.onError != nil {
		w.cfg.onError(err)
	}
}
