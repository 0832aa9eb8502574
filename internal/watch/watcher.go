// Package watch reports clips as they land in a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a clip must stay unchanged before it is reported
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports new or rewritten clips in a directory once their writes settle
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	suffix   string
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
	done    chan struct{}
	once    sync.Once
}

// New creates a watcher for clips with extension ext in dir
func New(dir, ext string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch dir: %s is not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		watcher:  fw,
		dir:      dir,
		suffix:   "." + strings.TrimPrefix(strings.ToLower(ext), "."),
		debounce: debounce,
		logger:   logger.Named("watch"),
		pending:  make(map[string]*time.Timer),
		ready:    make(chan string),
		done:     make(chan struct{}),
	}, nil
}

// Run calls handle for every settled clip until ctx is done.
// handle runs on the Run goroutine, one clip at a time.
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	defer w.stop()

	w.logger.Info("watching", zap.String("dir", w.dir), zap.String("ext", w.suffix))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case path := <-w.ready:
			if _, err := os.Stat(path); err != nil {
				continue
			}
			handle(path)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.isClip(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[event.Name]; ok {
		t.Stop()
	}

	path := event.Name
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-ctx.Done():
		case <-w.done:
		}
	})

	w.logger.Debug("clip changed", zap.String("clip", path), zap.String("op", event.Op.String()))
}

func (w *Watcher) isClip(path string) bool {
	if !strings.HasSuffix(strings.ToLower(path), w.suffix) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (w *Watcher) stop() {
	w.once.Do(func() { close(w.done) })

	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	_ = w.watcher.Close()
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	return filepath.Clean(w.dir)
}
