// Package watch reports changes made to the settings store by other processes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"aisettings/config/models"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events produced by one atomic write
const DefaultDebounce = 100 * time.Millisecond

// Source reads the persisted settings
type Source interface {
	Get(ctx context.Context) (models.Config, error)
}

// Change is delivered when the persisted record differs from the last one seen
type Change struct {
	Version  int64
	Previous models.Config
	Current  models.Config
}

// Options configures a Watcher
type Options struct {
	// Path of the store file; its directory is watched
	Path     string
	Source   Source
	OnChange func(Change)
	Debounce time.Duration
	Logger   *log.Logger
}

type Watcher struct {
	opts Options

	mu      sync.RWMutex
	current models.Config
	version int64
	loaded  bool

	debounceMu sync.Mutex
	debouncer  *time.Timer
}

// New validates opts and returns an idle Watcher
func New(opts Options) (*Watcher, error) {
	if opts.Path == "" {
		return nil, errors.New("watch path cannot be empty")
	}
	if opts.Source == nil {
		return nil, errors.New("watch source is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Watcher{opts: opts}, nil
}

// Current returns the last record read and its version
func (w *Watcher) Current() (models.Config, int64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current, w.version
}

// Reload reads the store now and reports a change if the record differs
func (w *Watcher) Reload(ctx context.Context) error {
	cfg, err := w.opts.Source.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload settings: %w", err)
	}

	w.mu.Lock()
	if w.loaded && cfg == w.current {
		w.mu.Unlock()
		return nil
	}
	first := !w.loaded
	change := Change{Version: w.version + 1, Previous: w.current, Current: cfg}
	w.current = cfg
	w.version = change.Version
	w.loaded = true
	w.mu.Unlock()

	w.opts.Logger.Printf("settings loaded: provider=%s, version=%d", cfg.APIProvider, change.Version)
	if !first && w.opts.OnChange != nil {
		w.opts.OnChange(change)
	}
	return nil
}

// Run watches until ctx is done. The initial record is read before watching
// starts and is not reported as a change.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Reload(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.opts.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.opts.Logger.Printf("watching settings directory: %s", dir)

	defer w.stopDebounce()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.debouncedReload(ctx)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Println("watcher error:", err)
		case <-ctx.Done():
			return nil
		}
	}
}

// relevant keeps writes, creates and renames of the store file and its
// SQLite side files
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	target := filepath.Clean(w.opts.Path)
	return name == target || strings.HasPrefix(name, target+"-")
}

func (w *Watcher) debouncedReload(ctx context.Context) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debouncer != nil {
		w.debouncer.Stop()
	}
	w.debouncer = time.AfterFunc(w.opts.Debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.Reload(ctx); err != nil {
			w.opts.Logger.Printf("failed to reload settings: %v", err)
		}
	})
}

func (w *Watcher) stopDebounce() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if w.debouncer != nil {
		w.debouncer.Stop()
	}
}
