// Package watch reports changed scenario files. Bursts of file system
// events are debounced into one batch of paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/tensorix/pkg/config"
)

// Config configures a Watcher.
type Config struct {
	// Path is a suite file or a directory watched recursively.
	Path string

	// DebounceInterval is the quiet period before a batch is delivered.
	// Default: 100ms
	DebounceInterval time.Duration

	// Extensions selects the files of interest, e.g. ".yaml".
	Extensions []string
}

// FromConfig builds a watcher configuration for path.
func FromConfig(path string, c config.WatchConfig) *Config {
	return &Config{
		Path:             path,
		DebounceInterval: c.DebounceInterval,
		Extensions:       append([]string(nil), c.Extensions...),
	}
}

// Watcher watches suite files.
type Watcher struct {
	fsw    *fsnotify.Watcher
	config *Config
	logger *slog.Logger

	// file is set when Path names a single file.
	file string

	mu      sync.Mutex
	running bool
}

// New creates a watcher. Nothing is watched until Watch is called.
func New(cfg *Config, logger *slog.Logger) (*Watcher, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("watch path is required")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = config.DefaultWatchDebounceInterval
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), config.DefaultWatchExtensions...)
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{fsw: fsw, config: cfg, logger: logger.With("component", "watch")}, nil
}

// Watch delivers batches of changed files to onChange until ctx is done.
// onChange runs on its own goroutine, never concurrently with itself.
func (w *Watcher) Watch(ctx context.Context, onChange func(paths []string)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	if err := w.add(w.config.Path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.config.Path, err)
	}

	d := NewDebouncer(w.config.DebounceInterval, onChange)
	defer d.Stop()

	w.logger.Info("watching suites",
		"path", w.config.Path,
		"debounce", w.config.DebounceInterval,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if ev.Has(fsnotify.Create) && w.file == "" {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addDirectory(ev.Name); err != nil {
						w.logger.Warn("cannot watch new directory", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("suite changed", "path", ev.Name, "op", ev.Op.String())
			d.Add(ev.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return w.addDirectory(path)
	}
	// Editors replace files on save; watch the directory and filter.
	w.file = filepath.Clean(path)
	return w.fsw.Add(filepath.Dir(w.file))
}

func (w *Watcher) addDirectory(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// relevant keeps writes and creations of suite files.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if w.file != "" {
		return name == w.file
	}
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range w.config.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
