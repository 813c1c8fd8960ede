package watch

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/registry"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when no delay is configured
const DefaultDebounce = 300 * time.Millisecond

// Watcher follows changes in the chezmoi source directory. After a burst of
// events settles it marks the registry stale and calls onChange.
type Watcher struct {
	root     string
	registry *registry.Registry
	onChange func()
	logger   zerolog.Logger

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	debounce *Debouncer
	closed   bool
	done     chan struct{}
}

// New starts watching root and every directory below it, except .git.
// registry may be nil.
func New(root string, delay time.Duration, reg *registry.Registry, onChange func()) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}

	w := &Watcher{
		root:     root,
		registry: reg,
		onChange: onChange,
		logger:   logging.GetLogger("watch").With().Str("root", root).Logger(),
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	w.debounce = NewDebouncer(delay, w.fire)

	if err := w.addTree(root); err != nil {
		return nil, stderrors.Join(err, fsw.Close())
	}

	go w.loop()
	w.logger.Debug().Dur("debounce", delay).Msg("Watching source directory")
	return w, nil
}

// Close stops watching. Pending notifications are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.debounce.Stop()
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.Wrapf(err, errors.ErrFileRead, "cannot watch %s", root).
					WithDetail(errors.DetailPath, root)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileRead, "cannot watch %s", path).
				WithDetail(errors.DetailPath, path)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", ev.Name).Msg("Failed to watch new directory")
					}
				}
			}
			w.logger.Trace().Str("op", ev.Op.String()).Str("path", ev.Name).Msg("Source changed")
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.debounce.Trigger()
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	w.logger.Debug().Msg("Source directory changed")
	if w.registry != nil {
		w.registry.Invalidate()
	}
	if w.onChange != nil {
		w.onChange()
	}
}

// ignored reports whether path lies in a .git directory or is an editor
// swap or lock file.
func ignored(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".git" {
			return true
		}
	}
	base := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".swp", ".swx", ".lock", ".tmp":
		return true
	}
	return strings.HasSuffix(base, "~") || strings.HasPrefix(base, ".#")
}
