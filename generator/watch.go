package generator

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/teranos/partialdefault/errors"
	"go.uber.org/zap"
)

// RegenerateFunc is called after a debounced burst of source changes.
type RegenerateFunc func(ctx context.Context) error

// Watcher regenerates when Go sources in the watched directories change.
type Watcher struct {
	watcher        *fsnotify.Watcher
	regenerate     RegenerateFunc
	suffix         string
	debouncePeriod time.Duration
	log            *zap.SugaredLogger
}

// NewWatcher watches dirs. Changes to files ending in suffix are the
// generator's own writes and are ignored.
func NewWatcher(dirs []string, suffix string, regenerate RegenerateFunc, log *zap.SugaredLogger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Watcher{
		watcher:        watcher,
		regenerate:     regenerate,
		suffix:         suffix,
		debouncePeriod: 300 * time.Millisecond,
		log:            log,
	}, nil
}

// SetDebounce changes the quiet period that must pass before regenerating.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debouncePeriod = d
}

// Run watches until ctx is done, then closes the watcher.
// Regeneration errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debouncePeriod)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Source change detected",
				"file", event.Name,
				"op", event.Op.String())
			timer.Reset(w.debouncePeriod)

		case <-timer.C:
			if err := w.regenerate(ctx); err != nil {
				w.log.Errorw("Regeneration failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", "error", err)
		}
	}
}

// relevant reports whether event concerns a hand-written Go source file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}
	if w.suffix != "" && strings.HasSuffix(name, w.suffix) {
		return false
	}
	// Editor swap and backup files
	return !strings.HasPrefix(name, ".") && !strings.HasSuffix(name, "~")
}
