// Package watch reports changes to a fixed set of files.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches the parent directories of its files, so editors that
// replace a file instead of writing it in place are still seen.
type Watcher struct {
	Debounce time.Duration
	Logger   *slog.Logger

	fsw   *fsnotify.Watcher
	files map[string]string // cleaned absolute path -> path as given
}

// New starts watching paths. The files do not need to exist yet but their
// directories do.
func New(paths []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		Debounce: DefaultDebounce,
		fsw:      fsw,
		files:    make(map[string]string, len(paths)),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = p

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls onChange for each watched file that was written or created,
// once per burst of events. Calls are sequential, in path order within a
// burst. Run returns nil when ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	log := w.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			orig, watched := w.files[filepath.Clean(event.Name)]
			if !watched {
				continue
			}

			log.Debug("file changed", slog.String("file", orig), slog.String("op", event.Op.String()))
			pending[orig] = true
			timer.Reset(debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			for _, p := range changed {
				if ctx.Err() != nil {
					return nil
				}
				onChange(p)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}

// Watch watches paths until ctx is done, reporting changes to onChange.
func Watch(ctx context.Context, paths []string, logger *slog.Logger, onChange func(path string)) error {
	w, err := New(paths)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	w.Logger = logger
	return w.Run(ctx, onChange)
}
