package config

import (
	"context"
	"crypto/sha1"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileDebounce is the default time to wait after a file event before
// reading, so editors that truncate and then write are seen once.
const FileDebounce = 10 * time.Millisecond

// Change is a configuration reload produced by a Watcher.
type Change struct {
	Event    fsnotify.Event
	Resolved *Resolved
	Err      error
}

// Watcher reports semantic changes to one configuration file.
//
// The parent directory is watched rather than the file so that editors
// replacing the file by rename are followed.
type Watcher struct {
	path     string
	items    []string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	changes  chan<- Change
	sum      [sha1.Size]byte
	log      *slog.Logger
	done     chan struct{}
}

// NewWatcher starts watching path, sending reloads on changes until ctx is
// done. items are command-line overrides applied to every reload. A
// negative debounce uses FileDebounce.
func NewWatcher(ctx context.Context, path string, items []string, changes chan<- Change, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if debounce < 0 {
		debounce = FileDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		path:     filepath.Clean(path),
		items:    items,
		debounce: debounce,
		watcher:  fw,
		changes:  changes,
		log:      log.With(slog.String("component", "config_watcher")),
		done:     make(chan struct{}),
	}
	if data, err := os.ReadFile(path); err == nil {
		w.sum = sha1.Sum(data)
	}
	go w.run(ctx)
	return w, nil
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} { return w.done }

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.log.LogAttrs(ctx, slog.LevelDebug, "event", slog.String("name", ev.Name), slog.String("op", ev.Op.String()))
			time.Sleep(w.debounce)

			data, err := os.ReadFile(w.path)
			if err != nil {
				w.log.LogAttrs(ctx, slog.LevelError, "read file", slog.Any("error", err))
				w.send(ctx, Change{Event: ev, Err: err})
				continue
			}
			sum := sha1.Sum(data)
			if sum == w.sum {
				w.log.LogAttrs(ctx, slog.LevelDebug, "no change", slog.String("name", ev.Name))
				continue
			}
			w.sum = sum

			f, err := Parse(data)
			if err != nil {
				w.send(ctx, Change{Event: ev, Err: err})
				continue
			}
			r, err := f.Resolve(w.path, w.items)
			w.send(ctx, Change{Event: ev, Resolved: r, Err: err})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(ctx, Change{Err: err})
		}
	}
}

func (w *Watcher) send(ctx context.Context, c Change) {
	select {
	case w.changes <- c:
	case <-ctx.Done():
	}
}
