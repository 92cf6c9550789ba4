package engblog

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ContentWatcher calls onChange whenever a file under root is created,
// written, removed or renamed. Bursts of events are coalesced.
type ContentWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func()
	logger   *slog.Logger
	debounce time.Duration
	done     chan struct{}
	stopped  chan struct{}
}

// WatchContent starts watching root and every directory below it.
func WatchContent(root string, onChange func(), logger *slog.Logger) (*ContentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	cw := &ContentWatcher{
		watcher:  w,
		onChange: onChange,
		logger:   logger,
		debounce: 200 * time.Millisecond,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	if err := cw.addTree(root); err != nil {
		w.Close()
		return nil, err
	}
	go cw.loop()
	return cw, nil
}

func (cw *ContentWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return cw.watcher.Add(p)
		}
		return nil
	})
}

func (cw *ContentWatcher) loop() {
	defer close(cw.stopped)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-cw.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := cw.addTree(ev.Name); err != nil {
						cw.logger.Warn("watch new directory", "path", ev.Name, "error", err)
					}
				}
			}
			cw.logger.Debug("content changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			cw.onChange()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("content watcher", "error", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (cw *ContentWatcher) Close() error {
	close(cw.done)
	err := cw.watcher.Close()
	<-cw.stopped
	return err
}
