package app

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher reports changes to a single file. The parent directory is
// watched so that editors which replace the file on save are followed.
type FileWatcher struct {
	mu       sync.Mutex
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)
	stopCh   chan struct{}
	log      zerolog.Logger
}

// NewFileWatcher creates a watcher. Bursts of events within debounce are
// reported once.
func NewFileWatcher(debounce time.Duration, log zerolog.Logger) *FileWatcher {
	return &FileWatcher{
		debounce: debounce,
		log:      Component(log, "watch"),
	}
}

// OnChange sets the callback invoked after the watched file was written or
// recreated. It runs on the watcher goroutine.
func (w *FileWatcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Path returns the watched file, or "" when idle.
func (w *FileWatcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Watch starts watching path, replacing any previous file.
func (w *FileWatcher) Watch(path string) error {
	w.Stop()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return err
	}

	w.mu.Lock()
	w.path = abs
	w.watcher = fw
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	w.log.Debug().Str("path", abs).Msg("watching")
	go w.watchLoop(fw, abs, stopCh)
	return nil
}

// Stop stops watching. It is safe to call when idle.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return
	}
	close(w.stopCh)
	w.watcher.Close()
	w.watcher = nil
	w.path = ""
}

func (w *FileWatcher) watchLoop(fw *fsnotify.Watcher, path string, stopCh chan struct{}) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-stopCh:
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-fire:
			fire = nil
			w.mu.Lock()
			callback := w.onChange
			w.mu.Unlock()
			if callback != nil {
				callback(path)
			}
		}
	}
}
