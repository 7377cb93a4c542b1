package knowledge

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	apperrors "medibot/internal/common/errors"
	"medibot/internal/common/logger"
)

// Watcher reloads a Store when one of its knowledge files changes.
// Directories are watched rather than files so that editors which replace a
// file by rename are still seen.
type Watcher struct {
	store   *Store
	files   map[string]struct{}
	dirs    []string
	delay   time.Duration
	watcher *fsnotify.Watcher
	log     logger.Logger

	// OnReload, if set, is called after every debounced reload.
	OnReload func(*Snapshot)

	timer   *time.Timer
	timerMu sync.Mutex

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher watches files and calls store.Reload at most once per delay.
func NewWatcher(store *Store, files []string, delay time.Duration, log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, apperrors.NewKnowledgeWatchFailedError("", err)
	}

	w := &Watcher{
		store:   store,
		files:   make(map[string]struct{}, len(files)),
		delay:   delay,
		watcher: fw,
		log:     log,
		stopCh:  make(chan struct{}),
	}

	seenDirs := make(map[string]struct{})
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, apperrors.NewKnowledgeWatchFailedError(f, err)
		}
		w.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := seenDirs[dir]; !ok {
			seenDirs[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Start begins watching. It fails if none of the directories can be watched.
func (w *Watcher) Start() error {
	added := 0
	var lastErr error
	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			lastErr = apperrors.NewKnowledgeWatchFailedError(dir, err)
			w.log.Warn("Failed to watch knowledge directory", map[string]interface{}{
				"dir":   dir,
				"error": err,
			})
			continue
		}
		added++
	}
	if added == 0 && lastErr != nil {
		return lastErr
	}

	w.log.Info("Watching knowledge files", map[string]interface{}{
		"dirs":     w.dirs,
		"debounce": w.delay.String(),
	})

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop ends watching and cancels a pending reload.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.wg.Wait()

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerMu.Unlock()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("Knowledge watcher error", map[string]interface{}{"error": err})
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if _, ok := w.files[filepath.Clean(event.Name)]; !ok {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.stopCh:
		return
	default:
	}

	snap := w.store.Reload()
	if w.OnReload != nil {
		w.OnReload(snap)
	}
}
