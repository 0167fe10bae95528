package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchDebounce is the window in which repeated events for one file collapse
// into a single notification. Editors usually write a file several times per
// save.
var WatchDebounce = 100 * time.Millisecond

// Watcher reports the paths of scene, spec and script files that changed under
// the watched directories.
type Watcher struct {
	fs     *fsnotify.Watcher
	logger *zap.Logger

	Events chan string
	Errors chan error

	closing chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches each directory in dirs. A nil logger discards logs.
func NewWatcher(logger *zap.Logger, dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		fs:      fw,
		logger:  logger,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and closes Events and Errors. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closing)
		err = w.fs.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	seen := make(map[string]time.Time)
	for {
		select {
		case <-w.closing:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			now := time.Now()
			if at, ok := seen[ev.Name]; ok && now.Sub(at) < WatchDebounce {
				continue
			}
			seen[ev.Name] = now
			w.logger.Debug("prefab changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			select {
			case w.Events <- ev.Name:
			case <-w.closing:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				w.logger.Warn("prefab watcher error dropped", zap.Error(err))
			}
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".yaml", ".yml", ".tengo":
		return true
	}
	return false
}
