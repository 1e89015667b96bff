package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-loads the config file when it changes on disk and delivers the
// fresh Config on Changes. Editors replace files rather than writing in
// place, so the watch is on the containing directory.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	changes chan Config
	done    chan struct{}
}

// Watch starts watching path. The caller must Close the watcher.
func Watch(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		path:    path,
		fsw:     fsw,
		changes: make(chan Config, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers reloaded configs. Failed reloads are dropped silently;
// the previous config simply stays in effect.
func (w *Watcher) Changes() <-chan Config {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	// Debounce: editors fire several events per save.
	var pending *time.Timer
	reload := func() {
		cfg, err := Load(w.path)
		if err != nil {
			return
		}
		select {
		case w.changes <- cfg:
		default:
			// A previous change is still unconsumed; drop the older one.
			select {
			case <-w.changes:
			default:
			}
			w.changes <- cfg
		}
	}

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(100*time.Millisecond, reload)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}
