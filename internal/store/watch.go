package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the project file when another tool writes it, so a
// long-lived view sees calendar edits made by the calendar
// administration flow without reopening the project.
type Watcher struct {
	fs      *FileStore
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// Watch starts watching the store's file. Stop with Close.
func (fs *FileStore) Watch() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// Watch the directory: atomic writes replace the file by rename,
	// which drops a watch registered on the file itself.
	if err := fw.Add(filepath.Dir(fs.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch project dir: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{fs: fs, watcher: fw, cancel: cancel, done: make(chan struct{})}
	go w.loop(ctx)
	return w, nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	base := filepath.Base(w.fs.path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			// Skip our own temp files.
			if strings.HasPrefix(filepath.Base(event.Name), ".gantt-tmp-") {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if err := w.fs.Reload(); err != nil {
					w.fs.logger.Printf("store: reload after %s: %v", event.Op, err)
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.fs.logger.Printf("store: fsnotify error=%v", err)
		}
	}
}

// Close stops the watch loop.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	<-w.done
	return err
}
