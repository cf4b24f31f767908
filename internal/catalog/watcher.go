package catalog

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/docnav/internal/debug"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher reports changes to the introspection files of a DirSource
type Watcher struct {
	watcher  *fsnotify.Watcher
	source   *DirSource
	onChange func()
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Watch starts watching the source directory. onChange runs on the watcher
// goroutine once a burst of matching events settles.
func (d *DirSource) Watch(ctx context.Context, onChange func()) (*Watcher, error) {
	return d.watch(ctx, defaultDebounce, onChange)
}

func (d *DirSource) watch(ctx context.Context, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(d.Dir); err != nil {
		fsw.Close()
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		watcher:  fsw,
		source:   d,
		onChange: onChange,
		debounce: debounce,
		ctx:      wctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.processEvents()

	debug.LogProvider("watching %s for %s\n", d.Dir, d.Pattern)
	return w, nil
}

// Stop ends the watch and waits for the event goroutine
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			debug.LogProvider("watcher: %v %s\n", event.Op, event.Name)
			timer.Reset(w.debounce)

		case <-timer.C:
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Catalog watcher error: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.source.matches(filepath.Base(event.Name))
}
