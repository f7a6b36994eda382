// Package cli holds thin plumbing for cmd/cadenzac: the parts of the CLI
// front end spec.md §1 calls an external collaborator, kept here only
// deep enough to drive pkg/compiler and pkg/emitter from a terminal.
package cli

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce batches rapid saves (editors often write a file twice per
// keystroke-triggered save) the same way the teacher's FileWatcher does.
const debounce = 300 * time.Millisecond

var ignoreDirs = map[string]bool{
	"node_modules": true, ".git": true, "build": true, "dist": true,
	"bin": true, "obj": true, ".idea": true, ".vscode": true,
}

// Watcher recompiles every .cdz file under a workspace root on write,
// generalizing the teacher's pkg/lsp/watcher.go to Cadenza's own file
// extension and this project's narrower recompile-on-save scope.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func(path string)

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// NewWatcher starts watching root recursively (skipping common build/VCS
// directories) and calls onChange, debounced, for every changed .cdz file.
func NewWatcher(root string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, onChange: onChange, pending: make(map[string]bool)}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if ignoreDirs[info.Name()] || (strings.HasPrefix(info.Name(), ".") && info.Name() != ".") {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".cdz") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule(event.Name)
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	files := make([]string, 0, len(w.pending))
	for p := range w.pending {
		files = append(files, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	for _, f := range files {
		w.onChange(f)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
