package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/utils"
)

// ChangeFunc is called after descriptor files changed and the debounce
// period passed. Returned errors are reported; watching continues.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher regenerates fragments when descriptor files change
type Watcher struct {
	scanner     *DirectoryScanner
	diagnostics *utils.DiagnosticSystem
	debounce    time.Duration
	onChange    ChangeFunc
	onError     func(error)

	watcher   *fsnotify.Watcher
	recursive map[string]bool // watched directories whose new subdirectories are watched too

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
	trigger chan struct{}
}

// NewWatcher creates a watcher over the roots named by patterns
func NewWatcher(debounce time.Duration, onChange ChangeFunc, diagnostics *utils.DiagnosticSystem) *Watcher {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return &Watcher{
		scanner:     NewDirectoryScanner(),
		diagnostics: diagnostics,
		debounce:    debounce,
		onChange:    onChange,
		onError:     func(err error) { diagnostics.Error("%v", err) },
		recursive:   make(map[string]bool),
		pending:     make(map[string]bool),
		trigger:     make(chan struct{}, 1),
	}
}

// OnError replaces the handler for regeneration and watch errors
func (w *Watcher) OnError(handler func(error)) {
	w.onError = handler
}

// Start registers the watched directories. It must be called before Run.
func (w *Watcher) Start(patterns []string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.FileSystemErrorCode, "failed to create file watcher", err)
	}
	w.watcher = fsw

	for root, recursive := range w.scanner.WatchRoots(patterns) {
		if err := w.addRoot(root, recursive); err != nil {
			fsw.Close()
			return err
		}
	}
	return nil
}

func (w *Watcher) addRoot(root string, recursive bool) error {
	if !recursive {
		return w.add(root)
	}

	filter := utils.DefaultDirectoryFilter()
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapFileSystemError("walk", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && !filter(path, entry) {
			return filepath.SkipDir
		}
		w.recursive[path] = true
		return w.add(path)
	})
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return errors.WrapFileSystemError("watch", dir, err).
			WithSuggestion("Check that the directory exists and is readable")
	}
	w.diagnostics.Debug("watching %s", dir)
	return nil
}

// Run processes file events until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	if w.watcher == nil {
		return errors.New(errors.UnknownErrorCode, "watcher not started")
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.onError(errors.Wrap(errors.FileSystemErrorCode, "file watcher error", err))

		case <-w.trigger:
			changed := w.drainPending()
			if len(changed) == 0 {
				continue
			}
			if err := w.onChange(ctx, changed); err != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) && w.recursive[filepath.Dir(event.Name)] {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRoot(event.Name, true); err != nil {
				w.onError(err)
			}
			return
		}
	}

	if !utils.IsDescriptorFile(filepath.Base(event.Name)) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.diagnostics.Verbose("Detected %s on %s", event.Op, event.Name)
	w.schedule(event.Name)
}

// schedule records a changed file and restarts the debounce timer
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[filepath.Clean(path)] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) drainPending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	clear(w.pending)
	return sortedUnique(changed)
}

// Stop closes the underlying watcher
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}
