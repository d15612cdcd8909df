package hotreload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/voidwalk/vulkn/engine/core"
	"github.com/voidwalk/vulkn/engine/shader"
	"golang.org/x/exp/maps"
)

// ChangeCallback is invoked from the watcher goroutine for every accepted
// shader change. Implementations must not touch GPU state; the intended body
// is a single queue push.
type ChangeCallback func(path string, stage shader.Stage) error

// Watcher observes a shader directory recursively and delivers debounced,
// stage-classified change notifications.
type Watcher struct {
	cfg Config

	fs   *fsnotify.Watcher
	done chan struct{}

	cbMu     sync.Mutex
	callback ChangeCallback

	timesMu sync.Mutex
	times   map[string]time.Time

	enabled atomic.Bool
	// Serializes overlapping OS notifications; an event arriving while a
	// previous one is still being handled is skipped, not queued.
	processing atomic.Bool

	closeOnce sync.Once
}

// NewWatcher registers a recursive watch on cfg.Dir when cfg.Enabled and
// scans the directory so pre-existing files are not reported as changed on
// their first event. A failed OS registration wraps ErrWatcherInit.
func NewWatcher(cfg Config) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherInit, err)
	}

	w := &Watcher{
		cfg:   cfg,
		fs:    fs,
		done:  make(chan struct{}),
		times: make(map[string]time.Time),
	}
	w.enabled.Store(cfg.Enabled)

	if cfg.Enabled {
		if err := w.watchTree(cfg.Dir); err != nil {
			fs.Close()
			return nil, fmt.Errorf("%w: %v", ErrWatcherInit, err)
		}
		w.scan()
		core.LogInfo("watching shader directory: %s", cfg.Dir)
	}

	go w.run()

	return w, nil
}

// SetChangeCallback installs the single change observer. Safe to call while
// events are flowing.
func (w *Watcher) SetChangeCallback(cb ChangeCallback) {
	w.cbMu.Lock()
	defer w.cbMu.Unlock()
	w.callback = cb
}

// SetEnabled toggles the directory subscription. Re-enabling re-scans the
// directory so the time the watcher spent disabled produces no stale
// "false changes".
func (w *Watcher) SetEnabled(enabled bool) error {
	if w.enabled.Load() == enabled {
		return nil
	}

	if enabled {
		core.LogInfo("enabling hot shader reload")
		if err := w.watchTree(w.cfg.Dir); err != nil {
			return fmt.Errorf("%w: %v", ErrWatcherInit, err)
		}
		w.scan()
	} else {
		core.LogInfo("disabling hot shader reload")
		w.unwatchTree(w.cfg.Dir)
	}

	w.enabled.Store(enabled)
	return nil
}

// IsEnabled reports whether automatic change detection is active.
func (w *Watcher) IsEnabled() bool {
	return w.enabled.Load()
}

// Stats returns the number of tracked files and the enabled flag.
func (w *Watcher) Stats() (int, bool) {
	w.timesMu.Lock()
	n := len(w.times)
	w.timesMu.Unlock()
	return n, w.enabled.Load()
}

// Close stops the event goroutine and releases the OS watch.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
	})
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.enabled.Load() {
				continue
			}
			if !w.processing.CompareAndSwap(false, true) {
				core.LogDebug("file event processing already in progress, skipping")
				continue
			}
			w.handleEvent(e)
			w.processing.Store(false)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			core.LogError("file watcher error: %s", err.Error())

		case <-w.done:
			w.fs.Close()
			return
		}
	}
}

func (w *Watcher) handleEvent(e fsnotify.Event) {
	if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	// New subdirectories join the watch.
	if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
		if e.Op&fsnotify.Create != 0 {
			if err := w.watchTree(e.Name); err != nil {
				core.LogWarn("failed to watch new directory %s: %s", e.Name, err.Error())
			}
		}
		return
	}

	w.handlePath(e.Name)
}

// handlePath runs the accept/debounce/classify decision for one path and
// fires the callback on acceptance.
func (w *Watcher) handlePath(path string) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !w.cfg.watchesExtension(ext) {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		// Editors often delete and recreate on save; a vanished file is
		// not an error, just a spurious intermediate event.
		return
	}

	if !w.accept(path, info.ModTime()) {
		return
	}

	stage, err := shader.StageFromPath(path)
	if err != nil {
		core.LogWarn("ignoring file with unsupported shader extension: %s", path)
		return
	}

	if !w.cfg.stageAllowed(stage) {
		core.LogDebug("skipping reload for disabled shader stage: %s (%s)", path, stage)
		return
	}

	if w.cfg.LogEvents {
		core.LogInfo("shader file changed: %s (%s)", path, stage)
	}

	w.cbMu.Lock()
	cb := w.callback
	w.cbMu.Unlock()
	if cb == nil {
		return
	}
	if err := cb(path, stage); err != nil {
		core.LogError("failed to handle shader change for %s: %s", path, err.Error())
	}
}

// accept applies the debounce rule: a path is reprocessed only when its new
// modification time is at least the debounce interval past the stored one,
// or the path has never been seen. The table is updated before the caller
// invokes the callback, preventing reentrant duplicate processing.
func (w *Watcher) accept(path string, modTime time.Time) bool {
	w.timesMu.Lock()
	defer w.timesMu.Unlock()

	last, seen := w.times[path]
	if seen && modTime.Sub(last) < w.cfg.Debounce {
		return false
	}
	w.times[path] = modTime
	return true
}

// watchTree adds path and every subdirectory beneath it to the watch.
func (w *Watcher) watchTree(root string) error {
	return filepath.Walk(root, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.fs.Add(walkPath)
		}
		return nil
	})
}

func (w *Watcher) unwatchTree(root string) {
	_ = filepath.Walk(root, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			_ = w.fs.Remove(walkPath)
		}
		return nil
	})
}

// scan rebuilds the timestamp table from the current directory contents.
func (w *Watcher) scan() {
	w.timesMu.Lock()
	defer w.timesMu.Unlock()

	maps.Clear(w.times)

	err := filepath.Walk(w.cfg.Dir, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(walkPath), "."))
		if w.cfg.watchesExtension(ext) {
			w.times[walkPath] = info.ModTime()
		}
		return nil
	})
	if err != nil {
		core.LogWarn("shader directory scan failed: %s", err.Error())
		return
	}

	core.LogInfo("initialized timestamps for %d shader files", len(w.times))
}
