package host

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// DefaultDebounce is how long the watcher waits for events to settle
const DefaultDebounce = 200 * time.Millisecond

// Source finds and loads plugin files
type Source interface {
	// Dirs are the directories to watch
	Dirs() []string

	// Discover lists the plugin files currently present
	Discover() ([]string, error)

	// Accept reports whether path looks like a plugin file
	Accept(path string) bool

	// Load reads the plugin stored at path
	Load(path string) (*Plugin, error)
}

// Watcher activates plugins as their files appear, reactivates them when
// they change and deactivates them when they are removed.
type Watcher struct {
	host     *Host
	source   Source
	debounce time.Duration
	onChange func()

	mu     sync.Mutex
	loaded map[string]string // file -> plugin name

	logger zerolog.Logger
}

// NewWatcher creates a watcher. onChange, if set, is called after each
// reconciliation that changed something.
func NewWatcher(host *Host, source Source, debounce time.Duration, onChange func()) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		host:     host,
		source:   source,
		debounce: debounce,
		onChange: onChange,
		loaded:   make(map[string]string),
		logger:   logging.GetLogger("host.watcher"),
	}
}

// Sync loads every plugin file present and unloads the ones that are gone
func (w *Watcher) Sync() error {
	files, err := w.source.Discover()
	if err != nil {
		return err
	}

	w.mu.Lock()
	paths := make(map[string]struct{}, len(files)+len(w.loaded))
	for file := range w.loaded {
		paths[file] = struct{}{}
	}
	w.mu.Unlock()
	for _, file := range files {
		paths[filepath.Clean(file)] = struct{}{}
	}

	w.apply(paths, files)
	return nil
}

// Run watches the source directories until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrManifestLoad, "failed to start file watcher")
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.source.Dirs() {
		if err := fw.Add(dir); err != nil {
			return errors.Wrapf(err, errors.ErrManifestLoad, "failed to watch %s", dir).
				WithDetail("dir", dir)
		}
		w.logger.Debug().Str("dir", dir).Msg("Watching plugin directory")
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.source.Accept(event.Name) {
				continue
			}
			w.logger.Trace().Str("file", event.Name).Str("op", event.Op.String()).Msg("fsnotify event")
			pending[filepath.Clean(event.Name)] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")

		case <-timer.C:
			files, err := w.source.Discover()
			if err != nil {
				w.logger.Warn().Err(err).Msg("Plugin discovery failed")
				continue
			}
			w.apply(pending, files)
			pending = make(map[string]struct{})
		}
	}
}

// Loaded maps plugin files to the names of the plugins loaded from them
func (w *Watcher) Loaded() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]string, len(w.loaded))
	for k, v := range w.loaded {
		out[k] = v
	}
	return out
}

func (w *Watcher) apply(paths map[string]struct{}, present []string) {
	exists := make(map[string]struct{}, len(present))
	for _, file := range present {
		exists[filepath.Clean(file)] = struct{}{}
	}

	sorted := make([]string, 0, len(paths))
	for file := range paths {
		sorted = append(sorted, file)
	}
	sort.Strings(sorted)

	w.mu.Lock()
	changed := false
	for _, file := range sorted {
		if _, ok := exists[file]; ok {
			changed = w.reload(file) || changed
		} else {
			changed = w.unload(file) || changed
		}
	}
	w.mu.Unlock()

	if changed && w.onChange != nil {
		w.onChange()
	}
}

func (w *Watcher) reload(file string) bool {
	p, err := w.source.Load(file)
	if err != nil {
		w.logger.Warn().Err(err).Str("file", file).Msg("Plugin not loaded, keeping previous state")
		return false
	}

	for other, name := range w.loaded {
		if name == p.Name && other != file {
			w.logger.Warn().
				Str("file", file).
				Str("plugin", p.Name).
				Str("owner", other).
				Msg("Plugin name already loaded from another file")
			return false
		}
	}

	// A renamed plugin leaves its old name behind
	if prev, ok := w.loaded[file]; ok && prev != p.Name {
		return w.rename(file, prev, p)
	}

	if err := w.host.Replace(p); err != nil {
		w.logger.Warn().Err(err).Str("file", file).Str("plugin", p.Name).Msg("Plugin activation failed")
		return false
	}
	w.loaded[file] = p.Name
	return true
}

// rename swaps the plugin loaded from file for p, which has a new name.
// The old plugin is reactivated when p cannot be activated.
func (w *Watcher) rename(file, prev string, p *Plugin) bool {
	old, _ := w.host.Plugin(prev)
	w.host.Deactivate(prev)

	err := w.host.Replace(p)
	if err == nil {
		w.loaded[file] = p.Name
		return true
	}
	w.logger.Warn().Err(err).Str("file", file).Str("plugin", p.Name).Msg("Plugin activation failed, keeping previous state")

	if old == nil {
		delete(w.loaded, file)
		return true
	}
	if restoreErr := w.host.Activate(old); restoreErr != nil {
		w.logger.Error().Err(restoreErr).Str("file", file).Str("plugin", prev).Msg("Failed to restore previous plugin")
		delete(w.loaded, file)
		return true
	}
	return false
}

func (w *Watcher) unload(file string) bool {
	name, ok := w.loaded[file]
	if !ok {
		return false
	}
	delete(w.loaded, file)
	return w.host.Deactivate(name)
}
