package manifest

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/moby/patternmatcher"
	"github.com/spf13/afero"

	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/handlers"
	"github.com/arthur-debert/actionreg/pkg/host"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// Discovery finds manifests in a list of directories and builds plugins
// from them. It is the host.Source used by the watcher.
type Discovery struct {
	fs       afero.Fs
	paths    []string
	exts     []string
	ignore   *patternmatcher.PatternMatcher
	handlers *handlers.Set
}

// NewDiscovery creates a discovery over dirs. Files whose name relative to
// their directory matches one of the ignore patterns (.dockerignore syntax)
// are skipped. A nil exts means DefaultExtensions.
func NewDiscovery(fs afero.Fs, dirs, exts, ignore []string, set *handlers.Set) (*Discovery, error) {
	pm, err := patternmatcher.New(ignore)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid manifest ignore pattern").
			WithDetail("patterns", ignore)
	}
	if exts == nil {
		exts = DefaultExtensions
	}
	normalized := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	exts = normalized

	return &Discovery{
		fs:       fs,
		paths:    dirs,
		exts:     exts,
		ignore:   pm,
		handlers: set,
	}, nil
}

// Dirs implements host.Source
func (d *Discovery) Dirs() []string {
	return d.paths
}

// Accept implements host.Source
func (d *Discovery) Accept(path string) bool {
	if !hasExt(path, d.exts) {
		return false
	}
	for _, dir := range d.paths {
		rel, err := filepath.Rel(dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return !d.ignored(rel)
	}
	return false
}

// Discover implements host.Source. Missing directories are skipped.
func (d *Discovery) Discover() ([]string, error) {
	var files []string
	for _, dir := range d.paths {
		found, err := listDir(d.fs, dir, d.exts, d.ignored)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// Load implements host.Source
func (d *Discovery) Load(path string) (*host.Plugin, error) {
	m, err := Load(d.fs, path)
	if err != nil {
		return nil, err
	}
	return Build(m, d.handlers)
}

// LoadAll builds a plugin from every discovered manifest
func (d *Discovery) LoadAll() ([]*host.Plugin, error) {
	files, err := d.Discover()
	if err != nil {
		return nil, err
	}
	plugins := make([]*host.Plugin, 0, len(files))
	for _, file := range files {
		p, err := d.Load(file)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func (d *Discovery) ignored(rel string) bool {
	matched, err := d.ignore.MatchesOrParentMatches(filepath.ToSlash(rel))
	return err == nil && matched
}

func listDir(fs afero.Fs, dir string, exts []string, skip func(rel string) bool) ([]string, error) {
	logger := logging.GetLogger("manifest")
	if exts == nil {
		exts = DefaultExtensions
	}

	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestLoad, "failed to stat manifest directory").
			WithDetail("dir", dir)
	}
	if !exists {
		logger.Debug().Str("dir", dir).Msg("Manifest directory does not exist, skipping")
		return nil, nil
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestLoad, "failed to read manifest directory").
			WithDetail("dir", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name(), exts) {
			continue
		}
		if skip != nil && skip(entry.Name()) {
			logger.Trace().Str("file", entry.Name()).Msg("Manifest ignored")
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
