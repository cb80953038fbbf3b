package manifest

import (
	"encoding/json"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// Manifest describes one plugin
type Manifest struct {
	Name        string   `toml:"name" yaml:"name" jsonschema:"required,minLength=1,description=Unique plugin name"`
	Description string   `toml:"description,omitempty" yaml:"description,omitempty" jsonschema:"description=What the plugin contributes"`
	Groups      []Group  `toml:"groups,omitempty" yaml:"groups,omitempty" jsonschema:"description=Action groups, added before the actions"`
	Actions     []Action `toml:"actions,omitempty" yaml:"actions,omitempty" jsonschema:"description=Actions"`

	// Source is the file the manifest was read from
	Source string `toml:"-" yaml:"-"`
}

// Group describes an action group. Nested groups and actions are static
// children, attached together with the group.
type Group struct {
	ID      string   `toml:"id" yaml:"id" jsonschema:"required,minLength=1,description=Group id, unique across the registry"`
	Target  string   `toml:"target,omitempty" yaml:"target,omitempty" jsonschema:"description=Path of the parent group (root/segment/...)"`
	Label   string   `toml:"label,omitempty" yaml:"label,omitempty" jsonschema:"description=Display text"`
	Type    string   `toml:"type,omitempty" yaml:"type,omitempty" jsonschema:"description=Renderer hint such as MENU or TOOLBAR"`
	Final   bool     `toml:"final,omitempty" yaml:"final,omitempty" jsonschema:"description=Renderer hint: no further entries expected"`
	Groups  []Group  `toml:"groups,omitempty" yaml:"groups,omitempty" jsonschema:"description=Static child groups"`
	Actions []Action `toml:"actions,omitempty" yaml:"actions,omitempty" jsonschema:"description=Static child actions"`
}

// Action describes one action and the handler behind it
type Action struct {
	ID       string                 `toml:"id" yaml:"id" jsonschema:"required,minLength=1,description=Action id, unique across the registry"`
	Target   string                 `toml:"target,omitempty" yaml:"target,omitempty" jsonschema:"description=Path of the group the action belongs to"`
	Label    string                 `toml:"label,omitempty" yaml:"label,omitempty" jsonschema:"description=Display text"`
	Shortcut string                 `toml:"shortcut,omitempty" yaml:"shortcut,omitempty" jsonschema:"description=Key combination such as ctrl+o"`
	Handler  string                 `toml:"handler,omitempty" yaml:"handler,omitempty" jsonschema:"description=Handler name; noop when empty"`
	Args     map[string]interface{} `toml:"args,omitempty" yaml:"args,omitempty" jsonschema:"description=Handler options"`
}

// Format is a manifest serialization
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// DefaultExtensions are the file extensions searched for manifests
var DefaultExtensions = []string{".toml", ".yaml", ".yml"}

// FormatFor picks the format from the file extension
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// Parse decodes and validates a manifest document
func Parse(data []byte, format Format) (*Manifest, error) {
	var doc interface{}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported manifest format '%s'", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to parse %s", strings.ToUpper(string(format)))
	}
	if doc == nil {
		return nil, errors.New(errors.ErrManifestInvalid, "manifest is empty")
	}

	if err := validate(doc); err != nil {
		return nil, err
	}

	var m Manifest
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &m)
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to decode %s manifest", format)
	}
	return &m, nil
}

// Load reads and parses the manifest at path
func Load(fs afero.Fs, path string) (*Manifest, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, errors.Newf(errors.ErrManifestLoad, "'%s' is not a manifest file", path).
			WithDetail("path", path)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestLoad, "failed to read manifest").
			WithDetail("path", path)
	}

	m, err := Parse(data, format)
	if err != nil {
		return nil, annotate(err, path)
	}
	m.Source = path

	logger := logging.GetLogger("manifest")
	logger.Debug().
		Str("path", path).
		Str("plugin", m.Name).
		Int("groups", len(m.Groups)).
		Int("actions", len(m.Actions)).
		Msg("Manifest loaded")
	return m, nil
}

// LoadDir loads every manifest directly inside dir whose extension is in
// exts, in file name order. A nil exts means DefaultExtensions.
func LoadDir(fs afero.Fs, dir string, exts []string) ([]*Manifest, error) {
	files, err := listDir(fs, dir, exts, nil)
	if err != nil {
		return nil, err
	}

	manifests := make([]*Manifest, 0, len(files))
	for _, file := range files {
		m, err := Load(fs, file)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// toJSONValue converts a decoded document into plain JSON values
func toJSONValue(doc interface{}) (interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func annotate(err error, path string) error {
	if regErr, ok := err.(*errors.RegistryError); ok {
		return regErr.WithDetail("path", path)
	}
	return err
}
