package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/actionreg/pkg/actionadmin"
	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/handlers"
	"github.com/arthur-debert/actionreg/pkg/host"
)

const colorTOML = `
name = "colorfilter"
description = "Mark log lines with a colour"

[[groups]]
id = "markWithColor"
target = "logview.contextmenu"
label = "Mark with color"
type = "menu"

  [[groups.actions]]
  id = "markRed"
  label = "Red"
  handler = "print"
  args = { message = "marked red" }

  [[groups.groups]]
  id = "shades"
  label = "Shades"

    [[groups.groups.actions]]
    id = "markPink"
    label = "Pink"

[[actions]]
id = "unmark"
target = "logview.contextmenu/markWithColor"
label = "Unmark"
shortcut = "ctrl+u"
handler = "log"
args = { message = "unmarked", level = "debug" }
`

const loadYAML = `
name: loadwizard
groups:
  - id: file
    target: menubar
    label: File
    final: true
actions:
  - id: load
    target: menubar/file
    label: Load...
    shortcut: ctrl+o
    handler: print
    args:
      message: loading
`

func TestParseTOML(t *testing.T) {
	m, err := Parse([]byte(colorTOML), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "colorfilter", m.Name)
	require.Len(t, m.Groups, 1)
	g := m.Groups[0]
	assert.Equal(t, "markWithColor", g.ID)
	assert.Equal(t, "menu", g.Type)
	require.Len(t, g.Actions, 1)
	assert.Equal(t, "marked red", g.Actions[0].Args["message"])
	require.Len(t, g.Groups, 1)
	assert.Equal(t, "markPink", g.Groups[0].Actions[0].ID)

	require.Len(t, m.Actions, 1)
	assert.Equal(t, "ctrl+u", m.Actions[0].Shortcut)
}

func TestParseYAML(t *testing.T) {
	m, err := Parse([]byte(loadYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "loadwizard", m.Name)
	assert.True(t, m.Groups[0].Final)
	assert.Equal(t, "menubar/file", m.Actions[0].Target)
	assert.Equal(t, "loading", m.Actions[0].Args["message"])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		code   errors.ErrorCode
	}{
		{"broken toml", "name = ", FormatTOML, errors.ErrManifestParse},
		{"broken yaml", "name: [", FormatYAML, errors.ErrManifestParse},
		{"empty yaml", "", FormatYAML, errors.ErrManifestInvalid},
		{"missing name", "description = 'x'", FormatTOML, errors.ErrManifestInvalid},
		{"empty name", "name = ''", FormatTOML, errors.ErrManifestInvalid},
		{"unknown key", "name = 'p'\n[[actions]]\nid = 'a'\nlable = 'typo'", FormatTOML, errors.ErrManifestInvalid},
		{"action without id", "name: p\nactions:\n  - label: nameless\n", FormatYAML, errors.ErrManifestInvalid},
		{"wrong type", "name: p\ngroups:\n  - id: g\n    final: sometimes\n", FormatYAML, errors.ErrManifestInvalid},
		{"unknown format", "name = 'p'", Format("ini"), errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestSchemaProblemsAreReported(t *testing.T) {
	_, err := Parse([]byte("name = 'p'\nbogus = 1\n[[actions]]\nlabel = 'x'"), FormatTOML)
	require.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))

	problems, ok := errors.GetErrorDetails(err)["problems"].([]string)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(problems), 2)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, SchemaID, doc["$id"])
	assert.Contains(t, string(data), `"shortcut"`)
	assert.Contains(t, string(data), `"required"`)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/plugins/color.toml", []byte(colorTOML), 0644))
	require.NoError(t, afero.WriteFile(fs, "/plugins/notes.txt", []byte("x"), 0644))

	m, err := Load(fs, "/plugins/color.toml")
	require.NoError(t, err)
	assert.Equal(t, "/plugins/color.toml", m.Source)

	_, err = Load(fs, "/plugins/notes.txt")
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestLoad))

	_, err = Load(fs, "/plugins/missing.yaml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestLoad))

	require.NoError(t, afero.WriteFile(fs, "/plugins/bad.toml", []byte("nope = "), 0644))
	_, err = Load(fs, "/plugins/bad.toml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
	assert.Equal(t, "/plugins/bad.toml", errors.GetErrorDetails(err)["path"])
}

func TestLoadDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/b-load.yml", []byte(loadYAML), 0644))
	require.NoError(t, afero.WriteFile(fs, "/p/a-color.TOML", []byte(colorTOML), 0644))
	require.NoError(t, afero.WriteFile(fs, "/p/readme.md", []byte("#"), 0644))
	require.NoError(t, fs.MkdirAll("/p/nested.toml", 0755))

	manifests, err := LoadDir(fs, "/p", nil)
	require.NoError(t, err)
	require.Len(t, manifests, 2)
	assert.Equal(t, "colorfilter", manifests[0].Name)
	assert.Equal(t, "loadwizard", manifests[1].Name)

	manifests, err = LoadDir(fs, "/p", []string{".yml"})
	require.NoError(t, err)
	require.Len(t, manifests, 1)

	manifests, err = LoadDir(fs, "/absent", nil)
	require.NoError(t, err)
	assert.Empty(t, manifests)
}

func TestBuild(t *testing.T) {
	var out bytes.Buffer
	set := handlers.NewSet(&out)

	m, err := Parse([]byte(colorTOML), FormatTOML)
	require.NoError(t, err)
	p, err := Build(m, set)
	require.NoError(t, err)

	assert.Equal(t, "colorfilter", p.Name)
	require.Len(t, p.Groups, 1)
	g := p.Groups[0]
	assert.Equal(t, contrib.GroupMenu, g.Type)
	require.Len(t, g.StaticActions, 1)
	require.Len(t, g.StaticGroups, 1)
	assert.Empty(t, g.StaticActions[0].TargetGroupID, "static children inherit their path when added")

	require.NoError(t, g.StaticActions[0].Invoke(context.Background()))
	assert.Equal(t, "marked red\n", out.String())

	pink := g.StaticGroups[0].StaticActions[0]
	assert.NoError(t, pink.Invoke(context.Background()), "no handler means noop")
}

func TestBuildErrors(t *testing.T) {
	set := handlers.NewSet(nil)

	tests := []struct {
		name string
		m    *Manifest
		code errors.ErrorCode
	}{
		{"nil", nil, errors.ErrInvalidInput},
		{"group without target", &Manifest{Name: "p", Groups: []Group{{ID: "g"}}}, errors.ErrManifestInvalid},
		{"action without target", &Manifest{Name: "p", Actions: []Action{{ID: "a"}}}, errors.ErrManifestInvalid},
		{"unknown handler", &Manifest{Name: "p", Actions: []Action{{ID: "a", Target: "ctx", Handler: "warp"}}}, errors.ErrManifestInvalid},
		{"bad handler options", &Manifest{Name: "p", Groups: []Group{{ID: "g", Target: "ctx",
			Actions: []Action{{ID: "a", Handler: "print"}}}}}, errors.ErrManifestInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.m, set)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}

	_, err := Build(&Manifest{Name: "p", Actions: []Action{{ID: "a", Target: "ctx", Handler: "warp"}}}, set)
	assert.ErrorIs(t, err, errors.New(errors.ErrHandlerNotFound, ""), "cause is kept")
}

func TestDiscovery(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a/color.toml", []byte(colorTOML), 0644))
	require.NoError(t, afero.WriteFile(fs, "/a/draft.toml", []byte("broken ="), 0644))
	require.NoError(t, afero.WriteFile(fs, "/b/load.yaml", []byte(loadYAML), 0644))

	d, err := NewDiscovery(fs, []string{"/a", "/b", "/missing"}, []string{"toml", ".yaml"}, []string{"draft*"}, handlers.NewSet(nil))
	require.NoError(t, err)

	files, err := d.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/color.toml", "/b/load.yaml"}, files)

	assert.True(t, d.Accept("/a/color.toml"))
	assert.False(t, d.Accept("/a/draft.toml"), "ignored")
	assert.False(t, d.Accept("/a/color.yml"), "extension not configured")
	assert.False(t, d.Accept("/elsewhere/color.toml"), "outside the watched dirs")
	assert.Equal(t, []string{"/a", "/b", "/missing"}, d.Dirs())

	t.Run("plugins activate into the registry", func(t *testing.T) {
		plugins, err := d.LoadAll()
		require.NoError(t, err)
		require.Len(t, plugins, 2)

		admin := actionadmin.New()
		h := host.New(admin)
		for _, p := range plugins {
			require.NoError(t, h.Activate(p))
		}

		assert.Equal(t, []string{"logview.contextmenu", "menubar"}, admin.Roots())
		view, err := admin.Query("logview.contextmenu", "markWithColor")
		require.NoError(t, err)
		assert.Equal(t, []string{"shades"}, view.ChildGroups)
		ids := make([]string, 0, len(view.Actions))
		for _, a := range view.Actions {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []string{"markRed", "unmark"}, ids)
	})
}

func TestDiscoveryBadPattern(t *testing.T) {
	_, err := NewDiscovery(afero.NewMemMapFs(), nil, nil, []string{"[z-a"}, handlers.NewSet(nil))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid), "got %v", err)
}
