package manifest

import (
	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/handlers"
	"github.com/arthur-debert/actionreg/pkg/host"
)

// Build turns m into a plugin, creating one executor per action from set.
// Top-level groups and actions must name a target; static children inherit
// the path of the group that holds them.
func Build(m *Manifest, set *handlers.Set) (*host.Plugin, error) {
	if m == nil {
		return nil, errors.New(errors.ErrInvalidInput, "manifest cannot be nil")
	}

	p := &host.Plugin{Name: m.Name, Source: m.Source}
	for i := range m.Groups {
		spec := &m.Groups[i]
		if spec.Target == "" {
			return nil, invalid(m, "group '%s' has no target", spec.ID)
		}
		g, err := buildGroup(m, spec, set)
		if err != nil {
			return nil, err
		}
		p.Groups = append(p.Groups, g)
	}
	for i := range m.Actions {
		spec := &m.Actions[i]
		if spec.Target == "" {
			return nil, invalid(m, "action '%s' has no target", spec.ID)
		}
		a, err := buildAction(m, spec, set)
		if err != nil {
			return nil, err
		}
		p.Actions = append(p.Actions, a)
	}
	return p, nil
}

func buildGroup(m *Manifest, spec *Group, set *handlers.Set) (*contrib.ActionGroup, error) {
	g := contrib.NewActionGroup(spec.ID, spec.Target, spec.Label, contrib.ParseGroupType(spec.Type))
	g.Final = spec.Final

	for i := range spec.Groups {
		child, err := buildGroup(m, &spec.Groups[i], set)
		if err != nil {
			return nil, err
		}
		g.StaticGroups = append(g.StaticGroups, child)
	}
	for i := range spec.Actions {
		child, err := buildAction(m, &spec.Actions[i], set)
		if err != nil {
			return nil, err
		}
		g.StaticActions = append(g.StaticActions, child)
	}
	return g, nil
}

func buildAction(m *Manifest, spec *Action, set *handlers.Set) (*contrib.Action, error) {
	name := spec.Handler
	if name == "" {
		name = handlers.NoopHandlerName
	}
	exec, err := set.Build(name, spec.Args)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "action '%s' of plugin '%s'", spec.ID, m.Name).
			WithDetail("plugin", m.Name).
			WithDetail("action", spec.ID).
			WithDetail("handler", name).
			WithDetail("path", m.Source)
	}
	return contrib.NewAction(spec.ID, spec.Target, spec.Label, spec.Shortcut, exec), nil
}

func invalid(m *Manifest, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrManifestInvalid, format, args...).
		WithDetail("plugin", m.Name).
		WithDetail("path", m.Source)
}
