package host

import (
	stderrors "errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// Plugin is a named set of contributions
type Plugin struct {
	Name    string
	Source  string // where the plugin was loaded from, if anywhere
	Groups  []*contrib.ActionGroup
	Actions []*contrib.Action
}

// Contributions lists the plugin's groups then its actions
func (p *Plugin) Contributions() []contrib.Contribution {
	out := make([]contrib.Contribution, 0, len(p.Groups)+len(p.Actions))
	for _, g := range p.Groups {
		out = append(out, g)
	}
	for _, a := range p.Actions {
		out = append(out, a)
	}
	return out
}

// Registry is the part of the action admin the host drives
type Registry interface {
	AddActionGroupContribution(g *contrib.ActionGroup) error
	AddActionContribution(a *contrib.Action) error
	RemoveActionGroupContribution(g *contrib.ActionGroup) bool
	RemoveActionContribution(a *contrib.Action) bool
}

// Host tracks which plugins are active
type Host struct {
	registry Registry

	mu     sync.Mutex
	active map[string]*Plugin

	logger zerolog.Logger
}

// New creates a host with no active plugins
func New(registry Registry) *Host {
	return &Host{
		registry: registry,
		active:   make(map[string]*Plugin),
		logger:   logging.GetLogger("host"),
	}
}

// Activate adds every contribution of p. On failure nothing of p remains.
func (h *Host) Activate(p *Plugin) error {
	if p == nil || p.Name == "" {
		return errors.New(errors.ErrInvalidInput, "plugin must have a name")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.activate(p)
}

func (h *Host) activate(p *Plugin) error {
	if _, ok := h.active[p.Name]; ok {
		return errors.Newf(errors.ErrPluginActive, "plugin '%s' is already active", p.Name).
			WithDetail("plugin", p.Name)
	}

	contributions := p.Contributions()
	for i, c := range contributions {
		if err := h.add(c); err != nil {
			h.remove(contributions[:i])
			h.logger.Warn().
				Err(err).
				Str("plugin", p.Name).
				Str("id", c.Attributes().ID).
				Msg("Plugin activation rolled back")
			return annotate(err, p.Name)
		}
	}

	h.active[p.Name] = p
	h.logger.Info().
		Str("plugin", p.Name).
		Int("groups", len(p.Groups)).
		Int("actions", len(p.Actions)).
		Msg("Plugin activated")
	return nil
}

// Deactivate removes the contributions of the active plugin name.
// It reports false when no such plugin is active.
func (h *Host) Deactivate(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.deactivate(name)
}

func (h *Host) deactivate(name string) bool {
	p, ok := h.active[name]
	if !ok {
		h.logger.Debug().Str("plugin", name).Msg("Plugin not active, nothing to deactivate")
		return false
	}
	h.remove(p.Contributions())
	delete(h.active, name)

	h.logger.Info().Str("plugin", name).Msg("Plugin deactivated")
	return true
}

// Replace deactivates the plugin named like p, if active, and activates p.
// If p cannot be activated the previous plugin is restored.
func (h *Host) Replace(p *Plugin) error {
	if p == nil || p.Name == "" {
		return errors.New(errors.ErrInvalidInput, "plugin must have a name")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	prev, had := h.active[p.Name]
	if had {
		h.deactivate(p.Name)
	}
	err := h.activate(p)
	if err != nil && had {
		if restoreErr := h.activate(prev); restoreErr != nil {
			h.logger.Error().Err(restoreErr).Str("plugin", p.Name).Msg("Failed to restore previous plugin")
		}
	}
	return err
}

// Active lists the names of the active plugins in sorted order
func (h *Host) Active() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.active))
	for name := range h.active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plugin returns the active plugin called name
func (h *Host) Plugin(name string) (*Plugin, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.active[name]
	if !ok {
		return nil, errors.Newf(errors.ErrPluginNotFound, "plugin '%s' is not active", name).
			WithDetail("plugin", name)
	}
	return p, nil
}

func (h *Host) add(c contrib.Contribution) error {
	switch c.Kind() {
	case contrib.KindGroup:
		g, _ := contrib.AsGroup(c)
		return h.registry.AddActionGroupContribution(g)
	case contrib.KindAction:
		a, _ := contrib.AsAction(c)
		return h.registry.AddActionContribution(a)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unsupported contribution kind %s", c.Kind())
	}
}

// remove takes contributions out in reverse order
func (h *Host) remove(contributions []contrib.Contribution) {
	for i := len(contributions) - 1; i >= 0; i-- {
		switch c := contributions[i]; c.Kind() {
		case contrib.KindGroup:
			g, _ := contrib.AsGroup(c)
			h.registry.RemoveActionGroupContribution(g)
		case contrib.KindAction:
			a, _ := contrib.AsAction(c)
			h.registry.RemoveActionContribution(a)
		}
	}
}

func annotate(err error, plugin string) error {
	var regErr *errors.RegistryError
	if stderrors.As(err, &regErr) {
		return regErr.WithDetail("plugin", plugin)
	}
	return errors.Wrapf(err, errors.ErrInternal, "plugin '%s'", plugin)
}
