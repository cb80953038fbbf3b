package contrib

import (
	"context"
	"strings"

	"github.com/arthur-debert/actionreg/pkg/errors"
)

// Kind tags a contribution as an action or a group
type Kind int

const (
	KindAction Kind = iota + 1
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// GroupType is an opaque discriminator for renderers. The registry never
// interprets it.
type GroupType string

const (
	GroupMenu    GroupType = "MENU"
	GroupToolbar GroupType = "TOOLBAR"
	GroupRadio   GroupType = "RADIO"
	GroupSection GroupType = "SECTION"
)

// ParseGroupType normalises s to upper case; an empty string means MENU.
// Unknown values pass through unchanged apart from case.
func ParseGroupType(s string) GroupType {
	s = strings.TrimSpace(s)
	if s == "" {
		return GroupMenu
	}
	return GroupType(strings.ToUpper(s))
}

// Known reports whether t is one of the predefined group types
func (t GroupType) Known() bool {
	switch t {
	case GroupMenu, GroupToolbar, GroupRadio, GroupSection:
		return true
	}
	return false
}

// Executor is the invocable behaviour behind an action
type Executor interface {
	Execute(ctx context.Context) error
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc func(ctx context.Context) error

// Execute calls f(ctx)
func (f ExecutorFunc) Execute(ctx context.Context) error { return f(ctx) }

// GroupElement holds the attributes shared by every contribution
type GroupElement struct {
	ID            string
	TargetGroupID string
	Label         string
}

// Attributes gives uniform access to the shared attributes
func (e *GroupElement) Attributes() *GroupElement { return e }

// Contribution is either an *Action or an *ActionGroup; switch on Kind.
type Contribution interface {
	Attributes() *GroupElement
	Kind() Kind
}

// Action is a single invocable menu or toolbar entry
type Action struct {
	GroupElement
	Shortcut string
	Executor Executor
}

// NewAction builds an action contribution
func NewAction(id, target, label, shortcut string, exec Executor) *Action {
	return &Action{
		GroupElement: GroupElement{ID: id, TargetGroupID: target, Label: label},
		Shortcut:     shortcut,
		Executor:     exec,
	}
}

// Kind implements Contribution
func (a *Action) Kind() Kind { return KindAction }

// Invoke runs the action's executor
func (a *Action) Invoke(ctx context.Context) error {
	if a.Executor == nil {
		return errors.Newf(errors.ErrActionExecute, "action '%s' has no executor", a.ID).
			WithDetail("id", a.ID)
	}
	if err := a.Executor.Execute(ctx); err != nil {
		return errors.Wrapf(err, errors.ErrActionExecute, "action '%s' failed", a.ID).
			WithDetail("id", a.ID)
	}
	return nil
}

// ActionGroup is a named node of the action tree.
// StaticGroups and StaticActions are attached together with the group,
// in the order given.
type ActionGroup struct {
	GroupElement
	Type          GroupType
	Final         bool
	StaticGroups  []*ActionGroup
	StaticActions []*Action
}

// NewActionGroup builds a group contribution without static children
func NewActionGroup(id, target, label string, typ GroupType) *ActionGroup {
	return &ActionGroup{
		GroupElement: GroupElement{ID: id, TargetGroupID: target, Label: label},
		Type:         typ,
	}
}

// Kind implements Contribution
func (g *ActionGroup) Kind() Kind { return KindGroup }

// HasStaticChildren reports whether the group carries pre-built children
func (g *ActionGroup) HasStaticChildren() bool {
	return len(g.StaticGroups) > 0 || len(g.StaticActions) > 0
}

// AsAction returns c as an *Action when its tag says it is one
func AsAction(c Contribution) (*Action, bool) {
	if c == nil || c.Kind() != KindAction {
		return nil, false
	}
	a, ok := c.(*Action)
	return a, ok
}

// AsGroup returns c as an *ActionGroup when its tag says it is one
func AsGroup(c Contribution) (*ActionGroup, bool) {
	if c == nil || c.Kind() != KindGroup {
		return nil, false
	}
	g, ok := c.(*ActionGroup)
	return g, ok
}

// StaticDescendants lists the static children of g, recursively, in the
// same order Flatten attaches them. g itself is not included.
func (g *ActionGroup) StaticDescendants() []Contribution {
	var out []Contribution
	for _, child := range g.StaticGroups {
		if child == nil {
			continue
		}
		out = append(out, child)
		out = append(out, child.StaticDescendants()...)
	}
	for _, child := range g.StaticActions {
		if child != nil {
			out = append(out, child)
		}
	}
	return out
}
