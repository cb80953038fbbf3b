package contrib

import (
	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/targetpath"
)

// Validate checks the id and target path of c
func Validate(c Contribution) error {
	if err := validateID(c); err != nil {
		return err
	}
	_, err := ParentPath(c)
	return err
}

func validateID(c Contribution) error {
	if c == nil {
		return errors.New(errors.ErrInvalidInput, "contribution cannot be nil")
	}
	attrs := c.Attributes()
	if attrs.ID == "" {
		return errors.Newf(errors.ErrInvalidInput, "%s id cannot be empty", c.Kind())
	}
	if err := targetpath.ValidateSegment(attrs.ID); err != nil {
		return errors.Wrapf(err, errors.ErrMalformedPath, "invalid %s id %q", c.Kind(), attrs.ID).
			WithDetail("id", attrs.ID)
	}
	return nil
}

// ParentPath resolves the group node c attaches to.
// For an action that is its target path. For a group the target path names
// the parent, except when the last segment is the group's own id, in which
// case the parent is one level up.
func ParentPath(c Contribution) (targetpath.Path, error) {
	attrs := c.Attributes()
	p, err := targetpath.Parse(attrs.TargetGroupID)
	if err != nil {
		return targetpath.Path{}, err
	}

	if c.Kind() == KindGroup && len(p.Segments) > 0 && p.Leaf() == attrs.ID {
		p = p.Parent()
	}

	if p.Contains(attrs.ID) {
		return targetpath.Path{}, errors.Newf(errors.ErrMalformedPath,
			"%s '%s' cannot be placed below itself (target %q)", c.Kind(), attrs.ID, attrs.TargetGroupID).
			WithDetail("id", attrs.ID).
			WithDetail("target", attrs.TargetGroupID)
	}
	return p, nil
}

// OwnPath is the path that addresses the group's own node
func (g *ActionGroup) OwnPath() (targetpath.Path, error) {
	parent, err := ParentPath(g)
	if err != nil {
		return targetpath.Path{}, err
	}
	return parent.Child(g.ID), nil
}

// Member is one element of a flattened group together with the group node
// it attaches to.
type Member struct {
	Contribution
	Parent targetpath.Path
}

// Adopt gives a static child without a target the path of its owner.
// Call it only once the whole batch has been accepted.
func (m Member) Adopt() {
	if attrs := m.Attributes(); attrs.TargetGroupID == "" {
		attrs.TargetGroupID = m.Parent.String()
	}
}

// MemberOf resolves the parent of a single contribution
func MemberOf(c Contribution) (Member, error) {
	if err := validateID(c); err != nil {
		return Member{}, err
	}
	parent, err := ParentPath(c)
	if err != nil {
		return Member{}, err
	}
	return Member{Contribution: c, Parent: parent}, nil
}

// Flatten validates g and its static descendants and returns them in
// attachment order: the group itself, then each static group (recursively),
// then the static actions. Static children without a target belong to the
// group that owns them; children whose target points elsewhere are
// rejected. Nothing is modified.
func (g *ActionGroup) Flatten() ([]Member, error) {
	if g == nil {
		return nil, errors.New(errors.ErrInvalidInput, "action group cannot be nil")
	}
	m, err := MemberOf(g)
	if err != nil {
		return nil, err
	}
	return g.flatten(m.Parent)
}

func (g *ActionGroup) flatten(parent targetpath.Path) ([]Member, error) {
	own := parent.Child(g.ID)
	out := []Member{{Contribution: g, Parent: parent}}
	for _, child := range g.StaticGroups {
		if child == nil {
			return nil, errors.Newf(errors.ErrInvalidInput, "group '%s' has a nil static group", g.ID)
		}
		p, err := staticParent(child, own)
		if err != nil {
			return nil, err
		}
		sub, err := child.flatten(p)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	for _, child := range g.StaticActions {
		if child == nil {
			return nil, errors.Newf(errors.ErrInvalidInput, "group '%s' has a nil static action", g.ID)
		}
		p, err := staticParent(child, own)
		if err != nil {
			return nil, err
		}
		out = append(out, Member{Contribution: child, Parent: p})
	}
	return out, nil
}

// staticParent returns owner, after checking that child may sit there
func staticParent(child Contribution, owner targetpath.Path) (targetpath.Path, error) {
	attrs := child.Attributes()
	if attrs.TargetGroupID == "" {
		if err := validateID(child); err != nil {
			return targetpath.Path{}, err
		}
		if owner.Contains(attrs.ID) {
			return targetpath.Path{}, errors.Newf(errors.ErrMalformedPath,
				"static %s '%s' cannot be placed below itself (owner %q)", child.Kind(), attrs.ID, owner).
				WithDetail("id", attrs.ID)
		}
		return owner, nil
	}

	m, err := MemberOf(child)
	if err != nil {
		return targetpath.Path{}, err
	}
	if m.Parent.String() != owner.String() {
		return targetpath.Path{}, errors.Newf(errors.ErrMalformedPath,
			"static %s '%s' targets %q but belongs to %q", child.Kind(), attrs.ID, attrs.TargetGroupID, owner).
			WithDetail("id", attrs.ID)
	}
	return m.Parent, nil
}
