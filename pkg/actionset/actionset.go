package actionset

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/logging"
	"github.com/arthur-debert/actionreg/pkg/targetpath"
)

// node is a group node. parent is meaningful only while attached.
type node struct {
	id       string
	parent   string
	attached bool
	group    *contrib.ActionGroup
	actions  []*contrib.Action
	children []string
}

// GroupView is a read-only copy of a group node
type GroupView struct {
	ID          string
	Group       *contrib.ActionGroup // nil for the root and for implicit nodes
	Parent      string
	Attached    bool
	Actions     []*contrib.Action
	ChildGroups []string
}

// Label returns the owning group's label, or the node id when there is none
func (v GroupView) Label() string {
	if v.Group != nil && v.Group.Label != "" {
		return v.Group.Label
	}
	return v.ID
}

// ActionSet is the tree of groups and actions below one root id
type ActionSet struct {
	rootID string

	mu       sync.RWMutex
	nodes    map[string]*node
	elements map[string]contrib.Contribution

	logger zerolog.Logger
}

// newActionSet is only called by Manager
func newActionSet(rootID string) *ActionSet {
	return &ActionSet{
		rootID:   rootID,
		nodes:    map[string]*node{rootID: {id: rootID, attached: true}},
		elements: make(map[string]contrib.Contribution),
		logger:   logging.GetLogger("actionset").With().Str("root", rootID).Logger(),
	}
}

// RootID returns the id of the set's implicit root group
func (s *ActionSet) RootID() string {
	return s.rootID
}

// AddAction attaches a to the group named by its target path, creating
// missing group nodes on the way.
func (s *ActionSet) AddAction(a *contrib.Action) error {
	if a == nil {
		return errors.New(errors.ErrInvalidInput, "action cannot be nil")
	}
	m, err := contrib.MemberOf(a)
	if err != nil {
		return err
	}
	return s.insert([]contrib.Member{m})
}

// AddActionGroup attaches g and, in the same critical section, its static
// children.
func (s *ActionSet) AddActionGroup(g *contrib.ActionGroup) error {
	if g == nil {
		return errors.New(errors.ErrInvalidInput, "action group cannot be nil")
	}
	batch, err := g.Flatten()
	if err != nil {
		return err
	}
	return s.insert(batch)
}

func (s *ActionSet) insert(batch []contrib.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate(batch); err != nil {
		s.logger.Debug().Err(err).Str("id", batch[0].Attributes().ID).Msg("Insertion rejected")
		return err
	}
	s.apply(batch)

	s.logger.Debug().
		Str("id", batch[0].Attributes().ID).
		Str("kind", batch[0].Kind().String()).
		Int("elements", len(batch)).
		Msg("Contribution attached")
	return nil
}

// plan records what a batch would change so validation can see earlier
// members of the same batch without touching the tree.
type plan struct {
	parents map[string]string
	ids     map[string]contrib.Kind
}

func (s *ActionSet) validate(batch []contrib.Member) error {
	p := plan{
		parents: make(map[string]string),
		ids:     make(map[string]contrib.Kind),
	}

	for _, m := range batch {
		c := m.Contribution
		id := c.Attributes().ID
		if _, ok := contrib.AsAction(c); !ok {
			if _, ok := contrib.AsGroup(c); !ok {
				return errors.Newf(errors.ErrInvalidInput, "contribution '%s' has unsupported type %T", id, c)
			}
		}

		if _, dup := p.ids[id]; dup {
			return duplicateID(id, s.rootID)
		}
		if _, exists := s.elements[id]; exists {
			return duplicateID(id, s.rootID)
		}

		parent := m.Parent
		if parent.Root != s.rootID {
			return errors.Newf(errors.ErrInvalidInput,
				"contribution '%s' targets root '%s', not '%s'", id, parent.Root, s.rootID).
				WithDetail("id", id)
		}

		prev := s.rootID
		for _, seg := range parent.Segments {
			if err := s.checkLink(&p, seg, prev); err != nil {
				return err
			}
			prev = seg
		}

		switch c.Kind() {
		case contrib.KindAction:
			if _, planned := p.parents[id]; planned || s.nodes[id] != nil {
				return duplicateID(id, s.rootID).WithDetail("reason", "id names a group node")
			}
		case contrib.KindGroup:
			if err := s.checkLink(&p, id, prev); err != nil {
				return err
			}
		}
		p.ids[id] = c.Kind()
	}
	return nil
}

// checkLink verifies that node id may sit under parent
func (s *ActionSet) checkLink(p *plan, id, parent string) error {
	if kind, ok := p.ids[id]; ok && kind == contrib.KindAction {
		return segmentIsAction(id)
	}
	if c, ok := s.elements[id]; ok && c.Kind() == contrib.KindAction {
		return segmentIsAction(id)
	}

	if planned, ok := p.parents[id]; ok {
		if planned != parent {
			return misplaced(id, planned, parent)
		}
		return nil
	}
	if n := s.nodes[id]; n != nil && n.attached && n.parent != parent {
		return misplaced(id, n.parent, parent)
	}
	p.parents[id] = parent
	return nil
}

func (s *ActionSet) apply(batch []contrib.Member) {
	for _, m := range batch {
		m.Adopt()
		c := m.Contribution
		leaf := s.ensurePath(m.Parent)

		switch c.Kind() {
		case contrib.KindAction:
			a, _ := contrib.AsAction(c)
			leaf.actions = append(leaf.actions, a)
		case contrib.KindGroup:
			g, _ := contrib.AsGroup(c)
			s.link(g.ID, leaf).group = g
		}
		s.elements[c.Attributes().ID] = c
	}
}

// ensurePath walks p from the root, creating and linking nodes as needed
func (s *ActionSet) ensurePath(p targetpath.Path) *node {
	cur := s.nodes[s.rootID]
	for _, seg := range p.Segments {
		cur = s.link(seg, cur)
	}
	return cur
}

func (s *ActionSet) link(id string, parent *node) *node {
	n := s.nodes[id]
	if n == nil {
		n = &node{id: id}
		s.nodes[id] = n
		s.logger.Trace().Str("group", id).Str("parent", parent.id).Msg("Group node created")
	}
	if !n.attached || n.parent != parent.id {
		n.parent = parent.id
		n.attached = true
		parent.children = append(parent.children, id)
	}
	return n
}

// RemoveAction detaches a from its group. It reports false when a is not
// the action currently registered under its id.
func (s *ActionSet) RemoveAction(a *contrib.Action) bool {
	if a == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeAction(a)
}

func (s *ActionSet) removeAction(a *contrib.Action) bool {
	if cur, ok := s.elements[a.ID]; !ok || cur != contrib.Contribution(a) {
		return false
	}
	parent, err := contrib.ParentPath(a)
	if err != nil {
		return false
	}
	if n := s.nodes[parent.Leaf()]; n != nil {
		n.actions = removeAction(n.actions, a)
	}
	delete(s.elements, a.ID)

	s.logger.Debug().Str("id", a.ID).Msg("Action removed")
	return true
}

// RemoveActionGroup detaches g's node from its parent together with g's
// static children. The node and any separately contributed descendants stay
// in the set as an orphan.
func (s *ActionSet) RemoveActionGroup(g *contrib.ActionGroup) bool {
	if g == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeGroup(g) {
		return false
	}
	for _, c := range g.StaticDescendants() {
		switch c.Kind() {
		case contrib.KindAction:
			a, _ := contrib.AsAction(c)
			s.removeAction(a)
		case contrib.KindGroup:
			child, _ := contrib.AsGroup(c)
			s.removeGroup(child)
		}
	}
	return true
}

func (s *ActionSet) removeGroup(g *contrib.ActionGroup) bool {
	if g == nil {
		return false
	}
	if cur, ok := s.elements[g.ID]; !ok || cur != contrib.Contribution(g) {
		return false
	}

	if n := s.nodes[g.ID]; n != nil {
		if n.attached {
			if parent := s.nodes[n.parent]; parent != nil {
				parent.children = removeString(parent.children, g.ID)
			}
		}
		n.attached = false
		n.parent = ""
		n.group = nil
	}
	delete(s.elements, g.ID)

	s.logger.Debug().Str("id", g.ID).Msg("Action group detached")
	return true
}

// Query returns a copy of the group node groupID
func (s *ActionSet) Query(groupID string) (GroupView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.nodes[groupID]
	if n == nil {
		return GroupView{}, errors.Newf(errors.ErrNotFound,
			"group '%s' not found in action set '%s'", groupID, s.rootID).
			WithDetail("group", groupID).
			WithDetail("root", s.rootID)
	}
	return s.view(n), nil
}

func (s *ActionSet) view(n *node) GroupView {
	v := GroupView{
		ID:          n.id,
		Group:       n.group,
		Parent:      n.parent,
		Attached:    n.attached,
		Actions:     make([]*contrib.Action, len(n.actions)),
		ChildGroups: make([]string, len(n.children)),
	}
	copy(v.Actions, n.actions)
	copy(v.ChildGroups, n.children)
	return v
}

// Has reports whether a contribution with id is attached to this set
func (s *ActionSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.elements[id]
	return ok
}

// Lookup returns the contribution registered under id
func (s *ActionSet) Lookup(id string) (contrib.Contribution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.elements[id]
	return c, ok
}

// GroupIDs lists every group node, attached or not, in sorted order
func (s *ActionSet) GroupIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Orphans lists detached group nodes in sorted order
func (s *ActionSet) Orphans() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, n := range s.nodes {
		if !n.attached {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func duplicateID(id, root string) *errors.RegistryError {
	return errors.Newf(errors.ErrDuplicateID, "id '%s' is already used in action set '%s'", id, root).
		WithDetail("id", id).
		WithDetail("root", root)
}

func segmentIsAction(id string) error {
	return errors.Newf(errors.ErrMalformedPath, "path segment '%s' names an action, not a group", id).
		WithDetail("segment", id)
}

func misplaced(id, current, wanted string) error {
	return errors.Newf(errors.ErrMalformedPath,
		"group '%s' is attached under '%s', not '%s'", id, current, wanted).
		WithDetail("group", id).
		WithDetail("parent", current)
}

func removeAction(list []*contrib.Action, a *contrib.Action) []*contrib.Action {
	for i, cur := range list {
		if cur == a {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func removeString(list []string, s string) []string {
	for i, cur := range list {
		if cur == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
