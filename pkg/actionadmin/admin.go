package actionadmin

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/actionreg/pkg/actionset"
	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/logging"
	"github.com/arthur-debert/actionreg/pkg/registry"
)

// indexed is a flat index entry: the contribution and the root of the set
// that holds it. The root is fixed when the id is reserved.
type indexed struct {
	contribution contrib.Contribution
	root         string
}

// Admin is the mutation and query surface over all action sets.
// Mutations of one root are serialized so the index and the tree change
// together; different roots only share the index's own lock.
type Admin struct {
	sets   *actionset.Manager
	index  registry.Registry[indexed]
	locks  registry.Registry[*sync.Mutex]
	logger zerolog.Logger
}

// New creates an empty registry
func New() *Admin {
	return &Admin{
		sets:   actionset.NewManager(),
		index:  registry.New[indexed](),
		locks:  registry.New[*sync.Mutex](),
		logger: logging.GetLogger("actionadmin"),
	}
}

// lockRoot locks the mutations of root and returns the unlock function
func (a *Admin) lockRoot(root string) func() {
	mu, _ := a.locks.GetOrCreate(root, func() *sync.Mutex { return &sync.Mutex{} })
	mu.Lock()
	return mu.Unlock
}

// AddAction builds an action from its fields and adds it
func (a *Admin) AddAction(id, target, label, shortcut string, exec contrib.Executor) error {
	return a.AddActionContribution(contrib.NewAction(id, target, label, shortcut, exec))
}

// AddActionGroup builds a group without static children and adds it
func (a *Admin) AddActionGroup(id, target, label string, typ contrib.GroupType) error {
	return a.AddActionGroupContribution(contrib.NewActionGroup(id, target, label, typ))
}

// AddStaticActionGroup builds a group that carries a pre-built submenu and
// adds it together with its children.
func (a *Admin) AddStaticActionGroup(id, target, label string, typ contrib.GroupType,
	groups []*contrib.ActionGroup, actions []*contrib.Action) error {
	g := contrib.NewActionGroup(id, target, label, typ)
	g.StaticGroups = groups
	g.StaticActions = actions
	return a.AddActionGroupContribution(g)
}

// AddActionContribution adds a pre-built action
func (a *Admin) AddActionContribution(act *contrib.Action) error {
	if act == nil {
		return errors.New(errors.ErrInvalidInput, "action cannot be nil")
	}
	m, err := contrib.MemberOf(act)
	if err != nil {
		return err
	}
	return a.add(act, []contrib.Member{m}, func(set *actionset.ActionSet) error { return set.AddAction(act) })
}

// AddActionGroupContribution adds a pre-built group and its static children
func (a *Admin) AddActionGroupContribution(g *contrib.ActionGroup) error {
	if g == nil {
		return errors.New(errors.ErrInvalidInput, "action group cannot be nil")
	}
	batch, err := g.Flatten()
	if err != nil {
		return err
	}
	return a.add(g, batch, func(set *actionset.ActionSet) error { return set.AddActionGroup(g) })
}

func (a *Admin) add(c contrib.Contribution, batch []contrib.Member,
	insert func(*actionset.ActionSet) error) error {
	attrs := c.Attributes()
	root := batch[0].Parent.Root

	entries := make([]registry.Entry[indexed], 0, len(batch))
	for _, m := range batch {
		entries = append(entries, registry.Entry[indexed]{
			Name: m.Attributes().ID,
			Item: indexed{contribution: m.Contribution, root: root},
		})
	}

	unlock := a.lockRoot(root)
	defer unlock()

	if err := a.index.RegisterBatch(entries); err != nil {
		a.logger.Debug().Err(err).Str("id", attrs.ID).Msg("Contribution id already registered")
		return err
	}

	set, err := a.sets.GetOrCreate(root)
	if err == nil {
		err = insert(set)
	}
	if err != nil {
		for _, e := range entries {
			a.index.RemoveFunc(e.Name, identical(e.Item.contribution))
		}
		return err
	}

	a.logger.Info().
		Str("id", attrs.ID).
		Str("kind", c.Kind().String()).
		Str("target", attrs.TargetGroupID).
		Msg("Contribution added")
	return nil
}

// RemoveAction removes the action registered under id. It reports whether
// anything was removed.
func (a *Admin) RemoveAction(id string) bool {
	act, root, err := a.lookupAction(id)
	if err != nil {
		a.logSoft(err, id, "remove action")
		return false
	}
	return a.removeAction(act, root)
}

// RemoveActionGroup removes the group registered under id together with its
// static children. Its node stays in the set as an orphan.
func (a *Admin) RemoveActionGroup(id string) bool {
	g, root, err := a.lookupGroup(id)
	if err != nil {
		a.logSoft(err, id, "remove action group")
		return false
	}
	return a.removeGroup(g, root)
}

// RemoveActionContribution removes act if it is the action currently
// registered under its id.
func (a *Admin) RemoveActionContribution(act *contrib.Action) bool {
	if act == nil {
		return false
	}
	cur, root, err := a.lookupAction(act.ID)
	if err != nil || cur != act {
		a.logSoft(err, act.ID, "remove action contribution")
		return false
	}
	return a.removeAction(act, root)
}

// RemoveActionGroupContribution removes g if it is the group currently
// registered under its id.
func (a *Admin) RemoveActionGroupContribution(g *contrib.ActionGroup) bool {
	if g == nil {
		return false
	}
	cur, root, err := a.lookupGroup(g.ID)
	if err != nil || cur != g {
		a.logSoft(err, g.ID, "remove action group contribution")
		return false
	}
	return a.removeGroup(g, root)
}

// removeAction drops act from the tree and then from the index. The index
// entry is kept when the tree does not hold act.
func (a *Admin) removeAction(act *contrib.Action, root string) bool {
	unlock := a.lockRoot(root)
	defer unlock()

	set, err := a.sets.Get(root)
	if err != nil || !set.RemoveAction(act) {
		a.logger.Debug().Str("id", act.ID).Str("root", root).Msg("Action not in its action set, index left as is")
		return false
	}
	a.index.RemoveFunc(act.ID, identical(act))
	a.logger.Info().Str("id", act.ID).Msg("Action removed")
	return true
}

func (a *Admin) removeGroup(g *contrib.ActionGroup, root string) bool {
	unlock := a.lockRoot(root)
	defer unlock()

	set, err := a.sets.Get(root)
	if err != nil || !set.RemoveActionGroup(g) {
		a.logger.Debug().Str("id", g.ID).Str("root", root).Msg("Action group not in its action set, index left as is")
		return false
	}
	a.index.RemoveFunc(g.ID, identical(g))
	for _, c := range g.StaticDescendants() {
		a.index.RemoveFunc(c.Attributes().ID, identical(c))
	}
	a.logger.Info().Str("id", g.ID).Msg("Action group removed")
	return true
}

func (a *Admin) lookupAction(id string) (*contrib.Action, string, error) {
	e, err := a.index.Get(id)
	if err != nil {
		return nil, "", err
	}
	act, ok := contrib.AsAction(e.contribution)
	if !ok {
		return nil, "", kindMismatch(id, contrib.KindAction, e.contribution.Kind())
	}
	return act, e.root, nil
}

func (a *Admin) lookupGroup(id string) (*contrib.ActionGroup, string, error) {
	e, err := a.index.Get(id)
	if err != nil {
		return nil, "", err
	}
	g, ok := contrib.AsGroup(e.contribution)
	if !ok {
		return nil, "", kindMismatch(id, contrib.KindGroup, e.contribution.Kind())
	}
	return g, e.root, nil
}

func (a *Admin) logSoft(err error, id, op string) {
	if err == nil {
		a.logger.Debug().Str("id", id).Str("operation", op).Msg("Contribution is not the registered one, ignoring")
		return
	}
	if !errors.IsSoft(err) {
		a.logger.Warn().Err(err).Str("id", id).Str("operation", op).Msg("Removal failed")
		return
	}
	a.logger.Debug().
		Str("id", id).
		Str("operation", op).
		Str("code", string(errors.GetErrorCode(err))).
		Msg("Nothing to remove")
}

// Query returns the group groupID of the set rootID
func (a *Admin) Query(rootID, groupID string) (actionset.GroupView, error) {
	set, err := a.sets.Get(rootID)
	if err != nil {
		return actionset.GroupView{}, err
	}
	return set.Query(groupID)
}

// ActionSet returns the set for rootID without creating it
func (a *Admin) ActionSet(rootID string) (*actionset.ActionSet, error) {
	return a.sets.Get(rootID)
}

// Roots lists the root ids of every set created so far
func (a *Admin) Roots() []string {
	return a.sets.Roots()
}

// Lookup returns the contribution registered under id
func (a *Admin) Lookup(id string) (contrib.Contribution, bool) {
	e, err := a.index.Get(id)
	if err != nil {
		return nil, false
	}
	return e.contribution, true
}

// IDs lists every registered contribution id in sorted order
func (a *Admin) IDs() []string {
	return a.index.List()
}

// Execute invokes the action registered under id
func (a *Admin) Execute(ctx context.Context, id string) error {
	act, _, err := a.lookupAction(id)
	if err != nil {
		return err
	}

	done := logging.LogOperationStart(a.logger.With().Str("id", id).Logger(), "execute")
	defer done()
	return act.Invoke(ctx)
}

func kindMismatch(id string, want, got contrib.Kind) *errors.RegistryError {
	return errors.Newf(errors.ErrTypeMismatch, "'%s' is registered as %s, expected %s", id, got, want).
		WithDetail("id", id).
		WithDetail("kind", got.String())
}

func identical(c contrib.Contribution) func(indexed) bool {
	return func(cur indexed) bool { return cur.contribution == c }
}
