package contrib_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestKindDiscriminates(t *testing.T) {
	var a contrib.Contribution = contrib.NewAction("a1", "ctx", "A", "", nil)
	var g contrib.Contribution = contrib.NewActionGroup("g1", "ctx", "G", contrib.GroupMenu)

	assert.Equal(t, contrib.KindAction, a.Kind())
	assert.Equal(t, contrib.KindGroup, g.Kind())
	assert.Equal(t, "action", a.Kind().String())
	assert.Equal(t, "group", g.Kind().String())
	assert.Equal(t, "a1", a.Attributes().ID)
	assert.Equal(t, "ctx", g.Attributes().TargetGroupID)
}

func TestParseGroupType(t *testing.T) {
	assert.Equal(t, contrib.GroupMenu, contrib.ParseGroupType(""))
	assert.Equal(t, contrib.GroupToolbar, contrib.ParseGroupType("toolbar"))
	assert.Equal(t, contrib.GroupRadio, contrib.ParseGroupType(" Radio "))

	custom := contrib.ParseGroupType("ribbon")
	assert.Equal(t, contrib.GroupType("RIBBON"), custom)
	assert.False(t, custom.Known())
	assert.True(t, contrib.GroupSection.Known())
}

func TestInvoke(t *testing.T) {
	ctx := context.Background()

	t.Run("runs executor", func(t *testing.T) {
		exec := &mockExecutor{}
		exec.On("Execute", ctx).Return(nil).Once()

		a := contrib.NewAction("a1", "ctx", "A", "ctrl+a", exec)
		require.NoError(t, a.Invoke(ctx))
		exec.AssertExpectations(t)
	})

	t.Run("wraps executor failure", func(t *testing.T) {
		cause := stderrors.New("boom")
		exec := &mockExecutor{}
		exec.On("Execute", ctx).Return(cause)

		err := contrib.NewAction("a1", "ctx", "A", "", exec).Invoke(ctx)
		assert.True(t, errors.IsErrorCode(err, errors.ErrActionExecute))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil executor", func(t *testing.T) {
		err := contrib.NewAction("a1", "ctx", "A", "", nil).Invoke(ctx)
		assert.True(t, errors.IsErrorCode(err, errors.ErrActionExecute))
	})

	t.Run("executor func", func(t *testing.T) {
		called := false
		a := contrib.NewAction("a1", "ctx", "A", "", contrib.ExecutorFunc(func(context.Context) error {
			called = true
			return nil
		}))
		require.NoError(t, a.Invoke(ctx))
		assert.True(t, called)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		c    contrib.Contribution
		code errors.ErrorCode
	}{
		{"nil", nil, errors.ErrInvalidInput},
		{"empty id", contrib.NewAction("", "ctx", "", "", nil), errors.ErrInvalidInput},
		{"id with separator", contrib.NewAction("a/b", "ctx", "", "", nil), errors.ErrMalformedPath},
		{"empty target", contrib.NewAction("a1", "", "", "", nil), errors.ErrMalformedPath},
		{"action below itself", contrib.NewAction("a1", "ctx/a1", "", "", nil), errors.ErrMalformedPath},
		{"group below itself", contrib.NewActionGroup("g1", "ctx/g1/x", "", contrib.GroupMenu), errors.ErrMalformedPath},
		{"group named like root", contrib.NewActionGroup("ctx", "ctx", "", contrib.GroupMenu), errors.ErrMalformedPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := contrib.Validate(tt.c)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}

	assert.NoError(t, contrib.Validate(contrib.NewAction("a1", "ctx/g1", "", "", nil)))
}

func TestParentPath(t *testing.T) {
	t.Run("group target names the parent", func(t *testing.T) {
		p, err := contrib.ParentPath(contrib.NewActionGroup("g2", "ctx/g1", "", contrib.GroupMenu))
		require.NoError(t, err)
		assert.Equal(t, "ctx/g1", p.String())
	})

	t.Run("group target ending in its own id", func(t *testing.T) {
		g := contrib.NewActionGroup("markWithColor", "ctx/markWithColor", "", contrib.GroupMenu)
		p, err := contrib.ParentPath(g)
		require.NoError(t, err)
		assert.Equal(t, "ctx", p.String())

		own, err := g.OwnPath()
		require.NoError(t, err)
		assert.Equal(t, "ctx/markWithColor", own.String())
	})

	t.Run("action target is its group", func(t *testing.T) {
		p, err := contrib.ParentPath(contrib.NewAction("a1", "ctx/g1/g2", "", "", nil))
		require.NoError(t, err)
		assert.Equal(t, "g2", p.Leaf())
	})
}

func TestFlatten(t *testing.T) {
	red := contrib.NewAction("markRed", "", "Red", "", nil)
	blue := contrib.NewAction("markBlue", "", "Blue", "", nil)
	sub := &contrib.ActionGroup{
		GroupElement:  contrib.GroupElement{ID: "more"},
		StaticActions: []*contrib.Action{contrib.NewAction("markGray", "", "Gray", "", nil)},
	}
	group := &contrib.ActionGroup{
		GroupElement:  contrib.GroupElement{ID: "markWithColor", TargetGroupID: "ctx", Label: "Mark"},
		StaticGroups:  []*contrib.ActionGroup{sub},
		StaticActions: []*contrib.Action{red, blue},
	}
	require.True(t, group.HasStaticChildren())

	all, err := group.Flatten()
	require.NoError(t, err)

	ids := make([]string, len(all))
	parents := make([]string, len(all))
	for i, m := range all {
		ids[i] = m.Attributes().ID
		parents[i] = m.Parent.String()
	}
	assert.Equal(t, []string{"markWithColor", "more", "markGray", "markRed", "markBlue"}, ids)
	assert.Equal(t, []string{
		"ctx",
		"ctx/markWithColor",
		"ctx/markWithColor/more",
		"ctx/markWithColor",
		"ctx/markWithColor",
	}, parents)

	assert.Empty(t, red.TargetGroupID, "Flatten leaves the children untouched")
	assert.Empty(t, sub.TargetGroupID)

	for _, m := range all {
		m.Adopt()
	}
	assert.Equal(t, "ctx", group.TargetGroupID)
	assert.Equal(t, "ctx/markWithColor", red.TargetGroupID)
	assert.Equal(t, "ctx/markWithColor", sub.TargetGroupID)
	assert.Equal(t, "ctx/markWithColor/more", sub.StaticActions[0].TargetGroupID)
}

func TestFlattenRejectsStaticChildNamedLikeOwner(t *testing.T) {
	group := &contrib.ActionGroup{
		GroupElement:  contrib.GroupElement{ID: "g1", TargetGroupID: "ctx"},
		StaticActions: []*contrib.Action{contrib.NewAction("g1", "", "", "", nil)},
	}

	_, err := group.Flatten()
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedPath), "got %v", err)
	assert.Empty(t, group.StaticActions[0].TargetGroupID)
}

func TestFlattenRejectsForeignTarget(t *testing.T) {
	group := &contrib.ActionGroup{
		GroupElement:  contrib.GroupElement{ID: "g1", TargetGroupID: "ctx"},
		StaticActions: []*contrib.Action{contrib.NewAction("a1", "ctx/elsewhere", "", "", nil)},
	}

	_, err := group.Flatten()
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedPath), "got %v", err)
}

func TestFlattenAcceptsMatchingTarget(t *testing.T) {
	group := &contrib.ActionGroup{
		GroupElement:  contrib.GroupElement{ID: "g1", TargetGroupID: "ctx"},
		StaticActions: []*contrib.Action{contrib.NewAction("a1", "ctx/g1", "", "", nil)},
	}

	all, err := group.Flatten()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAsActionAsGroup(t *testing.T) {
	a := contrib.NewAction("a1", "ctx", "", "", nil)
	g := contrib.NewActionGroup("g1", "ctx", "", contrib.GroupMenu)

	got, ok := contrib.AsAction(a)
	assert.True(t, ok)
	assert.Same(t, a, got)
	_, ok = contrib.AsAction(g)
	assert.False(t, ok)

	gg, ok := contrib.AsGroup(g)
	assert.True(t, ok)
	assert.Same(t, g, gg)
	_, ok = contrib.AsGroup(a)
	assert.False(t, ok)
	_, ok = contrib.AsGroup(nil)
	assert.False(t, ok)
}

func TestStaticDescendants(t *testing.T) {
	leaf := contrib.NewAction("leaf", "", "", "", nil)
	sub := &contrib.ActionGroup{GroupElement: contrib.GroupElement{ID: "sub"}, StaticActions: []*contrib.Action{leaf}}
	top := contrib.NewAction("top", "", "", "", nil)
	g := &contrib.ActionGroup{
		GroupElement:  contrib.GroupElement{ID: "g", TargetGroupID: "ctx"},
		StaticGroups:  []*contrib.ActionGroup{sub},
		StaticActions: []*contrib.Action{top},
	}

	var ids []string
	for _, c := range g.StaticDescendants() {
		ids = append(ids, c.Attributes().ID)
	}
	assert.Equal(t, []string{"sub", "leaf", "top"}, ids)
}
