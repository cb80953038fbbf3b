package host

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/actionreg/pkg/actionadmin"
	"github.com/arthur-debert/actionreg/pkg/actionset"
	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/errors"
)

func colorPlugin() *Plugin {
	return &Plugin{
		Name: "colorfilter",
		Groups: []*contrib.ActionGroup{{
			GroupElement: contrib.GroupElement{ID: "markWithColor", TargetGroupID: "logview.contextmenu", Label: "Mark"},
			StaticActions: []*contrib.Action{
				contrib.NewAction("markRed", "", "Red", "", nil),
				contrib.NewAction("markBlue", "", "Blue", "", nil),
			},
		}},
		Actions: []*contrib.Action{
			contrib.NewAction("unmark", "logview.contextmenu/markWithColor", "Unmark", "ctrl+u", nil),
		},
	}
}

func loadPlugin() *Plugin {
	return &Plugin{
		Name: "loadwizard",
		Groups: []*contrib.ActionGroup{
			contrib.NewActionGroup("file", "menubar", "File", contrib.GroupMenu),
		},
		Actions: []*contrib.Action{
			contrib.NewAction("load", "menubar/file", "Load...", "ctrl+o", nil),
			contrib.NewAction("markAll", "logview.contextmenu/markWithColor", "Mark all", "", nil),
		},
	}
}

func TestActivateAndDeactivate(t *testing.T) {
	admin := actionadmin.New()
	h := New(admin)

	require.NoError(t, h.Activate(colorPlugin()))
	assert.Equal(t, []string{"colorfilter"}, h.Active())
	assert.ElementsMatch(t, []string{"markWithColor", "markRed", "markBlue", "unmark"}, admin.IDs())

	p, err := h.Plugin("colorfilter")
	require.NoError(t, err)
	assert.Equal(t, "colorfilter", p.Name)

	assert.True(t, h.Deactivate("colorfilter"))
	assert.Empty(t, h.Active())
	assert.Empty(t, admin.IDs())

	assert.False(t, h.Deactivate("colorfilter"))
	_, err = h.Plugin("colorfilter")
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginNotFound))
}

func TestActivateTwice(t *testing.T) {
	h := New(actionadmin.New())
	require.NoError(t, h.Activate(colorPlugin()))

	err := h.Activate(colorPlugin())
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginActive), "got %v", err)
}

func TestActivateInvalid(t *testing.T) {
	h := New(actionadmin.New())
	assert.True(t, errors.IsErrorCode(h.Activate(nil), errors.ErrInvalidInput))
	assert.True(t, errors.IsErrorCode(h.Activate(&Plugin{}), errors.ErrInvalidInput))
	assert.True(t, errors.IsErrorCode(h.Replace(nil), errors.ErrInvalidInput))
}

func TestActivationRollsBack(t *testing.T) {
	admin := actionadmin.New()
	require.NoError(t, admin.AddAction("load", "toolbar", "Load", "", nil))
	h := New(admin)

	err := h.Activate(loadPlugin())
	require.True(t, errors.IsErrorCode(err, errors.ErrDuplicateID), "got %v", err)
	assert.Equal(t, "loadwizard", errors.GetErrorDetails(err)["plugin"])

	assert.Empty(t, h.Active())
	assert.Equal(t, []string{"load"}, admin.IDs(), "the group added before the failure is gone")
	root, err := admin.Query("menubar", "menubar")
	require.NoError(t, err)
	assert.Empty(t, root.ChildGroups)
}

func TestReplaceRestoresPreviousOnFailure(t *testing.T) {
	admin := actionadmin.New()
	h := New(admin)
	require.NoError(t, h.Activate(loadPlugin()))
	require.NoError(t, admin.AddAction("taken", "toolbar", "", "", nil))

	broken := loadPlugin()
	broken.Actions = append(broken.Actions, contrib.NewAction("taken", "menubar/file", "", "", nil))

	err := h.Replace(broken)
	require.True(t, errors.IsErrorCode(err, errors.ErrDuplicateID), "got %v", err)

	assert.Equal(t, []string{"loadwizard"}, h.Active())
	_, ok := admin.Lookup("load")
	assert.True(t, ok, "previous plugin is active again")

	updated := loadPlugin()
	updated.Actions[0].Label = "Open..."
	require.NoError(t, h.Replace(updated))
	c, _ := admin.Lookup("load")
	assert.Equal(t, "Open...", c.Attributes().Label)
}

// shape reduces a set to group -> sorted members so that trees built in
// different orders can be compared.
func shape(t *testing.T, admin *actionadmin.Admin) map[string][]string {
	t.Helper()
	out := make(map[string][]string)
	for _, root := range admin.Roots() {
		set, err := admin.ActionSet(root)
		require.NoError(t, err)
		set.Snapshot().Walk(func(_ int, n *actionset.TreeNode) bool {
			members := append([]string{}, n.ChildGroups...)
			for _, a := range n.Actions {
				members = append(members, a.ID)
			}
			sort.Strings(members)
			out[n.ID] = members
			return true
		})
	}
	return out
}

func TestActivationOrderDoesNotMatter(t *testing.T) {
	forward := actionadmin.New()
	hf := New(forward)
	require.NoError(t, hf.Activate(colorPlugin()))
	require.NoError(t, hf.Activate(loadPlugin()))

	backward := actionadmin.New()
	hb := New(backward)
	require.NoError(t, hb.Activate(loadPlugin()))
	require.NoError(t, hb.Activate(colorPlugin()))

	assert.Equal(t, shape(t, forward), shape(t, backward))
	assert.Equal(t, forward.IDs(), backward.IDs())

	t.Run("and neither does teardown order", func(t *testing.T) {
		hf.Deactivate("colorfilter")
		hb.Deactivate("loadwizard")
		hf.Deactivate("loadwizard")
		hb.Deactivate("colorfilter")

		assert.Empty(t, forward.IDs())
		assert.Empty(t, backward.IDs())
	})
}
