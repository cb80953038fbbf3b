package tui

import (
	"context"
	stderrors "errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/actionreg/pkg/actionset"
	"github.com/arthur-debert/actionreg/pkg/contrib"
)

func menuTree(t *testing.T) *actionset.TreeNode {
	t.Helper()
	set, err := actionset.NewManager().GetOrCreate("menu")
	require.NoError(t, err)

	require.NoError(t, set.AddActionGroup(contrib.NewActionGroup("file", "menu", "File", contrib.GroupMenu)))
	require.NoError(t, set.AddActionGroup(contrib.NewActionGroup("recent", "menu/file", "Recent", contrib.GroupMenu)))
	require.NoError(t, set.AddAction(contrib.NewAction("save", "menu/file", "Save", "ctrl+s", nil)))
	require.NoError(t, set.AddAction(contrib.NewAction("about", "menu", "About", "", nil)))
	return set.Snapshot()
}

type recorder struct {
	ran []string
	err error
}

func (r *recorder) run(_ context.Context, id string) error {
	r.ran = append(r.ran, id)
	return r.err
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// settle feeds the message produced by cmd back into the model
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
	keyHelp  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func TestNavigation(t *testing.T) {
	m := New(context.Background(), menuTree(t), nil)
	assert.Equal(t, "menu", m.Current())
	assert.Equal(t, "file", m.Selected(), "groups are listed before actions")

	m, _ = press(t, m, keyDown)
	assert.Equal(t, "about", m.Selected())
	m, _ = press(t, m, keyDown)
	assert.Equal(t, "about", m.Selected(), "cursor stops at the last item")

	m, _ = press(t, m, keyUp)
	m, _ = press(t, m, keyUp)
	assert.Equal(t, "file", m.Selected())

	m, cmd := press(t, m, keyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, "file", m.Current())
	assert.Equal(t, "recent", m.Selected())

	m, _ = press(t, m, keyEnter)
	assert.Equal(t, "recent", m.Current())
	assert.Equal(t, "", m.Selected())
	assert.Contains(t, m.View(), "(empty)")

	m, _ = press(t, m, keyBack)
	assert.Equal(t, "file", m.Current())
	assert.Equal(t, "recent", m.Selected(), "cursor returns to the group just left")

	m, _ = press(t, m, keyBack)
	m, _ = press(t, m, keyBack)
	assert.Equal(t, "menu", m.Current(), "back stops at the root")
}

func TestEnterRunsAction(t *testing.T) {
	rec := &recorder{}
	m := New(context.Background(), menuTree(t), rec.run)

	m, _ = press(t, m, keyDown)
	m, cmd := press(t, m, keyEnter)
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"about"}, rec.ran)
	status, err := m.Status()
	assert.NoError(t, err)
	assert.Equal(t, "ran about", status)
	assert.Contains(t, m.View(), "ran about")
}

func TestShortcutRunsAction(t *testing.T) {
	rec := &recorder{}
	m := New(context.Background(), menuTree(t), rec.run)

	// shortcuts work from any group of the set
	m, cmd := press(t, m, keyCtrlS)
	settle(t, m, cmd)
	assert.Equal(t, []string{"save"}, rec.ran)
	assert.Equal(t, "menu", m.Current())
}

func TestRunFailureShown(t *testing.T) {
	rec := &recorder{err: stderrors.New("disk full")}
	m := New(context.Background(), menuTree(t), rec.run)

	m, cmd := press(t, m, keyCtrlS)
	m = settle(t, m, cmd)

	status, err := m.Status()
	assert.Empty(t, status)
	assert.EqualError(t, err, "disk full")
	assert.Contains(t, m.View(), "error: disk full")
}

func TestHelpToggle(t *testing.T) {
	m := New(context.Background(), menuTree(t), nil)
	assert.False(t, m.ShowingHelp())

	m, _ = press(t, m, keyHelp)
	assert.True(t, m.ShowingHelp())

	m, _ = press(t, m, keyEnter)
	assert.Contains(t, m.View(), "ctrl+s", "full help lists the group's action shortcuts")

	m, _ = press(t, m, keyHelp)
	assert.False(t, m.ShowingHelp())
}

func TestQuit(t *testing.T) {
	m := New(context.Background(), menuTree(t), nil)
	_, cmd := press(t, m, keyQuit)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewBreadcrumb(t *testing.T) {
	m := New(context.Background(), menuTree(t), nil)
	m, _ = press(t, m, keyEnter)

	view := m.View()
	assert.Contains(t, view, "menu › File")
	assert.Contains(t, view, "> Recent/")
	assert.Contains(t, view, "Save")
}
