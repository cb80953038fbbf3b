package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arthur-debert/actionreg/pkg/actionset"
	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/render"
)

// Runner executes an action by id; actionadmin.Admin.Execute fits
type Runner func(ctx context.Context, id string) error

// item is one row of the current group: a child group or an action
type item struct {
	group  *actionset.TreeNode
	action *contrib.Action
}

func (i item) id() string {
	if i.group != nil {
		return i.group.ID
	}
	return i.action.ID
}

// Model browses one action set snapshot like a menu
type Model struct {
	ctx  context.Context
	run  Runner
	path []*actionset.TreeNode // root first, current group last

	cursor   int
	keys     KeyMap
	bindings []render.Binding
	help     help.Model

	status string
	err    error
	width  int
}

// New creates a browser positioned on the snapshot's root
func New(ctx context.Context, tree *actionset.TreeNode, run Runner) Model {
	m := Model{
		ctx:      ctx,
		run:      run,
		path:     []*actionset.TreeNode{tree},
		keys:     defaultKeyMap,
		bindings: render.Bindings(tree),
		help:     help.New(),
	}
	m.keys.actions = m.currentActionKeys()
	return m
}

// Run shows the browser until the user quits or ctx is cancelled
func Run(ctx context.Context, tree *actionset.TreeNode, run Runner) error {
	p := tea.NewProgram(New(ctx, tree, run), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Current returns the id of the group being shown
func (m Model) Current() string {
	return m.current().ID
}

// Selected returns the id under the cursor, or "" for an empty group
func (m Model) Selected() string {
	items := m.items()
	if len(items) == 0 {
		return ""
	}
	return items[m.cursor].id()
}

// Status returns the outcome of the last action run
func (m Model) Status() (string, error) {
	return m.status, m.err
}

// ShowingHelp reports whether the full help is displayed
func (m Model) ShowingHelp() bool {
	return m.help.ShowAll
}

func (m Model) current() *actionset.TreeNode {
	return m.path[len(m.path)-1]
}

// items lists child groups before actions, as the tree renderer does
func (m Model) items() []item {
	cur := m.current()
	out := make([]item, 0, len(cur.Children)+len(cur.Actions))
	for _, g := range cur.Children {
		out = append(out, item{group: g})
	}
	for _, a := range cur.Actions {
		out = append(out, item{action: a})
	}
	return out
}

func (m Model) currentActionKeys() []key.Binding {
	var out []key.Binding
	for _, a := range m.current().Actions {
		if b, ok := render.BindingFor(a); ok {
			out = append(out, b)
		}
	}
	return out
}
