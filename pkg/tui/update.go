package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arthur-debert/actionreg/pkg/actionset"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// ranMsg reports the outcome of an action run
type ranMsg struct {
	id  string
	err error
}

// Update handles events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case ranMsg:
		m.err = msg.err
		if msg.err != nil {
			m.status = ""
		} else {
			m.status = "ran " + msg.id
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items())-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Open):
			return m.open()
		case key.Matches(msg, m.keys.Back):
			m = m.back()
		default:
			for _, b := range m.bindings {
				if key.Matches(msg, b.Key) {
					return m, m.runAction(b.Action.ID)
				}
			}
		}
	}
	return m, nil
}

func (m Model) open() (tea.Model, tea.Cmd) {
	items := m.items()
	if len(items) == 0 {
		return m, nil
	}
	it := items[m.cursor]
	if it.group != nil {
		return m.enter(it.group), nil
	}
	return m, m.runAction(it.action.ID)
}

func (m Model) enter(g *actionset.TreeNode) Model {
	m.path = append(m.path[:len(m.path):len(m.path)], g)
	m.cursor = 0
	m.keys.actions = m.currentActionKeys()
	return m
}

// back returns to the parent group with the cursor on the group just left
func (m Model) back() Model {
	if len(m.path) == 1 {
		return m
	}
	left := m.current().ID
	m.path = m.path[:len(m.path)-1]
	m.cursor = 0
	for i, it := range m.items() {
		if it.id() == left {
			m.cursor = i
			break
		}
	}
	m.keys.actions = m.currentActionKeys()
	return m
}

func (m Model) runAction(id string) tea.Cmd {
	ctx, run := m.ctx, m.run
	return func() tea.Msg {
		logger := logging.GetLogger("tui")
		logger.Debug().Str("id", id).Msg("Running action")
		if run == nil {
			return ranMsg{id: id}
		}
		return ranMsg{id: id, err: run(ctx, id)}
	}
}
