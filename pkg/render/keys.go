package render

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/arthur-debert/actionreg/pkg/actionset"
	"github.com/arthur-debert/actionreg/pkg/contrib"
)

// Binding pairs an action with the key binding derived from its shortcut
type Binding struct {
	Key    key.Binding
	Action *contrib.Action
	Group  string
}

// Conflict is a key claimed by more than one action
type Conflict struct {
	Key     string   `json:"key"`
	Actions []string `json:"actions"`
}

var modifierAliases = map[string]string{
	"control": "ctrl",
	"cmd":     "alt",
	"command": "alt",
	"meta":    "alt",
	"option":  "alt",
	"opt":     "alt",
}

// NormalizeShortcut turns "Ctrl+Shift+S" style shortcuts into the key names
// bubbletea reports ("ctrl+shift+s"). A bare printable key keeps its case
// since "G" and "g" are different keys.
func NormalizeShortcut(shortcut string) string {
	s := strings.TrimSpace(shortcut)
	if s == "" {
		return ""
	}

	var mods []string
	k := s
	// the key itself may be "+", as in "ctrl++"
	if i := strings.LastIndex(s[:len(s)-1], "+"); i >= 0 {
		for _, m := range strings.Split(s[:i], "+") {
			m = strings.ToLower(strings.TrimSpace(m))
			if alias, ok := modifierAliases[m]; ok {
				m = alias
			}
			if m != "" {
				mods = append(mods, m)
			}
		}
		k = strings.TrimSpace(s[i+1:])
	}
	if len([]rune(k)) > 1 || len(mods) > 0 {
		k = strings.ToLower(k)
	}
	return strings.Join(append(mods, k), "+")
}

// BindingFor converts an action's shortcut; ok is false when it has none
func BindingFor(a *contrib.Action) (key.Binding, bool) {
	k := NormalizeShortcut(a.Shortcut)
	if k == "" {
		return key.Binding{}, false
	}
	return key.NewBinding(
		key.WithKeys(k),
		key.WithHelp(a.Shortcut, a.Label),
	), true
}

// Bindings lists the bindings of every attached action in tree order
func Bindings(tree *actionset.TreeNode) []Binding {
	var out []Binding
	tree.Walk(func(_ int, n *actionset.TreeNode) bool {
		for _, a := range n.Actions {
			if b, ok := BindingFor(a); ok {
				out = append(out, Binding{Key: b, Action: a, Group: n.ID})
			}
		}
		return true
	})
	return out
}

// Conflicts reports keys bound to more than one action, sorted by key.
// Actions keep tree order.
func Conflicts(tree *actionset.TreeNode) []Conflict {
	byKey := make(map[string][]string)
	var keys []string
	for _, b := range Bindings(tree) {
		k := b.Key.Keys()[0]
		if _, seen := byKey[k]; !seen {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], b.Action.ID)
	}
	sort.Strings(keys)

	var out []Conflict
	for _, k := range keys {
		if len(byKey[k]) > 1 {
			out = append(out, Conflict{Key: k, Actions: byKey[k]})
		}
	}
	return out
}
