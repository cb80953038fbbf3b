package render

import (
	"github.com/arthur-debert/actionreg/pkg/actionset"
	"github.com/arthur-debert/actionreg/pkg/contrib"
)

type jsonAction struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Shortcut string `json:"shortcut,omitempty"`
}

type jsonGroup struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Type    string       `json:"type,omitempty"`
	Final   bool         `json:"final,omitempty"`
	Groups  []jsonGroup  `json:"groups"`
	Actions []jsonAction `json:"actions"`
}

type jsonView struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Parent   string       `json:"parent,omitempty"`
	Attached bool         `json:"attached"`
	Groups   []string     `json:"groups"`
	Actions  []jsonAction `json:"actions"`
}

type jsonBinding struct {
	Key      string `json:"key"`
	Action   string `json:"action"`
	Group    string `json:"group"`
	Label    string `json:"label,omitempty"`
	Conflict bool   `json:"conflict,omitempty"`
}

type jsonKeys struct {
	Bindings  []jsonBinding `json:"bindings"`
	Conflicts []Conflict    `json:"conflicts"`
}

func toJSONGroup(t *actionset.TreeNode) jsonGroup {
	g := jsonGroup{
		ID:      t.ID,
		Label:   t.Label(),
		Groups:  make([]jsonGroup, 0, len(t.Children)),
		Actions: toJSONActions(t.Actions),
	}
	if t.Group != nil {
		g.Type = string(t.Group.Type)
		g.Final = t.Group.Final
	}
	for _, child := range t.Children {
		g.Groups = append(g.Groups, toJSONGroup(child))
	}
	return g
}

func toJSONActions(actions []*contrib.Action) []jsonAction {
	out := make([]jsonAction, 0, len(actions))
	for _, a := range actions {
		out = append(out, jsonAction{ID: a.ID, Label: a.Label, Shortcut: a.Shortcut})
	}
	return out
}
