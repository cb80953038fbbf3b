package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/actionreg/pkg/actionset"
	"github.com/arthur-debert/actionreg/pkg/contrib"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// Options configures a Renderer
type Options struct {
	Format Format

	// Shortcuts adds action shortcuts to tree and plain output
	Shortcuts bool

	// Color enables ANSI styling; JSON output is never styled
	Color bool
}

// Renderer writes snapshots, group views and key bindings to one writer
type Renderer struct {
	w      io.Writer
	opts   Options
	styles styles
	logger zerolog.Logger
}

// New creates a renderer writing to w
func New(w io.Writer, opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatTree
	}

	lr := lipgloss.NewRenderer(w)
	switch {
	case !opts.Color:
		lr.SetColorProfile(termenv.Ascii)
	case lr.ColorProfile() == termenv.Ascii:
		// forced colour on a writer that is not a terminal
		lr.SetColorProfile(termenv.ANSI256)
	}

	logger := logging.GetLogger("render")
	logger.Debug().
		Str("format", string(opts.Format)).
		Bool("color", opts.Color).
		Msg("Renderer created")

	return &Renderer{
		w:      w,
		opts:   opts,
		styles: newStyles(lr),
		logger: logger,
	}
}

// Tree writes one snapshot
func (r *Renderer) Tree(t *actionset.TreeNode) error {
	return r.Trees([]*actionset.TreeNode{t})
}

// Trees writes several snapshots; JSON output is a single array
func (r *Renderer) Trees(trees []*actionset.TreeNode) error {
	if r.opts.Format == FormatJSON {
		out := make([]jsonGroup, 0, len(trees))
		for _, t := range trees {
			out = append(out, toJSONGroup(t))
		}
		if len(trees) == 1 {
			return r.encode(out[0])
		}
		return r.encode(out)
	}

	for i, t := range trees {
		if i > 0 {
			if _, err := fmt.Fprintln(r.w); err != nil {
				return err
			}
		}
		var err error
		if r.opts.Format == FormatPlain {
			err = r.plainTree(t)
		} else {
			_, err = fmt.Fprintln(r.w, r.lipTree(t, true).String())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Roots writes the list of root ids
func (r *Renderer) Roots(roots []string) error {
	if r.opts.Format == FormatJSON {
		if roots == nil {
			roots = []string{}
		}
		return r.encode(roots)
	}
	for _, id := range roots {
		line := id
		if r.opts.Format == FormatTree {
			line = r.styles.root.Render(id)
		}
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}

// Group writes the direct contents of one group node
func (r *Renderer) Group(v actionset.GroupView) error {
	if r.opts.Format == FormatJSON {
		out := jsonView{
			ID:       v.ID,
			Label:    v.Label(),
			Parent:   v.Parent,
			Attached: v.Attached,
			Groups:   v.ChildGroups,
			Actions:  toJSONActions(v.Actions),
		}
		if out.Groups == nil {
			out.Groups = []string{}
		}
		return r.encode(out)
	}

	var b strings.Builder
	b.WriteString(r.groupLine(v, r.styles.root))
	b.WriteString("\n")
	if !v.Attached {
		fmt.Fprintf(&b, "  %s\n", r.styles.conflict.Render("(orphaned)"))
	}
	for _, id := range v.ChildGroups {
		fmt.Fprintf(&b, "  %s/\n", r.paint(r.styles.group, id))
	}
	for _, a := range v.Actions {
		fmt.Fprintf(&b, "  %s\n", r.actionLine(a))
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Keys writes bindings, flagging the actions named in conflicts.
// Bindings of several sets may be mixed since action ids are global.
func (r *Renderer) Keys(bindings []Binding, conflicts []Conflict) error {
	clashing := make(map[string]bool)
	for _, c := range conflicts {
		for _, id := range c.Actions {
			clashing[id] = true
		}
	}

	if r.opts.Format == FormatJSON {
		out := jsonKeys{Bindings: []jsonBinding{}, Conflicts: []Conflict{}}
		for _, b := range bindings {
			out.Bindings = append(out.Bindings, jsonBinding{
				Key:      b.Key.Keys()[0],
				Action:   b.Action.ID,
				Group:    b.Group,
				Label:    b.Action.Label,
				Conflict: clashing[b.Action.ID],
			})
		}
		out.Conflicts = append(out.Conflicts, conflicts...)
		return r.encode(out)
	}

	width := 0
	for _, b := range bindings {
		if n := len(b.Key.Keys()[0]); n > width {
			width = n
		}
	}
	for _, b := range bindings {
		k := b.Key.Keys()[0]
		padded := fmt.Sprintf("%-*s", width, k)
		line := fmt.Sprintf("%s  %s  %s",
			r.paint(r.styles.shortcut, padded),
			b.Action.ID,
			r.paint(r.styles.id, b.Group))
		if clashing[b.Action.ID] {
			line += "  " + r.paint(r.styles.conflict, "conflict")
		}
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) lipTree(t *actionset.TreeNode, root bool) *tree.Tree {
	style := r.styles.group
	if root {
		style = r.styles.root
	}
	lt := tree.Root(r.groupLine(t.GroupView, style)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(r.styles.enumerator)
	for _, child := range t.Children {
		lt.Child(r.lipTree(child, false))
	}
	for _, a := range t.Actions {
		lt.Child(r.actionLine(a))
	}
	return lt
}

func (r *Renderer) plainTree(t *actionset.TreeNode) error {
	var b strings.Builder
	r.plainNode(&b, t, 0)
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) plainNode(b *strings.Builder, t *actionset.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s\n", indent, r.groupLine(t.GroupView, lipgloss.Style{}))
	for _, child := range t.Children {
		r.plainNode(b, child, depth+1)
	}
	for _, a := range t.Actions {
		fmt.Fprintf(b, "%s  - %s\n", indent, r.actionLine(a))
	}
}

func (r *Renderer) groupLine(v actionset.GroupView, style lipgloss.Style) string {
	label := v.Label()
	if label == v.ID {
		return r.paint(style, v.ID)
	}
	return r.paint(style, label) + " " + r.paint(r.styles.id, "("+v.ID+")")
}

func (r *Renderer) actionLine(a *contrib.Action) string {
	line := r.paint(r.styles.id, a.ID)
	if a.Label != "" {
		line += ": " + r.paint(r.styles.action, a.Label)
	}
	if r.opts.Shortcuts && a.Shortcut != "" {
		line += " " + r.paint(r.styles.shortcut, "["+a.Shortcut+"]")
	}
	return line
}

// paint leaves plain output free of any styling
func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if r.opts.Format == FormatPlain {
		return s
	}
	return style.Render(s)
}

func (r *Renderer) encode(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
