// Package render writes action set snapshots for people and for scripts.
//
// Three formats are supported: a lipgloss tree, indented plain text and
// JSON. Colour follows the render.color setting: "auto" enables it only for
// terminals that support it and when NO_COLOR is unset.
//
// The package also turns action shortcuts into bubbles key bindings and
// reports shortcuts claimed by more than one action in the same set.
package render
