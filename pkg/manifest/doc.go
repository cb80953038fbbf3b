// Package manifest reads plugin descriptor files and turns them into
// host.Plugin values.
//
// A manifest names the plugin and lists the groups and actions it
// contributes. Actions carry no code; they name a handler from a
// handlers.Set and pass it options.
//
//	name = "colorfilter"
//
//	[[groups]]
//	id = "markWithColor"
//	target = "logview.contextmenu"
//	label = "Mark with color"
//
//	  [[groups.actions]]
//	  id = "markRed"
//	  label = "Red"
//	  handler = "log"
//	  args = { message = "marked red" }
//
//	[[actions]]
//	id = "unmark"
//	target = "logview.contextmenu/markWithColor"
//	label = "Unmark"
//	shortcut = "ctrl+u"
//	handler = "print"
//	args = { message = "unmarked" }
//
// TOML (.toml) and YAML (.yaml, .yml) are accepted. Every document is checked
// against the schema returned by Schema before it is decoded.
package manifest
