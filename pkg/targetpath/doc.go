// Package targetpath parses the slash-delimited addresses contributions use
// to name the group they attach to.
//
// A target path has the form
//
//	root[/segment]*
//
// The first segment names the root action set (for example a context menu
// id). The remaining segments walk group nodes from that root downwards.
// No escaping is defined: a segment can never contain the separator, and
// empty segments are rejected.
//
// # Usage
//
//	root, err := targetpath.ResolveRoot("logview.contextmenu/markWithColor")
//	// root == "logview.contextmenu"
//
//	p, _ := targetpath.Parse("ctx/g1/g2")
//	p.Root      // "ctx"
//	p.Segments  // ["g1", "g2"]
//	p.Leaf()    // "g2"
package targetpath
