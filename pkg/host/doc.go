// Package host activates and deactivates plugins against the action registry.
//
// A Plugin is a named bundle of groups and actions. Activate adds the groups
// first and then the actions, each in the order given; if any addition fails
// the additions made so far are removed again and the registry is left as it
// was. Deactivate removes a plugin's contributions in reverse order. Because
// the registry creates group nodes on first reference, plugins may be
// activated in any order and produce the same trees.
//
// Watcher keeps a host in step with a set of manifest files on disk.
package host
