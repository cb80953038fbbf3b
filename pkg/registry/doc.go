// Package registry provides a generic, thread-safe, name-keyed registry.
// It backs the contribution flat index, the action set table and the
// handler factory table.
package registry
