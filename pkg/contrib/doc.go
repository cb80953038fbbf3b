// Package contrib defines the contributions plugins hand to the action
// registry: actions and action groups sharing one id-space, one target path
// and one label.
package contrib
