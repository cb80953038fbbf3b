// Package actionadmin is the public entry point of the action registry.
//
// An Admin owns one actionset.Manager and a flat index from contribution id
// to contribution. Ids are unique across every root: an action in the
// "menubar" set and a group in "logview.contextmenu" cannot share an id.
//
// Adding is all-or-nothing. The ids of a contribution, and of every static
// child it carries, are reserved in the index before the tree is touched and
// released again if the tree rejects the insertion.
//
// Removing is idempotent. Unknown ids and ids of the other kind are logged
// at debug level and reported as false, never as errors, so plugins may be
// torn down in any order.
package actionadmin
