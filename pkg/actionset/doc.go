// Package actionset holds the per-root action trees and the manager that
// owns them.
//
// An ActionSet maps group ids to group nodes. Each node keeps its actions
// and its child group ids in insertion order. Nodes are created lazily, root
// to leaf, the first time a contribution addresses them, and are never
// deleted: removing a group only detaches its node from the parent, leaving
// an orphan that can be queried directly and that a later contribution may
// re-attach.
//
// Every ActionSet has its own RWMutex. Insertions (including a group's static
// children) are validated completely before the first mutation and applied
// under the write lock, so readers never see a partial insertion and a failed
// insertion leaves the tree unchanged.
package actionset
