package actionset

// TreeNode is one group of an immutable snapshot
type TreeNode struct {
	GroupView
	Children []*TreeNode
}

// Snapshot copies the attached part of the tree under a single read lock.
// Orphaned nodes are not included.
func (s *ActionSet) Snapshot() *TreeNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(s.nodes[s.rootID])
}

func (s *ActionSet) snapshot(n *node) *TreeNode {
	t := &TreeNode{GroupView: s.view(n)}
	for _, id := range n.children {
		if child := s.nodes[id]; child != nil {
			t.Children = append(t.Children, s.snapshot(child))
		}
	}
	return t
}

// Walk visits t and its descendants depth first, parents before children.
// Returning false from fn skips the node's subtree.
func (t *TreeNode) Walk(fn func(depth int, n *TreeNode) bool) {
	t.walk(0, fn)
}

func (t *TreeNode) walk(depth int, fn func(int, *TreeNode) bool) {
	if !fn(depth, t) {
		return
	}
	for _, child := range t.Children {
		child.walk(depth+1, fn)
	}
}

// Find returns the descendant (or t itself) with the given id
func (t *TreeNode) Find(id string) *TreeNode {
	var found *TreeNode
	t.Walk(func(_ int, n *TreeNode) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}
