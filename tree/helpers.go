package tree

// Predicate is a function type to match against nodes of a tree.
type Predicate[T comparable] func(test *Node[T]) bool

// Whatever is a predicate to match anything (see type Predicate).
// It is useful to match the first node in a given direction.
func Whatever[T comparable]() Predicate[T] {
	return func(*Node[T]) bool {
		return true
	}
}

// NodeIsLeaf is a predicate to match leafs of a tree.
func NodeIsLeaf[T comparable]() Predicate[T] {
	return func(test *Node[T]) bool {
		return test.ChildCount() == 0
	}
}

// AncestorWith finds the closest node matching the given predicate, starting
// with (and including) node and walking up towards the root.
// If no node matches, nil is returned.
func (node *Node[T]) AncestorWith(predicate Predicate[T]) *Node[T] {
	if predicate == nil {
		return nil
	}
	for n := node; n != nil; n = n.Parent() {
		if predicate(n) {
			return n
		}
	}
	return nil
}

// Root returns the topmost ancestor of node, which may be node itself.
func (node *Node[T]) Root() *Node[T] {
	n := node
	for n != nil && n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// IsAncestorOf returns true if node is other or one of other's ancestors.
func (node *Node[T]) IsAncestorOf(other *Node[T]) bool {
	if node == nil {
		return false
	}
	return other.AncestorWith(func(n *Node[T]) bool { return n == node }) != nil
}

// FirstDescendentWith searches the sub-tree below node in document order
// (depth first, pre-order) and returns the first node matching predicate.
// The search does not include node itself.
func (node *Node[T]) FirstDescendentWith(predicate Predicate[T]) *Node[T] {
	if predicate == nil {
		return nil
	}
	for _, ch := range node.Children(true) {
		if predicate(ch) {
			return ch
		}
		if found := ch.FirstDescendentWith(predicate); found != nil {
			return found
		}
	}
	return nil
}

// CalcRank calculates the 'rank'-member for node and all its descendents,
// meaning: the number of nodes in a sub-tree, including its root.
// Leaf nodes will have a rank of 1.
func CalcRank[T comparable](node *Node[T]) uint32 {
	r := uint32(1)
	for _, ch := range node.Children(true) {
		r += CalcRank(ch)
	}
	node.Rank = r
	return r
}
