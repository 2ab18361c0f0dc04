package dom

import "golang.org/x/net/html"

// NodeIsText is a predicate to match text-nodes of a DOM.
var NodeIsText ElementPredicate = func(n *Node) bool {
	return n != nil && n.NodeType() == html.TextNode
}

// NodeIsElement is a predicate to match element nodes of a DOM.
var NodeIsElement ElementPredicate = func(n *Node) bool {
	return n.IsElement()
}

// HasChildren returns a predicate which holds as soon as container has at
// least count child nodes. It is a typical predicate for WaitForChild.
func HasChildren(container *Node, count int) func() bool {
	return func() bool {
		return container.TreeNode().ChildCount() >= count
	}
}

// ContainsNode returns a predicate which holds as soon as child is part of
// the sub-tree of container.
func ContainsNode(container, child *Node) func() bool {
	return func() bool {
		return container.Contains(child)
	}
}
