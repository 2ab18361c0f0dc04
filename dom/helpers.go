package dom

import (
	"strings"

	"github.com/npillmayer/webdom/tree"
)

// ElementPredicate is a function type to match against DOM nodes.
type ElementPredicate func(*Node) bool

// RemoveChildren removes all children of parent.
func RemoveChildren(parent *Node) {
	removed := parent.tn.RemoveChildren()
	tracer().Debugf("removed %d children from %v", len(removed), parent)
}

// CopyChildren appends deep copies of the children of from to to.
func CopyChildren(from, to *Node) error {
	for _, ch := range from.ChildNodes() {
		if _, err := to.AppendChild(ch.CloneNode(true)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveElement removes el from its parent, if any.
func RemoveElement(el *Node) {
	if el != nil {
		el.Remove()
	}
}

// Closest finds the closest node matching the predicate, starting with
// (and including) el and walking up the ancestors.
func Closest(el *Node, pred ElementPredicate) *Node {
	if el == nil || pred == nil {
		return nil
	}
	return domNode(el.tn.AncestorWith(func(tn *tree.Node[*Node]) bool {
		return pred(domNode(tn))
	}))
}

// ClosestByTag finds the closest element with the given tag name, starting
// with (and including) el. Tag names are compared case-insensitively.
func ClosestByTag(el *Node, tag string) *Node {
	return Closest(el, hasTag(tag))
}

// ElementByTag returns the first descendent element of root with the given
// tag name, in document order. root itself is not considered.
func ElementByTag(root *Node, tag string) *Node {
	if root == nil {
		return nil
	}
	match := hasTag(tag)
	return domNode(root.tn.FirstDescendentWith(func(tn *tree.Node[*Node]) bool {
		return match(domNode(tn))
	}))
}

// ChildElement returns the first element child of parent matching the
// predicate, or nil.
func ChildElement(parent *Node, pred ElementPredicate) *Node {
	if parent == nil || pred == nil {
		return nil
	}
	for _, ch := range parent.ChildNodes() {
		if ch.IsElement() && pred(ch) {
			return ch
		}
	}
	return nil
}

// ChildElements returns all element children of parent matching the predicate.
func ChildElements(parent *Node, pred ElementPredicate) []*Node {
	if parent == nil || pred == nil {
		return nil
	}
	var matches []*Node
	for _, ch := range parent.ChildNodes() {
		if ch.IsElement() && pred(ch) {
			matches = append(matches, ch)
		}
	}
	return matches
}

// ChildElementByTag returns the first element child of parent with the given
// tag name. Grandchildren are never matched.
func ChildElementByTag(parent *Node, tag string) *Node {
	if scopeSelectorSupported() {
		if sel, ok := compileSimple(strings.ToLower(tag)); ok {
			return ChildElement(parent, sel)
		}
	}
	return ChildElement(parent, hasTag(tag))
}

// ChildElementByAttr returns the first element child of parent having
// attribute attr. Grandchildren are never matched.
func ChildElementByAttr(parent *Node, attr string) *Node {
	if scopeSelectorSupported() {
		if sel, ok := compileSimple("[" + strings.ToLower(attr) + "]"); ok {
			return ChildElement(parent, sel)
		}
	}
	return ChildElement(parent, func(n *Node) bool {
		return n.HasAttribute(attr)
	})
}

// DocumentContains returns true if n is part of doc, including the document
// node itself and the document element.
func DocumentContains(doc *Document, n *Node) bool {
	if doc == nil {
		return false
	}
	return doc.Contains(n)
}

// DocumentContainsPolyfill decides document containment without walking
// up from n to the document node: n is either the document node, or it is
// contained in the document element.
func DocumentContainsPolyfill(doc *Document, n *Node) bool {
	if doc == nil || n == nil {
		return false
	}
	if n == doc.Node() {
		return true
	}
	root := doc.DocumentElement()
	return root != nil && root.Contains(n)
}

func hasTag(tag string) ElementPredicate {
	tag = strings.ToLower(tag)
	return func(n *Node) bool {
		return n.IsElement() && n.data == tag
	}
}
