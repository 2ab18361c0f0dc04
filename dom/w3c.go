package dom

import (
	"strings"

	"github.com/npillmayer/webdom/dom/w3cdom"
	"golang.org/x/net/html"
)

// W3CNode adapts a DOM node to interface w3cdom.Node.
type W3CNode struct {
	*Node
}

// W3C returns n as a w3cdom.Node. It returns nil for a nil node.
func W3C(n *Node) w3cdom.Node {
	if n == nil {
		return nil
	}
	return W3CNode{n}
}

// NodeValue is the text of text and comment nodes, empty otherwise.
func (w W3CNode) NodeValue() string {
	return w.Data()
}

// ParentNode is part of interface w3cdom.Node.
func (w W3CNode) ParentNode() w3cdom.Node {
	return W3C(w.Node.ParentNode())
}

// ChildNodes is part of interface w3cdom.Node.
func (w W3CNode) ChildNodes() w3cdom.NodeList {
	return nodeList(w.Node.ChildNodes())
}

// Children is part of interface w3cdom.Node.
func (w W3CNode) Children() w3cdom.NodeList {
	return nodeList(w.Node.Children())
}

// FirstChild is part of interface w3cdom.Node.
func (w W3CNode) FirstChild() w3cdom.Node {
	return W3C(w.Node.FirstChild())
}

// NextSibling is part of interface w3cdom.Node.
func (w W3CNode) NextSibling() w3cdom.Node {
	return W3C(w.Node.NextSibling())
}

// Attributes is part of interface w3cdom.Node.
func (w W3CNode) Attributes() w3cdom.NamedNodeMap {
	return attrMap(w.Node.Attributes())
}

var _ w3cdom.Node = W3CNode{}

// --- Node lists and attribute maps ----------------------------------------

type nodeList []*Node

func (l nodeList) Length() int {
	return len(l)
}

func (l nodeList) Item(i int) w3cdom.Node {
	if i < 0 || i >= len(l) {
		return nil
	}
	return W3C(l[i])
}

func (l nodeList) String() string {
	names := make([]string, len(l))
	for i, n := range l {
		names[i] = n.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

type attr struct {
	a html.Attribute
}

func (a attr) Namespace() string { return a.a.Namespace }
func (a attr) Key() string       { return a.a.Key }
func (a attr) Value() string     { return a.a.Val }

type attrMap []html.Attribute

func (m attrMap) Length() int {
	return len(m)
}

func (m attrMap) Item(i int) w3cdom.Attr {
	if i < 0 || i >= len(m) {
		return nil
	}
	return attr{m[i]}
}

func (m attrMap) GetNamedItem(key string) w3cdom.Attr {
	key = strings.ToLower(key)
	for _, a := range m {
		if a.Key == key {
			return attr{a}
		}
	}
	return nil
}
