/*
Package w3cdom declares the read-only view of a document tree which tools
consume without depending on a concrete DOM implementation.

The interfaces follow the naming of the W3C DOM (nodeName, childNodes,
NamedNodeMap, ...), restricted to navigation and inspection. Mutation goes
through the concrete node types of package dom; package dom/domdbg prints
any tree implementing Node.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package w3cdom

import (
	"golang.org/x/net/html"
)

// Node is a node of a document tree: the document itself, an element,
// a text node or a comment.
type Node interface {
	NodeType() html.NodeType
	NodeName() string  // upper-case tag, or "#text", "#comment", "#document"
	NodeValue() string // text of text and comment nodes
	HasAttributes() bool
	ParentNode() Node // nil for the root
	HasChildNodes() bool
	ChildNodes() NodeList // all children, in document order
	Children() NodeList   // element children only
	FirstChild() Node
	NextSibling() Node // nil for the last child
	Attributes() NamedNodeMap
	TextContent() string // concatenated text of all descendents
}

// NodeList is an ordered snapshot of nodes. Item returns nil for an index
// out of range.
type NodeList interface {
	Length() int
	Item(int) Node
	String() string
}

// Attr is a single attribute of an element.
type Attr interface {
	Namespace() string
	Key() string
	Value() string
}

// NamedNodeMap holds the attributes of an element in order of creation.
// Lookup by key is case-insensitive.
type NamedNodeMap interface {
	Length() int
	Item(int) Attr
	GetNamedItem(string) Attr
}
