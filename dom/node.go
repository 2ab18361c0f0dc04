package dom

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/webdom/tree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrHierarchy is returned if a DOM mutation would result in an invalid tree,
// e.g. a node being inserted into its own sub-tree.
var ErrHierarchy = errors.New("dom: hierarchy request error")

// ErrNotAChild is returned if a node is expected to be a child of another one,
// but is not.
var ErrNotAChild = errors.New("dom: node is not a child of this node")

// Node is the building block of a document. It is an element, a text node,
// a comment or a document node.
//
// Nodes are built on top of a general purpose tree node, which holds the
// parent/children structure. Changes to the list of children are reported
// to mutation observers.
type Node struct {
	tn       tree.Node[*Node] // we build on top of general purpose tree
	nodeType html.NodeType
	data     string    // lower-case tag name for elements, text otherwise
	atom     atom.Atom // atom of the tag name, or 0
	doc      *Document // owner document
	attrMx   sync.RWMutex
	attrs    []html.Attribute
	regMx    sync.Mutex
	regs     []*registration // mutation observers registered on this node
}

func newNode(doc *Document, typ html.NodeType, data string) *Node {
	n := &Node{nodeType: typ, data: data, doc: doc}
	n.tn.Payload = n // Payload will always reference the node itself
	if typ == html.ElementNode {
		n.data = strings.ToLower(data)
		n.atom = atom.Lookup([]byte(n.data))
	}
	n.tn.Watch(n.childListChanged)
	return n
}

// domNode gets the DOM node from a generic tree node.
func domNode(tn *tree.Node[*Node]) *Node {
	if tn == nil {
		return nil
	}
	return tn.Payload
}

// TreeNode returns the generic tree node this node is built on.
func (n *Node) TreeNode() *tree.Node[*Node] {
	return &n.tn
}

// NodeType returns the type of the node (ElementNode, TextNode, etc.).
func (n *Node) NodeType() html.NodeType {
	return n.nodeType
}

// IsElement is true for element nodes.
func (n *Node) IsElement() bool {
	return n != nil && n.nodeType == html.ElementNode
}

// NodeName returns the upper-case tag name for elements, "#text" for text
// nodes, "#comment" for comments and "#document" for documents.
func (n *Node) NodeName() string {
	switch n.nodeType {
	case html.ElementNode:
		return n.TagName()
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DocumentNode:
		return "#document"
	}
	return ""
}

// TagName returns the upper-case tag name of an element, or "".
func (n *Node) TagName() string {
	if !n.IsElement() {
		return ""
	}
	return strings.ToUpper(n.data)
}

// LocalName returns the lower-case tag name of an element, or "".
func (n *Node) LocalName() string {
	if n.nodeType != html.ElementNode {
		return ""
	}
	return n.data
}

// Atom returns the atom for the tag name of an element. Custom elements
// have an atom of 0.
func (n *Node) Atom() atom.Atom {
	return n.atom
}

// Data returns the text of text and comment nodes.
func (n *Node) Data() string {
	if n.nodeType == html.TextNode || n.nodeType == html.CommentNode {
		return n.data
	}
	return ""
}

// ID returns the value of the id attribute, if any.
func (n *Node) ID() string {
	if n == nil {
		return ""
	}
	id, _ := n.GetAttribute("id")
	return id
}

// OwnerDocument returns the document this node belongs to.
func (n *Node) OwnerDocument() *Document {
	return n.doc
}

// DefaultView returns the scheduling context of the owner document.
// It is part of interface Container.
func (n *Node) DefaultView() View {
	if n == nil || n.doc == nil {
		return nil
	}
	return n.doc.DefaultView()
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.nodeType {
	case html.ElementNode:
		if id := n.ID(); id != "" {
			return n.data + "#" + id
		}
		return n.data
	case html.TextNode:
		return fmt.Sprintf("%q", n.data)
	}
	return n.NodeName()
}

// --- Attributes ------------------------------------------------------------

// GetAttribute returns the value of attribute key and whether it is present.
// Keys are case-insensitive.
func (n *Node) GetAttribute(key string) (string, bool) {
	key = strings.ToLower(key)
	n.attrMx.RLock()
	defer n.attrMx.RUnlock()
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute checks for the presence of attribute key.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.GetAttribute(key)
	return ok
}

// HasAttributes checks for existence of any attributes.
func (n *Node) HasAttributes() bool {
	n.attrMx.RLock()
	defer n.attrMx.RUnlock()
	return len(n.attrs) > 0
}

// Attributes returns a copy of the attributes of the node, in order of creation.
func (n *Node) Attributes() []html.Attribute {
	n.attrMx.RLock()
	defer n.attrMx.RUnlock()
	return append([]html.Attribute(nil), n.attrs...)
}

// SetAttribute sets attribute key to val. Setting attributes on
// non-elements is a no-op.
func (n *Node) SetAttribute(key, val string) {
	if n.nodeType != html.ElementNode {
		return
	}
	key = strings.ToLower(key)
	n.attrMx.Lock()
	old, found := "", false
	for i, a := range n.attrs {
		if a.Key == key {
			old, found = a.Val, true
			n.attrs[i].Val = val
			break
		}
	}
	if !found {
		n.attrs = append(n.attrs, html.Attribute{Key: key, Val: val})
	}
	n.attrMx.Unlock()
	n.queueRecord(&MutationRecord{Type: Attributes, Target: n, AttributeName: key, OldValue: old})
}

// RemoveAttribute removes attribute key, if present.
func (n *Node) RemoveAttribute(key string) {
	key = strings.ToLower(key)
	n.attrMx.Lock()
	old, found := "", false
	for i, a := range n.attrs {
		if a.Key == key {
			old, found = a.Val, true
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			break
		}
	}
	n.attrMx.Unlock()
	if found {
		n.queueRecord(&MutationRecord{Type: Attributes, Target: n, AttributeName: key, OldValue: old})
	}
}

// --- Navigation ------------------------------------------------------------

// ParentNode returns the parent of n, or nil.
func (n *Node) ParentNode() *Node {
	return domNode(n.tn.Parent())
}

// HasChildNodes checks for existence of sub-nodes.
func (n *Node) HasChildNodes() bool {
	return n.tn.ChildCount() > 0
}

// ChildNodes returns all children of n.
func (n *Node) ChildNodes() []*Node {
	children := n.tn.Children(true)
	nodes := make([]*Node, len(children))
	for i, ch := range children {
		nodes[i] = domNode(ch)
	}
	return nodes
}

// Children returns the element children of n.
func (n *Node) Children() []*Node {
	var elements []*Node
	for _, ch := range n.ChildNodes() {
		if ch.IsElement() {
			elements = append(elements, ch)
		}
	}
	return elements
}

// FirstChild returns the first child node of n, or nil.
func (n *Node) FirstChild() *Node {
	ch, _ := n.tn.Child(0)
	return domNode(ch)
}

// LastChild returns the last child node of n, or nil.
func (n *Node) LastChild() *Node {
	ch, _ := n.tn.Child(n.tn.ChildCount() - 1)
	return domNode(ch)
}

// NextSibling returns the node's next sibling, or nil if it is the last one.
func (n *Node) NextSibling() *Node {
	return n.sibling(+1)
}

// PreviousSibling returns the node's previous sibling, or nil if it is the first one.
func (n *Node) PreviousSibling() *Node {
	return n.sibling(-1)
}

func (n *Node) sibling(offset int) *Node {
	p := n.tn.Parent()
	if p == nil {
		return nil
	}
	inx := p.IndexOfChild(&n.tn)
	if inx < 0 {
		return nil
	}
	ch, _ := p.Child(inx + offset)
	return domNode(ch)
}

// Contains returns true if other is n or a descendent of n.
func (n *Node) Contains(other *Node) bool {
	if n == nil || other == nil {
		return false
	}
	return n.tn.IsAncestorOf(&other.tn)
}

// TextContent returns the text of n and all its descendents.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case html.TextNode, html.CommentNode:
		return n.data
	case html.DocumentNode:
		return ""
	}
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	for _, ch := range n.ChildNodes() {
		switch ch.nodeType {
		case html.TextNode:
			b.WriteString(ch.data)
		case html.ElementNode:
			ch.collectText(b)
		}
	}
}

// SetTextContent replaces all children of an element by a single text node.
func (n *Node) SetTextContent(text string) {
	switch n.nodeType {
	case html.TextNode, html.CommentNode:
		n.data = text
		return
	case html.ElementNode:
		RemoveChildren(n)
		if text != "" {
			n.tn.AddChild(&newNode(n.doc, html.TextNode, text).tn)
		}
	}
}

// --- Mutation --------------------------------------------------------------

// AppendChild adds ch as the last child of n. If ch already has a parent,
// it is moved. AppendChild returns ch.
func (n *Node) AppendChild(ch *Node) (*Node, error) {
	if err := n.checkInsert(ch); err != nil {
		return nil, err
	}
	n.tn.AddChild(&ch.tn)
	return ch, nil
}

// InsertBefore inserts ch as a child of n, immediately before ref.
// If ref is nil, ch is appended.
func (n *Node) InsertBefore(ch, ref *Node) (*Node, error) {
	if ref == nil {
		return n.AppendChild(ch)
	}
	if err := n.checkInsert(ch); err != nil {
		return nil, err
	}
	if ref.ParentNode() != n {
		return nil, fmt.Errorf("insert before %v: %w", ref, ErrNotAChild)
	}
	if ch == ref {
		return ch, nil
	}
	ch.tn.Isolate()
	n.tn.InsertChildAt(n.tn.IndexOfChild(&ref.tn), &ch.tn)
	return ch, nil
}

// RemoveChild removes ch from the children of n and returns it.
func (n *Node) RemoveChild(ch *Node) (*Node, error) {
	if ch == nil || !n.tn.RemoveChild(&ch.tn) {
		return nil, fmt.Errorf("remove %v: %w", ch, ErrNotAChild)
	}
	return ch, nil
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	n.tn.Isolate()
}

func (n *Node) checkInsert(ch *Node) error {
	if ch == nil {
		return fmt.Errorf("cannot insert nil node: %w", ErrHierarchy)
	}
	if n.nodeType != html.ElementNode && n.nodeType != html.DocumentNode {
		return fmt.Errorf("%s cannot have children: %w", n.NodeName(), ErrHierarchy)
	}
	if ch.nodeType == html.DocumentNode {
		return fmt.Errorf("cannot insert a document: %w", ErrHierarchy)
	}
	if ch.Contains(n) {
		return fmt.Errorf("cannot insert %v into its own sub-tree: %w", ch, ErrHierarchy)
	}
	return nil
}

// CloneNode returns a copy of n, owned by the same document. If deep is set,
// the whole sub-tree below n is copied as well. The clone has no parent.
func (n *Node) CloneNode(deep bool) *Node {
	c := newNode(n.doc, n.nodeType, n.data)
	c.attrs = n.Attributes()
	if deep {
		for _, ch := range n.ChildNodes() {
			c.tn.AddChild(&ch.CloneNode(true).tn)
		}
	}
	return c
}

// HTMLNode returns a detached HTML node carrying the type, tag and attributes
// of n. It has no parent, siblings or children and is suitable for matching
// simple selectors against n.
func (n *Node) HTMLNode() *html.Node {
	return &html.Node{
		Type:     n.nodeType,
		Data:     n.data,
		DataAtom: n.atom,
		Attr:     n.Attributes(),
	}
}
