package dom

import (
	"fmt"
	"io"

	"github.com/npillmayer/webdom/window"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the root of a DOM. It owns its nodes and links them to a
// scheduling context (its default view).
type Document struct {
	node *Node
	view View
	win  *window.Window
}

// DocumentOption configures a new document.
type DocumentOption func(*docConfig)

type docConfig struct {
	view       View
	win        *window.Window
	noObserver bool
}

// WithWindow lets a document use an existing event loop for its default
// view. Several documents may share a window.
func WithWindow(w *window.Window) DocumentOption {
	return func(c *docConfig) {
		c.win = w
	}
}

// WithView sets a custom default view, overriding WithWindow and
// WithoutMutationObserver.
func WithView(v View) DocumentOption {
	return func(c *docConfig) {
		c.view = v
	}
}

// WithoutMutationObserver creates a default view offering timers only,
// emulating environments without DOM mutation observation.
func WithoutMutationObserver() DocumentOption {
	return func(c *docConfig) {
		c.noObserver = true
	}
}

// NewDocument creates a document with an empty <html> document element.
// Unless configured otherwise, the document gets a fresh window, which the
// client is responsible for running (see Window).
func NewDocument(opts ...DocumentOption) *Document {
	doc := newEmptyDocument(opts)
	doc.node.tn.AddChild(&doc.CreateElement("html").tn)
	return doc
}

// NewHTMLDocument creates a document with <html>, <head> and <body> elements.
func NewHTMLDocument(opts ...DocumentOption) *Document {
	doc := NewDocument(opts...)
	root := doc.DocumentElement()
	root.tn.AddChild(&doc.CreateElement("head").tn)
	root.tn.AddChild(&doc.CreateElement("body").tn)
	return doc
}

func newEmptyDocument(opts []DocumentOption) *Document {
	conf := &docConfig{}
	for _, opt := range opts {
		opt(conf)
	}
	doc := &Document{}
	doc.node = newNode(doc, html.DocumentNode, "")
	switch {
	case conf.view != nil:
		doc.view = conf.view
		if tv, ok := conf.view.(TimerView); ok {
			doc.win = tv.Window
		} else if ov, ok := conf.view.(ObservingView); ok {
			doc.win = ov.Window
		}
	default:
		doc.win = conf.win
		if doc.win == nil {
			doc.win = window.New(window.WithName("document"))
		}
		if conf.noObserver {
			doc.view = TimerView{doc.win}
		} else {
			doc.view = ObservingView{TimerView{doc.win}}
		}
	}
	return doc
}

// Parse reads an HTML document. Doctype declarations are dropped.
func Parse(r io.Reader, opts ...DocumentOption) (*Document, error) {
	h, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	doc := newEmptyDocument(opts)
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if n := doc.importHTML(c); n != nil {
			doc.node.tn.AddChild(&n.tn)
		}
	}
	tracer().Debugf("parsed document, body=%v", doc.Body())
	return doc, nil
}

// ParseFragment parses HTML in the context of a <body> element and returns
// the resulting nodes, owned by doc but not yet inserted.
func (doc *Document) ParseFragment(r io.Reader) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	hnodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	var nodes []*Node
	for _, h := range hnodes {
		if n := doc.importHTML(h); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (doc *Document) importHTML(h *html.Node) *Node {
	switch h.Type {
	case html.ElementNode, html.TextNode, html.CommentNode:
	default:
		return nil
	}
	n := newNode(doc, h.Type, h.Data)
	if h.Type == html.ElementNode {
		n.attrs = append([]html.Attribute(nil), h.Attr...)
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if ch := doc.importHTML(c); ch != nil {
			n.tn.AddChild(&ch.tn)
		}
	}
	return n
}

// Node returns the document node, the root of the tree.
func (doc *Document) Node() *Node {
	return doc.node
}

// DefaultView returns the scheduling context of the document.
// It is part of interface Container.
func (doc *Document) DefaultView() View {
	if doc == nil {
		return nil
	}
	return doc.view
}

// Window returns the event loop behind the default view, or nil if the
// document has been created with a custom view.
func (doc *Document) Window() *window.Window {
	return doc.win
}

// CreateElement creates an element owned by doc. Tag names are case-insensitive.
func (doc *Document) CreateElement(tag string) *Node {
	return newNode(doc, html.ElementNode, tag)
}

// CreateTextNode creates a text node owned by doc.
func (doc *Document) CreateTextNode(text string) *Node {
	return newNode(doc, html.TextNode, text)
}

// CreateComment creates a comment node owned by doc.
func (doc *Document) CreateComment(text string) *Node {
	return newNode(doc, html.CommentNode, text)
}

// DocumentElement returns the first element child of the document node,
// usually <html>.
func (doc *Document) DocumentElement() *Node {
	return ChildElement(doc.node, func(*Node) bool { return true })
}

// Head returns the <head> element, or nil.
func (doc *Document) Head() *Node {
	return doc.rootChild(atom.Head)
}

// Body returns the <body> element, or nil.
func (doc *Document) Body() *Node {
	return doc.rootChild(atom.Body)
}

func (doc *Document) rootChild(a atom.Atom) *Node {
	root := doc.DocumentElement()
	if root == nil {
		return nil
	}
	return ChildElement(root, func(n *Node) bool { return n.atom == a })
}

// Contains returns true if n is part of the document tree, including the
// document node itself.
func (doc *Document) Contains(n *Node) bool {
	return doc.node.Contains(n)
}
