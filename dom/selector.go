package dom

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Scope selectors (":scope > tag") are how child lookups are done when the
// selector engine supports them. The alternative is a plain walk over the
// children. Tests may force either path.
var scopeSelector struct {
	sync.RWMutex
	forced *bool
}

// SetScopeSelectorSupportedForTesting forces child lookups to use (true) or
// not use (false) the selector engine. nil restores auto-detection.
func SetScopeSelectorSupportedForTesting(supported *bool) {
	scopeSelector.Lock()
	defer scopeSelector.Unlock()
	scopeSelector.forced = supported
}

func scopeSelectorSupported() bool {
	scopeSelector.RLock()
	defer scopeSelector.RUnlock()
	if scopeSelector.forced != nil {
		return *scopeSelector.forced
	}
	return true
}

// compileSimple compiles a selector matching single elements. Only the
// element itself (tag and attributes) is examined, never its context.
func compileSimple(sel string) (ElementPredicate, bool) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		tracer().Debugf("selector %q does not compile: %v", sel, err)
		return nil, false
	}
	return func(n *Node) bool {
		return s.Match(n.HTMLNode())
	}, true
}

// QuerySelector returns the first descendent of root matching the CSS
// selector sel, in document order. root itself is not considered.
func QuerySelector(root *Node, sel string) (*Node, error) {
	all, err := querySelector(root, sel, true)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

// QuerySelectorAll returns all descendents of root matching the CSS
// selector sel, in document order.
func QuerySelectorAll(root *Node, sel string) ([]*Node, error) {
	return querySelector(root, sel, false)
}

func querySelector(root *Node, sel string, first bool) ([]*Node, error) {
	if root == nil {
		return nil, nil
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("query selector %q: %w", sel, err)
	}
	h, index := root.htmlTree()
	var matches []*Node
	var walk func(*html.Node) bool
	walk = func(p *html.Node) bool {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if s.Match(c) {
				matches = append(matches, index[c])
				if first {
					return true
				}
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(h)
	return matches, nil
}

// htmlTree mirrors the sub-tree below n as an HTML tree. The index maps
// mirrored nodes back to DOM nodes.
func (n *Node) htmlTree() (*html.Node, map[*html.Node]*Node) {
	index := make(map[*html.Node]*Node)
	var mirror func(*Node) *html.Node
	mirror = func(d *Node) *html.Node {
		h := d.HTMLNode()
		index[h] = d
		for _, ch := range d.ChildNodes() {
			h.AppendChild(mirror(ch))
		}
		return h
	}
	return mirror(n), index
}

// OuterHTML renders n and its sub-tree as HTML.
func (n *Node) OuterHTML() string {
	h, _ := n.htmlTree()
	var buf bytes.Buffer
	if err := html.Render(&buf, h); err != nil {
		tracer().Errorf("render %v: %v", n, err)
	}
	return buf.String()
}
