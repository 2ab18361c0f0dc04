/*
Package domdbg implements helpers to debug a DOM tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/npillmayer/webdom/dom/w3cdom"
	tp "github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

// maximum length of text shown for text nodes
const maxText = 24

// Print outputs an indented drawing of the DOM tree under n to w.
// Elements are shown with their attributes, text nodes with (shortened)
// text. Whitespace-only text nodes are omitted.
//
//     <div> id=main
//     ├── <p>
//     │   └── "Hello"
//     └── <span>
//
func Print(n w3cdom.Node, w io.Writer) {
	if n == nil {
		return
	}
	io.WriteString(w, Tree(n).String())
}

// Tree returns the DOM tree under n as a printable tree.
func Tree(n w3cdom.Node) tp.Tree {
	printer := tp.New()
	printer.SetValue(label(n))
	children(printer, n)
	return printer
}

// Dump is a helper for testing. It logs the DOM tree under n.
func Dump(n w3cdom.Node, t *testing.T) {
	t.Helper()
	var b strings.Builder
	Print(n, &b)
	t.Logf("DOM tree:\n%s", b.String())
}

func children(printer tp.Tree, n w3cdom.Node) {
	list := n.ChildNodes()
	for i := 0; i < list.Length(); i++ {
		ch := list.Item(i)
		if ch.NodeType() == html.TextNode && strings.TrimSpace(ch.NodeValue()) == "" {
			continue
		}
		if !ch.HasChildNodes() {
			printer.AddNode(label(ch))
			continue
		}
		branch := printer.AddBranch(label(ch))
		children(branch, ch)
	}
}

func label(n w3cdom.Node) string {
	switch n.NodeType() {
	case html.ElementNode:
		var b strings.Builder
		fmt.Fprintf(&b, "<%s>", strings.ToLower(n.NodeName()))
		attrs := n.Attributes()
		for i := 0; i < attrs.Length(); i++ {
			a := attrs.Item(i)
			fmt.Fprintf(&b, " %s=%s", a.Key(), a.Value())
		}
		return b.String()
	case html.TextNode:
		return fmt.Sprintf("%q", shortText(n.NodeValue()))
	case html.CommentNode:
		return "<!-- " + shortText(n.NodeValue()) + " -->"
	}
	return n.NodeName()
}

func shortText(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > maxText {
		return string(r[:maxText-1]) + "…"
	}
	return string(r)
}
