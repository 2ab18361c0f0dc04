package dom

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAppend(t *testing.T, parent, child *Node) *Node {
	t.Helper()
	_, err := parent.AppendChild(child)
	require.NoError(t, err)
	return child
}

func TestRemoveChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	doc := NewDocument()
	element := doc.CreateElement("div")
	mustAppend(t, element, doc.CreateElement("div"))
	mustAppend(t, element, doc.CreateTextNode("ABC"))
	assert.Len(t, element.Children(), 1)
	assert.NotNil(t, element.FirstChild())
	assert.Equal(t, "ABC", element.TextContent())

	RemoveChildren(element)
	assert.Len(t, element.Children(), 0)
	assert.Nil(t, element.FirstChild())
	assert.Equal(t, "", element.TextContent())
}

func TestCopyChildren(t *testing.T) {
	doc := NewDocument()
	element := doc.CreateElement("div")
	mustAppend(t, element, doc.CreateElement("div"))
	mustAppend(t, element, doc.CreateTextNode("ABC"))

	other := doc.CreateElement("div")
	require.NoError(t, CopyChildren(element, other))

	assert.Len(t, element.Children(), 1)
	assert.NotNil(t, element.FirstChild())
	assert.Equal(t, "ABC", element.TextContent())

	assert.Len(t, other.Children(), 1)
	require.NotNil(t, other.FirstChild())
	assert.Equal(t, "DIV", other.FirstChild().TagName())
	assert.Equal(t, "ABC", other.TextContent())
	assert.NotSame(t, element.FirstChild(), other.FirstChild(), "children are copied, not moved")
}

func TestClosestFindsItself(t *testing.T) {
	doc := NewDocument()
	element := doc.CreateElement("div")
	child := mustAppend(t, element, doc.CreateElement("div"))

	assert.Same(t, child, Closest(child, func(*Node) bool { return true }))
	assert.Same(t, child, ClosestByTag(child, "div"))
	assert.Same(t, child, ClosestByTag(child, "DIV"))
}

func TestClosestFindsFirstMatch(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("parent")
	element := mustAppend(t, parent, doc.CreateElement("element"))
	child := mustAppend(t, element, doc.CreateElement("child"))

	tagIs := func(tag string) ElementPredicate {
		return func(n *Node) bool { return n.TagName() == tag }
	}
	assert.Same(t, child, Closest(child, tagIs("CHILD")))
	assert.Same(t, child, ClosestByTag(child, "child"))
	assert.Same(t, element, Closest(child, tagIs("ELEMENT")))
	assert.Same(t, element, ClosestByTag(child, "element"))
	assert.Same(t, parent, Closest(child, tagIs("PARENT")))
	assert.Same(t, parent, ClosestByTag(child, "parent"))
	assert.Nil(t, ClosestByTag(child, "body"))
}

func TestElementByTagFindsFirstMatch(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("parent")
	element1 := mustAppend(t, parent, doc.CreateElement("element"))
	mustAppend(t, parent, doc.CreateElement("element"))

	assert.Same(t, element1, ElementByTag(parent, "element"))
	assert.Same(t, element1, ElementByTag(parent, "ELEMENT"))
	assert.Nil(t, ElementByTag(parent, "parent"), "root is not considered")
}

func TestChildElementFindsFirstMatch(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("parent")
	element1 := mustAppend(t, parent, doc.CreateElement("element1"))
	element2 := mustAppend(t, parent, doc.CreateElement("element2"))

	tagIs := func(tag string) ElementPredicate {
		return func(n *Node) bool { return n.TagName() == tag }
	}
	assert.Same(t, element1, ChildElement(parent, func(*Node) bool { return true }))
	assert.Same(t, element1, ChildElement(parent, tagIs("ELEMENT1")))
	assert.Same(t, element2, ChildElement(parent, tagIs("ELEMENT2")))
	assert.Nil(t, ChildElement(parent, tagIs("ELEMENT3")))
	assert.Len(t, ChildElements(parent, NodeIsElement), 2)
}

func TestChildElementSkipsText(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("parent")
	mustAppend(t, parent, doc.CreateTextNode("text"))
	element := mustAppend(t, parent, doc.CreateElement("element"))
	assert.Same(t, element, ChildElement(parent, func(*Node) bool { return true }))
	assert.Len(t, ChildElements(parent, func(*Node) bool { return true }), 1)
}

func testChildElementByTag(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("parent")
	element1 := mustAppend(t, parent, doc.CreateElement("element1"))
	element2 := mustAppend(t, parent, doc.CreateElement("element2"))
	mustAppend(t, element1, doc.CreateElement("element3"))

	assert.Same(t, element1, ChildElementByTag(parent, "element1"))
	assert.Same(t, element2, ChildElementByTag(parent, "element2"))
	assert.Same(t, element2, ChildElementByTag(parent, "ELEMENT2"))
	assert.Nil(t, ChildElementByTag(parent, "element3"))
	assert.Nil(t, ChildElementByTag(parent, "element4"))
}

func TestChildElementByTag(t *testing.T) {
	testChildElementByTag(t)
}

func TestChildElementByTagPolyfill(t *testing.T) {
	unsupported := false
	SetScopeSelectorSupportedForTesting(&unsupported)
	defer SetScopeSelectorSupportedForTesting(nil)
	testChildElementByTag(t)
}

func testChildElementByAttr(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("parent")
	element1 := mustAppend(t, parent, doc.CreateElement("element1"))
	element1.SetAttribute("attr1", "1")
	element1.SetAttribute("attr12", "1")
	element2 := mustAppend(t, parent, doc.CreateElement("element2"))
	element2.SetAttribute("attr2", "2")
	element2.SetAttribute("attr12", "2")
	element3 := mustAppend(t, element2, doc.CreateElement("element2"))
	element3.SetAttribute("on-child", "")

	assert.Same(t, element1, ChildElementByAttr(parent, "attr1"))
	assert.Same(t, element2, ChildElementByAttr(parent, "attr2"))
	assert.Same(t, element1, ChildElementByAttr(parent, "attr12"))
	assert.Nil(t, ChildElementByAttr(parent, "attr3"))
	assert.Nil(t, ChildElementByAttr(parent, "on-child"))
}

func TestChildElementByAttr(t *testing.T) {
	testChildElementByAttr(t)
}

func TestChildElementByAttrPolyfill(t *testing.T) {
	unsupported := false
	SetScopeSelectorSupportedForTesting(&unsupported)
	defer SetScopeSelectorSupportedForTesting(nil)
	testChildElementByAttr(t)
}

func TestDocumentContains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	doc := NewHTMLDocument()
	connectedElement := doc.CreateElement("div")
	connectedChild := mustAppend(t, connectedElement, doc.CreateElement("div"))
	disconnectedElement := doc.CreateElement("div")
	disconnectedChild := mustAppend(t, disconnectedElement, doc.CreateElement("div"))
	mustAppend(t, doc.Body(), connectedElement)
	defer RemoveElement(connectedElement)

	for name, contains := range map[string]func(*Document, *Node) bool{
		"native":   DocumentContains,
		"polyfill": DocumentContainsPolyfill,
	} {
		assert.True(t, contains(doc, connectedElement), name)
		assert.True(t, contains(doc, connectedChild), name)
		assert.False(t, contains(doc, disconnectedElement), name)
		assert.False(t, contains(doc, disconnectedChild), name)
		assert.True(t, contains(doc, doc.DocumentElement()), "%s: inclusionary for document element", name)
		assert.True(t, contains(doc, doc.Node()), "%s: inclusionary for document itself", name)
	}
	RemoveElement(connectedElement)
	assert.False(t, DocumentContains(doc, connectedChild))
	assert.False(t, DocumentContainsPolyfill(doc, connectedChild))
}

func TestAppendIntoOwnSubtree(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("parent")
	child := mustAppend(t, parent, doc.CreateElement("child"))
	_, err := child.AppendChild(parent)
	assert.ErrorIs(t, err, ErrHierarchy)
	_, err = parent.AppendChild(parent)
	assert.ErrorIs(t, err, ErrHierarchy)
	_, err = doc.CreateTextNode("x").AppendChild(doc.CreateElement("y"))
	assert.ErrorIs(t, err, ErrHierarchy)
	_, err = parent.RemoveChild(doc.CreateElement("stranger"))
	assert.ErrorIs(t, err, ErrNotAChild)
}

func TestInsertBeforeAndSiblings(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("ul")
	a := mustAppend(t, parent, doc.CreateElement("li"))
	c := mustAppend(t, parent, doc.CreateElement("li"))
	b := doc.CreateElement("li")
	_, err := parent.InsertBefore(b, c)
	require.NoError(t, err)
	assert.Equal(t, []*Node{a, b, c}, parent.ChildNodes())
	assert.Same(t, b, a.NextSibling())
	assert.Same(t, b, c.PreviousSibling())
	assert.Nil(t, c.NextSibling())
	assert.Same(t, c, parent.LastChild())
	_, err = parent.InsertBefore(doc.CreateElement("li"), doc.CreateElement("li"))
	assert.ErrorIs(t, err, ErrNotAChild)
}

func TestAttributes(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("DIV")
	assert.Equal(t, "div", el.LocalName())
	assert.False(t, el.HasAttributes())
	el.SetAttribute("ID", "main")
	assert.Equal(t, "main", el.ID())
	assert.Equal(t, "div#main", el.String())
	el.SetAttribute("id", "other")
	assert.Len(t, el.Attributes(), 1)
	el.RemoveAttribute("id")
	assert.False(t, el.HasAttribute("id"))
}
