package khinsider

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is the read-only view of a parsed page used by the extractor.
//
// The extractor only needs to find elements by id, tag or class and read
// their attributes and text, so the parsed tree stays behind this interface.
type Node interface {
	// FindByID returns the first descendant with the given id attribute.
	FindByID(id string) (Node, bool)

	// FindByTag returns all descendants with the given tag name in document order.
	FindByTag(tag string) []Node

	// FindByClass returns all descendants carrying the given class in document order.
	FindByClass(class string) []Node

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)

	// Text returns the combined text of the node and its descendants.
	Text() string
}

// ParseHTML parses markup into a Node rooted at the document.
func ParseHTML(markup string) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return selectionNode{sel: doc.Selection}, nil
}

// selectionNode adapts a single-element goquery selection to Node.
type selectionNode struct {
	sel *goquery.Selection
}

func (n selectionNode) FindByID(id string) (Node, bool) {
	found := n.sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr("id")
		return ok && v == id
	}).First()
	if found.Length() == 0 {
		return nil, false
	}
	return selectionNode{sel: found}, true
}

func (n selectionNode) FindByTag(tag string) []Node {
	return wrap(n.sel.Find(tag))
}

func (n selectionNode) FindByClass(class string) []Node {
	return wrap(n.sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.HasClass(class)
	}))
}

func (n selectionNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n selectionNode) Text() string {
	return n.sel.Text()
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, selectionNode{sel: s})
	})
	return nodes
}
