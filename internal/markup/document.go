// Package markup wraps a parsed HTML document behind the small set of
// traversal operations the extractor needs.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed markup document. Selector errors are treated as "no
// match"; none of the methods fail.
type Document interface {
	// SelectOne returns the first node matching selector.
	SelectOne(selector string) (Node, bool)
	// SelectAll returns every node matching selector, in document order.
	SelectAll(selector string) []Node
	// Title returns the <title> text.
	Title() string
	// Meta returns the content attribute of <meta name="name">.
	Meta(name string) (string, bool)
	// Text returns the visible text of the whole document, one block per line.
	Text() string
}

// Node is a single element in a Document.
type Node interface {
	Tag() string
	// Text returns the node's text with whitespace collapsed to single spaces.
	Text() string
	// BlockText returns the node's text with one line per block element.
	BlockText() string
	Attr(name string) (string, bool)
	SelectAll(selector string) []Node
	// NextSibling returns the first following sibling matching selector.
	NextSibling(selector string) (Node, bool)
}

type document struct {
	doc *goquery.Document
}

type node struct {
	sel *goquery.Selection
}

// Parse parses raw HTML. Malformed markup is repaired by the HTML5 parser, so
// an error only comes from the reader.
func Parse(raw string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return &document{doc: doc}, nil
}

// Empty returns a document with no content.
func Empty() Document {
	doc, _ := Parse("")
	return doc
}

func (d *document) SelectOne(selector string) (Node, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &node{sel: sel}, true
}

func (d *document) SelectAll(selector string) []Node {
	return wrap(d.doc.Find(selector))
}

func (d *document) Title() string {
	return collapse(d.doc.Find("title").First().Text())
}

func (d *document) Meta(name string) (string, bool) {
	var content string
	var found bool
	d.doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if n, ok := s.Attr("name"); ok && strings.EqualFold(n, name) {
			content, found = s.Attr("content")
			return !found
		}
		return true
	})
	return strings.TrimSpace(content), found
}

func (d *document) Text() string {
	if len(d.doc.Nodes) == 0 {
		return ""
	}
	return blockText(d.doc.Nodes[0])
}

func (n *node) Tag() string {
	return goquery.NodeName(n.sel)
}

func (n *node) Text() string {
	if len(n.sel.Nodes) == 0 {
		return ""
	}
	return collapse(strings.ReplaceAll(blockText(n.sel.Nodes[0]), "\n", " "))
}

func (n *node) BlockText() string {
	if len(n.sel.Nodes) == 0 {
		return ""
	}
	return blockText(n.sel.Nodes[0])
}

func (n *node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *node) SelectAll(selector string) []Node {
	return wrap(n.sel.Find(selector))
}

func (n *node) NextSibling(selector string) (Node, bool) {
	sel := n.sel.NextAllFiltered(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &node{sel: sel}, true
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &node{sel: s})
	})
	return nodes
}
