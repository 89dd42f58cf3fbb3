package importer

import (
	"strings"

	"golang.org/x/net/html"
)

// Element is the minimal view of a parsed markup node the bookmark walker
// needs. Text nodes are not elements; their content shows up in Text.
type Element interface {
	// Tag returns the lowercase tag name.
	Tag() string
	// Attr returns the attribute value, matched case-insensitively.
	Attr(key string) string
	// Text returns the trimmed text content of the element and its
	// descendants.
	Text() string
	Children() []Element
}

// htmlElement adapts an *html.Node. The document node has an empty tag.
type htmlElement struct {
	n *html.Node
}

func (e htmlElement) Tag() string {
	if e.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(e.n.Data)
}

func (e htmlElement) Attr(key string) string {
	key = strings.ToLower(key)
	for _, attr := range e.n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}

func (e htmlElement) Text() string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(e.n)
	return strings.TrimSpace(text.String())
}

func (e htmlElement) Children() []Element {
	var children []Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, htmlElement{c})
		}
	}
	return children
}
