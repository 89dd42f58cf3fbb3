package importer

import (
	"bytes"
	"io"

	"golang.org/x/net/html"

	"github.com/fjvi/bm/internal/model"
)

// ParseHTML parses a Netscape bookmark export into top-level nodes.
func ParseHTML(r io.Reader) ([]*model.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.EmptyOrMissing(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, model.EmptyOrMissing(nil)
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, model.InvalidFormat(err)
	}
	return ParseElements(htmlElement{doc}), nil
}

// ParseElements walks an element tree in document order. An H3 introduces
// a folder and the next DL holds its children; an A with an href is a
// link. Anything else is descended into so entries wrapped in unexpected
// markup are still found.
func ParseElements(root Element) []*model.Node {
	top := model.NewFolder("")

	// Each DL pushes a frame; pending is the folder introduced by the last
	// H3 at this level that has not received its DL yet.
	type frame struct {
		folder  *model.Node
		pending *model.Node
	}
	stack := []*frame{{folder: top}}

	var parse func(Element)
	parse = func(e Element) {
		cur := stack[len(stack)-1]

		switch e.Tag() {
		case "h3":
			folder := model.NewFolder(e.Text())
			cur.folder.Children = append(cur.folder.Children, folder)
			cur.pending = folder
			return // Don't recurse into H3

		case "a":
			href := e.Attr("href")
			if href == "" {
				// Skip bookmarks without URL
				return
			}
			title := e.Text()
			if title == "" {
				title = href // fallback to URL as title
			}
			cur.folder.Children = append(cur.folder.Children, model.NewLink(title, href))
			cur.pending = nil
			return

		case "dl":
			target := cur.folder
			if cur.pending != nil {
				target = cur.pending
				cur.pending = nil
			}
			stack = append(stack, &frame{folder: target})
			for _, c := range e.Children() {
				parse(c)
			}
			stack = stack[:len(stack)-1]
			return
		}

		for _, c := range e.Children() {
			parse(c)
		}
	}
	parse(root)

	return top.Children
}
