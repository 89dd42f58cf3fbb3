package tui

import (
	"github.com/fjvi/bm/internal/accordion"
	"github.com/fjvi/bm/internal/engine"
	"github.com/fjvi/bm/internal/model"
	"github.com/fjvi/bm/internal/search"
	"github.com/fjvi/bm/internal/tui/layout"
)

// Item is one line of the tree pane: an accordion row, or a search match
// while a search is active.
type Item struct {
	NodeID string
	Title  string
	URL    string
	Depth  int // nesting below the top level
	Folder bool
	Open   bool

	// Set for search matches only.
	Segments []search.Segment
	Path     string
}

// IsFolder returns true if this item is a folder.
func (i Item) IsFolder() bool {
	return i.Folder
}

// IsLink returns true if this item points at a URL.
func (i Item) IsLink() bool {
	return !i.Folder && i.URL != ""
}

// Titles come from imported files and may carry terminal escapes.
func rowItems(rows []accordion.Row) []Item {
	items := make([]Item, len(rows))
	for i, r := range rows {
		items[i] = Item{
			NodeID: r.NodeID,
			Title:  layout.StripANSI(r.Title),
			URL:    r.URL,
			Depth:  r.Level - engine.StartLevel,
			Folder: r.Folder,
			Open:   r.Open,
		}
	}
	return items
}

// matchItems resolves search matches against the tree. Matches whose node
// has gone are dropped, as are empty nodes, which the tree never shows.
func matchItems(tree *model.Tree, matches []model.FlatEntry, keyword string) []Item {
	if tree == nil {
		return nil
	}
	items := make([]Item, 0, len(matches))
	for _, m := range matches {
		n := tree.Resolve(m)
		if n == nil || n.IsEmpty() {
			continue
		}
		title := layout.StripANSI(m.Title)
		path := ""
		if p := n.Parent(); p != nil && !tree.IsRoot(p) {
			path = tree.Path(p.ID)
		}
		items = append(items, Item{
			NodeID:   m.NodeID,
			Title:    title,
			URL:      m.URL,
			Depth:    m.Level - engine.StartLevel,
			Folder:   n.IsFolder(),
			Segments: search.Segments(title, keyword),
			Path:     path,
		})
	}
	return items
}
