package model

// FlatEntry is a leveled, depth-first projection of a node used for search.
// NodeID refers back to the node without owning it.
type FlatEntry struct {
	Title  string
	URL    string
	Level  int
	NodeID string
}

// IsLink returns true if the entry carries a URL.
func (e FlatEntry) IsLink() bool {
	return e.URL != ""
}

// Flatten lists children and their descendants depth-first, parents before
// children, preserving sibling order. Entries for children start at
// startLevel and each nesting depth adds one.
func Flatten(children []*Node, startLevel int) []FlatEntry {
	var result []FlatEntry

	var walk func(nodes []*Node, level int)
	walk = func(nodes []*Node, level int) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			result = append(result, FlatEntry{
				Title:  TitleOrDefault(n.Title),
				URL:    n.URL,
				Level:  level,
				NodeID: n.ID,
			})
			walk(n.Children, level+1)
		}
	}
	walk(children, startLevel)

	return result
}
