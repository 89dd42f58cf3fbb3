package accordion

import "github.com/fjvi/bm/internal/model"

// Row is one rendered line of the accordion.
type Row struct {
	NodeID string
	Title  string
	URL    string
	Level  int
	Folder bool
	Open   bool
}

// Visible lists the rows a reader sees: top-level nodes plus the contents
// of open folders, depth-first. Empty nodes are skipped.
func (s *State) Visible(tree *model.Tree, startLevel int) []Row {
	var rows []Row

	var walk func(nodes []*model.Node, level int)
	walk = func(nodes []*model.Node, level int) {
		for _, n := range nodes {
			if n.IsEmpty() {
				continue
			}
			open := n.IsFolder() && s.open[n.ID]
			rows = append(rows, Row{
				NodeID: n.ID,
				Title:  n.Title,
				URL:    n.URL,
				Level:  level,
				Folder: n.IsFolder(),
				Open:   open,
			})
			if open {
				walk(n.Children, level+1)
			}
		}
	}
	if tree != nil {
		walk(tree.Children(), startLevel)
	}

	return rows
}

// RowIndex returns the position of the node's row, -1 if it is not visible.
func RowIndex(rows []Row, id string) int {
	for i, r := range rows {
		if r.NodeID == id {
			return i
		}
	}
	return -1
}
