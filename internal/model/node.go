package model

// UntitledTitle is used for nodes imported without a title.
const UntitledTitle = "(untitled)"

// Node is a folder or link in the bookmark hierarchy.
// A non-nil Children slice (even empty) marks a folder; a non-empty URL
// without children marks a link. A node with neither is empty and is
// skipped when rendering.
type Node struct {
	ID       string
	Title    string
	URL      string
	Children []*Node

	parent *Node
}

// NewFolder creates a folder node holding the given children.
func NewFolder(title string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{
		Title:    TitleOrDefault(title),
		Children: children,
	}
}

// NewLink creates a link node.
func NewLink(title, url string) *Node {
	return &Node{
		Title: TitleOrDefault(title),
		URL:   url,
	}
}

// IsFolder returns true if the node can hold children.
func (n *Node) IsFolder() bool {
	return n.Children != nil
}

// IsLink returns true if the node points at a URL.
func (n *Node) IsLink() bool {
	return n.Children == nil && n.URL != ""
}

// IsEmpty returns true for degenerate nodes that are neither folder nor link.
func (n *Node) IsEmpty() bool {
	return n.Children == nil && n.URL == ""
}

// Parent returns the owning folder, nil for detached nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// Equal reports whether two node sequences are structurally identical.
// Identities are ignored.
func Equal(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Title != b.Title || a.URL != b.URL || a.IsFolder() != b.IsFolder() {
		return false
	}
	return Equal(a.Children, b.Children)
}

// TitleOrDefault returns title, or UntitledTitle if it is empty.
func TitleOrDefault(title string) string {
	if title == "" {
		return UntitledTitle
	}
	return title
}
