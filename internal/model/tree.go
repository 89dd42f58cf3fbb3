package model

import (
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("node not found")
	ErrNotAFolder = errors.New("node is not a folder")
	ErrCycle      = errors.New("cannot move a folder into itself or a descendant")
	ErrRoot       = errors.New("the root folder cannot be changed")
)

// Tree owns a bookmark hierarchy under a synthetic root folder and indexes
// every node by ID.
type Tree struct {
	root  *Node
	nodes map[string]*Node
}

// NewTree adopts the given top-level nodes. Nodes get an ID if they lack
// one (or carry a duplicate), empty titles are defaulted and nil children
// are dropped.
func NewTree(children []*Node) *Tree {
	root := NewFolder("root")
	root.ID = GenerateUUID()

	t := &Tree{
		root:  root,
		nodes: map[string]*Node{root.ID: root},
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		t.adopt(root, c)
		root.Children = append(root.Children, c)
	}
	return t
}

// adopt registers n and its subtree under parent.
func (t *Tree) adopt(parent, n *Node) {
	n.parent = parent
	if n.ID == "" || t.nodes[n.ID] != nil {
		n.ID = GenerateUUID()
	}
	n.Title = TitleOrDefault(n.Title)
	t.nodes[n.ID] = n

	if n.Children == nil {
		return
	}
	kept := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	n.Children = kept
	for _, c := range n.Children {
		t.adopt(n, c)
	}
}

// Root returns the synthetic root folder.
func (t *Tree) Root() *Node {
	return t.root
}

// Children returns the top-level nodes.
func (t *Tree) Children() []*Node {
	return t.root.Children
}

// Len returns the number of nodes, excluding the root.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Node finds a node by ID, returns nil if not found.
func (t *Tree) Node(id string) *Node {
	return t.nodes[id]
}

// Resolve follows a flat entry back to its node. Entries built from a
// replaced tree resolve to nil.
func (t *Tree) Resolve(e FlatEntry) *Node {
	return t.nodes[e.NodeID]
}

// IsRoot returns true if n is this tree's root folder.
func (t *Tree) IsRoot(n *Node) bool {
	return n == t.root
}

// Parent returns the folder owning the node. Top-level nodes return the
// root; the root itself returns nil.
func (t *Tree) Parent(id string) *Node {
	n := t.nodes[id]
	if n == nil {
		return nil
	}
	return n.parent
}

// Siblings returns the nodes sharing the node's parent, excluding the node.
func (t *Tree) Siblings(id string) []*Node {
	n := t.nodes[id]
	if n == nil || n.parent == nil {
		return nil
	}
	var result []*Node
	for _, c := range n.parent.Children {
		if c != n {
			result = append(result, c)
		}
	}
	return result
}

// Ancestors returns the folders above the node, nearest first.
// The root is not included.
func (t *Tree) Ancestors(id string) []*Node {
	n := t.nodes[id]
	if n == nil {
		return nil
	}
	var result []*Node
	for p := n.parent; p != nil && p != t.root; p = p.parent {
		result = append(result, p)
	}
	return result
}

// Add inserts n into the folder parentID at index. An empty parentID means
// the root; an index out of range appends. A node still owned by another
// folder is detached from it first.
func (t *Tree) Add(parentID string, n *Node, index int) error {
	if n.ID != "" && t.nodes[n.ID] == n {
		return t.Move(n.ID, parentID, index)
	}
	parent, err := t.folder(parentID)
	if err != nil {
		return err
	}
	if n.parent != nil {
		detach(n)
	}
	t.adopt(parent, n)
	insert(parent, n, index)
	return nil
}

// Delete removes the node and its subtree. Returns the IDs removed.
func (t *Tree) Delete(id string) ([]string, error) {
	n := t.nodes[id]
	if n == nil {
		return nil, ErrNotFound
	}
	if n == t.root {
		return nil, ErrRoot
	}

	detach(n)

	var removed []string
	var forget func(*Node)
	forget = func(x *Node) {
		delete(t.nodes, x.ID)
		removed = append(removed, x.ID)
		for _, c := range x.Children {
			forget(c)
		}
	}
	forget(n)
	return removed, nil
}

// Rename sets a node's title. An empty title becomes UntitledTitle.
func (t *Tree) Rename(id, title string) error {
	n := t.nodes[id]
	if n == nil {
		return ErrNotFound
	}
	if n == t.root {
		return ErrRoot
	}
	n.Title = TitleOrDefault(title)
	return nil
}

// Move transfers ownership of a node to another folder. index is the
// position in the destination after the node has been removed from its
// old place; out of range appends.
func (t *Tree) Move(id, newParentID string, index int) error {
	n := t.nodes[id]
	if n == nil {
		return ErrNotFound
	}
	if n == t.root {
		return ErrRoot
	}
	parent, err := t.folder(newParentID)
	if err != nil {
		return err
	}
	for p := parent; p != nil; p = p.parent {
		if p == n {
			return ErrCycle
		}
	}

	detach(n)
	n.parent = parent
	insert(parent, n, index)
	return nil
}

// Path returns the slash-separated titles from the top level down to the node.
func (t *Tree) Path(id string) string {
	n := t.nodes[id]
	if n == nil || n == t.root {
		return ""
	}
	parts := []string{n.Title}
	for p := n.parent; p != nil && p != t.root; p = p.parent {
		parts = append([]string{p.Title}, parts...)
	}
	return strings.Join(parts, "/")
}

// FindByPath resolves a slash-separated title path. The first node with a
// matching title wins at each level. An empty path returns the root.
func (t *Tree) FindByPath(path string) *Node {
	current := t.root
	for _, part := range strings.Split(path, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var next *Node
		for _, c := range current.Children {
			if c.Title == part {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// Walk visits every node depth-first, parents before children.
// Top-level nodes have depth 0. Returning false skips the node's children.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if fn(n, depth) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(t.root.Children, 0)
}

// folder resolves a folder by ID, empty meaning the root.
func (t *Tree) folder(id string) (*Node, error) {
	if id == "" {
		return t.root, nil
	}
	n := t.nodes[id]
	if n == nil {
		return nil, ErrNotFound
	}
	if !n.IsFolder() {
		return nil, ErrNotAFolder
	}
	return n, nil
}

// detach removes n from its parent's children.
func detach(n *Node) {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i:i], p.Children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

func insert(parent, n *Node, index int) {
	if index < 0 || index >= len(parent.Children) {
		parent.Children = append(parent.Children, n)
		return
	}
	parent.Children = append(parent.Children[:index:index], append([]*Node{n}, parent.Children[index:]...)...)
}
