// Package accordion tracks which folders of a bookmark tree are open.
//
// Opening a folder closes its siblings and opens every ancestor, closing
// the ancestors' siblings in turn, so at most one folder per level is open
// and every open folder is reachable from the root. Closing a folder keeps
// the bookkeeping of its descendants; reopening it shows them as they were.
package accordion

import (
	"github.com/fjvi/bm/internal/model"
)

// Result describes the effect of a toggle.
type Result struct {
	Opened bool
	// ScrollTo is the ID of the folder to bring into view, empty when the
	// folder was closed.
	ScrollTo string
}

// State holds the open flag per folder ID. The zero value is all-closed
// and ready to use.
type State struct {
	open map[string]bool
}

// New creates an all-closed state.
func New() *State {
	return &State{open: make(map[string]bool)}
}

// Toggle opens or closes the folder with the given ID.
func (s *State) Toggle(tree *model.Tree, id string) (Result, error) {
	n := tree.Node(id)
	if n == nil || tree.IsRoot(n) {
		return Result{}, model.ErrNotFound
	}
	if !n.IsFolder() {
		return Result{}, model.ErrNotAFolder
	}

	if s.open[id] {
		delete(s.open, id)
		return Result{}, nil
	}

	s.openExclusive(tree, n)
	for _, a := range tree.Ancestors(id) {
		s.openExclusive(tree, a)
	}
	return Result{Opened: true, ScrollTo: id}, nil
}

// openExclusive opens n and closes its siblings. Descendant flags of the
// closed siblings are left alone.
func (s *State) openExclusive(tree *model.Tree, n *model.Node) {
	if s.open == nil {
		s.open = make(map[string]bool)
	}
	s.open[n.ID] = true
	for _, sib := range tree.Siblings(n.ID) {
		delete(s.open, sib.ID)
	}
}

// IsOpen reports the folder's own flag, regardless of its ancestors.
func (s *State) IsOpen(id string) bool {
	return s.open[id]
}

// Expanded reports whether the folder is open and visible, that is open
// with every ancestor open too.
func (s *State) Expanded(tree *model.Tree, id string) bool {
	if !s.open[id] {
		return false
	}
	for _, a := range tree.Ancestors(id) {
		if !s.open[a.ID] {
			return false
		}
	}
	return true
}

// Reset closes every folder.
func (s *State) Reset() {
	s.open = make(map[string]bool)
}

// Forget drops the flags of removed nodes.
func (s *State) Forget(ids ...string) {
	for _, id := range ids {
		delete(s.open, id)
	}
}

// OpenIDs returns the IDs whose flag is set, in tree order.
func (s *State) OpenIDs(tree *model.Tree) []string {
	var ids []string
	tree.Walk(func(n *model.Node, _ int) bool {
		if s.open[n.ID] {
			ids = append(ids, n.ID)
		}
		return n.IsFolder()
	})
	return ids
}
