package accordion_test

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/fjvi/bm/internal/accordion"
	"github.com/fjvi/bm/internal/model"
)

// testTree builds:
//
//	A/
//	  A1/
//	    A1a/
//	      deep link
//	  A2/
//	B/
//	  B1/
//	top link
func testTree() *model.Tree {
	return model.NewTree([]*model.Node{
		model.NewFolder("A",
			model.NewFolder("A1",
				model.NewFolder("A1a",
					model.NewLink("deep link", "https://deep.example"),
				),
			),
			model.NewFolder("A2"),
		),
		model.NewFolder("B",
			model.NewFolder("B1"),
		),
		model.NewLink("top link", "https://top.example"),
	})
}

func id(t *testing.T, tree *model.Tree, path string) string {
	t.Helper()
	n := tree.FindByPath(path)
	if n == nil {
		t.Fatalf("no node at %q", path)
	}
	return n.ID
}

func TestToggle_OpensAndCloses(t *testing.T) {
	tree := testTree()
	s := accordion.New()
	a := id(t, tree, "A")

	res, err := s.Toggle(tree, a)
	assert.NilError(t, err)
	assert.Equal(t, res, accordion.Result{Opened: true, ScrollTo: a})
	assert.Assert(t, s.IsOpen(a))

	res, err = s.Toggle(tree, a)
	assert.NilError(t, err)
	assert.Equal(t, res, accordion.Result{})
	assert.Assert(t, !s.IsOpen(a))
}

func TestToggle_SiblingExclusivity(t *testing.T) {
	tree := testTree()
	s := accordion.New()

	_, err := s.Toggle(tree, id(t, tree, "A"))
	assert.NilError(t, err)
	_, err = s.Toggle(tree, id(t, tree, "B"))
	assert.NilError(t, err)

	assert.Assert(t, s.IsOpen(id(t, tree, "B")))
	assert.Assert(t, !s.IsOpen(id(t, tree, "A")))

	_, err = s.Toggle(tree, id(t, tree, "A/A1"))
	assert.NilError(t, err)
	_, err = s.Toggle(tree, id(t, tree, "A/A2"))
	assert.NilError(t, err)
	assert.Assert(t, !s.IsOpen(id(t, tree, "A/A1")))
	assert.Assert(t, s.IsOpen(id(t, tree, "A/A2")))
}

func TestToggle_AncestorChain(t *testing.T) {
	tree := testTree()
	s := accordion.New()

	_, err := s.Toggle(tree, id(t, tree, "B"))
	assert.NilError(t, err)

	deep := id(t, tree, "A/A1/A1a")
	_, err = s.Toggle(tree, deep)
	assert.NilError(t, err)

	for _, path := range []string{"A", "A/A1", "A/A1/A1a"} {
		assert.Assert(t, s.IsOpen(id(t, tree, path)), "%s should be open", path)
	}
	assert.Assert(t, !s.IsOpen(id(t, tree, "B")), "sibling of ancestor should close")
	assert.Assert(t, s.Expanded(tree, deep))
}

func TestToggle_ExclusivityHoldsEverywhere(t *testing.T) {
	tree := testTree()
	s := accordion.New()

	sequence := []string{"A", "A/A1", "B", "B/B1", "A/A2", "A/A1/A1a", "B", "A/A1/A1a"}
	for _, path := range sequence {
		_, err := s.Toggle(tree, id(t, tree, path))
		assert.NilError(t, err)

		folders := []*model.Node{tree.Root()}
		tree.Walk(func(n *model.Node, _ int) bool {
			if n.IsFolder() {
				folders = append(folders, n)
			}
			return true
		})
		for _, f := range folders {
			openChildren := 0
			for _, c := range f.Children {
				if s.IsOpen(c.ID) {
					openChildren++
				}
			}
			assert.Assert(t, openChildren <= 1, "after %s: %s has %d open children", path, f.Title, openChildren)
		}
	}
}

func TestToggle_CloseKeepsDescendantState(t *testing.T) {
	tree := testTree()
	s := accordion.New()
	a := id(t, tree, "A")
	a1 := id(t, tree, "A/A1")

	_, err := s.Toggle(tree, a1)
	assert.NilError(t, err)
	_, err = s.Toggle(tree, a)
	assert.NilError(t, err)

	assert.Assert(t, !s.IsOpen(a))
	assert.Assert(t, s.IsOpen(a1), "descendant flag survives")
	assert.Assert(t, !s.Expanded(tree, a1), "but it is hidden")

	_, err = s.Toggle(tree, a)
	assert.NilError(t, err)
	assert.Assert(t, s.Expanded(tree, a1))
}

func TestToggle_Errors(t *testing.T) {
	tree := testTree()
	s := accordion.New()

	_, err := s.Toggle(tree, id(t, tree, "top link"))
	assert.Assert(t, errors.Is(err, model.ErrNotAFolder))

	_, err = s.Toggle(tree, "missing")
	assert.Assert(t, errors.Is(err, model.ErrNotFound))

	_, err = s.Toggle(tree, tree.Root().ID)
	assert.Assert(t, errors.Is(err, model.ErrNotFound))

	assert.Assert(t, is.Len(s.OpenIDs(tree), 0))
}

func TestReset(t *testing.T) {
	tree := testTree()
	s := accordion.New()
	_, err := s.Toggle(tree, id(t, tree, "A/A1/A1a"))
	assert.NilError(t, err)

	s.Reset()

	assert.Assert(t, is.Len(s.OpenIDs(tree), 0))
}

func TestForget(t *testing.T) {
	tree := testTree()
	s := accordion.New()
	a1 := id(t, tree, "A/A1")
	_, err := s.Toggle(tree, a1)
	assert.NilError(t, err)

	s.Forget(a1)

	assert.DeepEqual(t, s.OpenIDs(tree), []string{id(t, tree, "A")})
}

func TestZeroValueState(t *testing.T) {
	tree := testTree()
	var s accordion.State

	_, err := s.Toggle(tree, id(t, tree, "A"))
	assert.NilError(t, err)
	assert.Assert(t, s.IsOpen(id(t, tree, "A")))
}

func TestVisible(t *testing.T) {
	tree := testTree()
	s := accordion.New()

	titles := func(rows []accordion.Row) []string {
		var out []string
		for _, r := range rows {
			out = append(out, r.Title)
		}
		return out
	}

	assert.DeepEqual(t, titles(s.Visible(tree, 2)), []string{"A", "B", "top link"})

	_, err := s.Toggle(tree, id(t, tree, "A/A1"))
	assert.NilError(t, err)

	rows := s.Visible(tree, 2)
	assert.DeepEqual(t, titles(rows), []string{"A", "A1", "A1a", "A2", "B", "top link"})
	assert.Equal(t, rows[0].Level, 2)
	assert.Equal(t, rows[1].Level, 3)
	assert.Assert(t, rows[1].Open)
	assert.Assert(t, !rows[2].Open)
	assert.Equal(t, accordion.RowIndex(rows, id(t, tree, "A/A1")), 1)
	assert.Equal(t, accordion.RowIndex(rows, id(t, tree, "A/A1/A1a/deep link")), -1)
}

func TestVisible_SkipsEmptyNodes(t *testing.T) {
	tree := model.NewTree([]*model.Node{
		{Title: "degenerate"},
		model.NewLink("kept", "https://kept.example"),
	})
	s := accordion.New()

	rows := s.Visible(tree, 2)

	assert.Assert(t, is.Len(rows, 1))
	assert.Equal(t, rows[0].Title, "kept")
}
