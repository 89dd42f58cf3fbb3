// Package engine owns the loaded bookmark tree and everything derived from
// it: the flat search index, the accordion state and the active query.
//
// Imports and uploads are single-flight. While one runs, starting another
// fails with ErrBusy. Edits made while an import is parsing bump the
// generation, and the import then refuses to commit with ErrStale instead
// of overwriting them.
package engine

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fjvi/bm/internal/accordion"
	"github.com/fjvi/bm/internal/exporter"
	"github.com/fjvi/bm/internal/importer"
	"github.com/fjvi/bm/internal/model"
	"github.com/fjvi/bm/internal/search"
)

// StartLevel is the level of top-level index entries; 0 and 1 belong to
// the surrounding shell.
const StartLevel = 2

var (
	ErrBusy         = errors.New("another import or upload is in progress")
	ErrStale        = errors.New("bookmarks changed while the operation was running")
	ErrNoCredential = errors.New("no credential configured for upload")
)

// Uploader stores serialized bookmarks remotely.
type Uploader interface {
	Upload(ctx context.Context, data []byte, token string) error
}

// Engine is safe for concurrent use.
type Engine struct {
	mu  sync.Mutex
	log logrus.FieldLogger

	tree       *model.Tree
	index      []model.FlatEntry
	accordion  *accordion.State
	query      string
	matches    []model.FlatEntry
	searching  bool
	generation uint64
	busy       bool
}

// New creates an engine with nothing loaded.
func New(log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		log:       log,
		accordion: accordion.New(),
	}
}

// Load replaces the tree with nodes, typically read from storage.
func (e *Engine) Load(nodes []*model.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy {
		return ErrBusy
	}
	e.replace(nodes)
	return nil
}

// Import parses r in the given format and, if it parses completely,
// replaces the tree. On error nothing changes.
func (e *Engine) Import(ctx context.Context, format importer.Format, r io.Reader) error {
	return e.importWith(ctx, format.String(), false, func() ([]*model.Node, error) {
		return importer.Parse(format, r)
	})
}

// ImportFile imports a file, detecting its format.
func (e *Engine) ImportFile(ctx context.Context, path string) error {
	return e.importWith(ctx, path, false, func() ([]*model.Node, error) {
		return importer.ParseFile(path)
	})
}

// ImportMerge parses r and appends its top-level nodes to the tree.
func (e *Engine) ImportMerge(ctx context.Context, format importer.Format, r io.Reader) error {
	return e.importWith(ctx, format.String(), true, func() ([]*model.Node, error) {
		return importer.Parse(format, r)
	})
}

func (e *Engine) importWith(ctx context.Context, source string, merge bool, parse func() ([]*model.Node, error)) error {
	gen, err := e.begin()
	if err != nil {
		return err
	}
	defer e.end()

	log := e.log.WithFields(logrus.Fields{"source": source, "merge": merge})

	nodes, err := parse()
	if err != nil {
		log.WithError(err).Warn("import rejected")
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.generation != gen {
		log.WithField("generation", e.generation).Warn("import discarded, tree changed")
		return ErrStale
	}
	if merge && e.tree != nil {
		for _, n := range nodes {
			if err := e.tree.Add("", n, -1); err != nil {
				return err
			}
		}
		e.rebuild()
	} else {
		e.replace(nodes)
	}

	log.WithFields(logrus.Fields{
		"generation": e.generation,
		"nodes":      e.tree.Len(),
	}).Info("imported bookmarks")
	return nil
}

// begin marks the engine busy and returns the generation the operation
// started from.
func (e *Engine) begin() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy {
		return 0, ErrBusy
	}
	e.busy = true
	return e.generation, nil
}

func (e *Engine) end() {
	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
}

// Busy reports whether an import or upload is running.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// replace installs a new tree, clearing the accordion and query.
// Callers hold mu.
func (e *Engine) replace(nodes []*model.Node) {
	e.tree = model.NewTree(nodes)
	e.accordion.Reset()
	e.query = ""
	e.searching = false
	e.matches = nil
	e.rebuild()
}

// rebuild regenerates the index from scratch and re-runs the active
// search. Callers hold mu.
func (e *Engine) rebuild() {
	e.generation++
	e.index = model.Flatten(e.tree.Children(), StartLevel)
	if e.searching {
		e.matches, _ = search.Search(e.index, e.query)
	}
}

// ensureTree gives an unloaded engine an empty tree. Callers hold mu.
func (e *Engine) ensureTree() {
	if e.tree == nil {
		e.tree = model.NewTree(nil)
	}
}

// Add inserts n into the folder parentID (empty for the top level) at
// index; out of range appends.
func (e *Engine) Add(parentID string, n *model.Node, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureTree()
	if err := e.tree.Add(parentID, n, index); err != nil {
		return err
	}
	e.rebuild()
	return nil
}

// Delete removes a node and its subtree.
func (e *Engine) Delete(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tree == nil {
		return model.ErrNotFound
	}
	removed, err := e.tree.Delete(id)
	if err != nil {
		return err
	}
	e.accordion.Forget(removed...)
	e.rebuild()
	return nil
}

// Rename retitles a node.
func (e *Engine) Rename(id, title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tree == nil {
		return model.ErrNotFound
	}
	if err := e.tree.Rename(id, title); err != nil {
		return err
	}
	e.rebuild()
	return nil
}

// Move transfers a node to another folder.
func (e *Engine) Move(id, newParentID string, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tree == nil {
		return model.ErrNotFound
	}
	if err := e.tree.Move(id, newParentID, index); err != nil {
		return err
	}
	e.rebuild()
	return nil
}

// Toggle opens or closes a folder in the accordion.
func (e *Engine) Toggle(id string) (accordion.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tree == nil {
		return accordion.Result{}, model.ErrNotFound
	}
	return e.accordion.Toggle(e.tree, id)
}

// IsOpen reports whether a folder's accordion flag is set.
func (e *Engine) IsOpen(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accordion.IsOpen(id)
}

// Search sets the active query and returns its matches. An empty keyword
// ends the search: active is false and, if a search was running, the
// accordion closes.
func (e *Engine) Search(keyword string) (matches []model.FlatEntry, active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	matches, active = search.Search(e.index, keyword)
	if !active {
		e.clearSearch()
		return nil, false
	}
	e.query = keyword
	e.searching = true
	e.matches = matches
	return matches, true
}

// ClearSearch ends the active search and closes the accordion.
func (e *Engine) ClearSearch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearSearch()
}

func (e *Engine) clearSearch() {
	if e.searching {
		e.accordion.Reset()
	}
	e.query = ""
	e.searching = false
	e.matches = nil
}

// Query returns the active keyword and whether a search is active.
func (e *Engine) Query() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query, e.searching
}

// Matches returns the results of the active search.
func (e *Engine) Matches() []model.FlatEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matches
}

// Rows returns the accordion's visible rows.
func (e *Engine) Rows() []accordion.Row {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tree == nil {
		return nil
	}
	return e.accordion.Visible(e.tree, StartLevel)
}

// Index returns the flat index of the current tree.
func (e *Engine) Index() []model.FlatEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Tree returns the current tree, nil when nothing is loaded.
func (e *Engine) Tree() *model.Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree
}

// Loaded reports whether a tree is present.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree != nil
}

// Generation increases with every change to the tree.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Export serializes the tree in canonical JSON.
func (e *Engine) Export() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tree == nil {
		return nil, model.NoDataToExport()
	}
	return exporter.JSON(e.tree.Root())
}

// ExportHTML serializes the tree as Netscape bookmark HTML.
func (e *Engine) ExportHTML(opts exporter.HTMLOptions) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tree == nil {
		return "", model.NoDataToExport()
	}
	return exporter.HTML(e.tree.Root(), opts)
}

// Upload serializes the tree and hands it to up. The engine stays busy
// until the upload returns.
func (e *Engine) Upload(ctx context.Context, up Uploader, token string) error {
	if token == "" {
		return ErrNoCredential
	}
	gen, err := e.begin()
	if err != nil {
		return err
	}
	defer e.end()

	data, err := e.Export()
	if err != nil {
		return err
	}

	log := e.log.WithFields(logrus.Fields{"generation": gen, "bytes": len(data)})
	if err := up.Upload(ctx, data, token); err != nil {
		log.WithError(err).Warn("upload failed")
		return err
	}
	log.Info("uploaded bookmarks")
	return nil
}
