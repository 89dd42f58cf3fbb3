package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjvi/bm/internal/model"
)

var (
	errNotNode     = errors.New("expected an object")
	errNotChildren = errors.New("children must be an array")
	errRootType    = errors.New("root must be an array or an object")
)

// wireNode is the exchanged shape: {title?, url?, children?}.
type wireNode struct {
	Title    *string         `json:"title"`
	URL      *string         `json:"url"`
	Children json.RawMessage `json:"children"`
}

// ParseJSON parses a bookmark tree and returns its top-level nodes.
//
// The canonical form is a flat array of top-level nodes. Two other roots
// are accepted and normalized: the bookmark-bar wrapper, a one-element
// array of an untitled root whose first child holds the real top level
// (only data[0].children[0].children is kept), and a single object whose
// children are the top level.
func ParseJSON(data []byte) ([]*model.Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, model.EmptyOrMissing(nil)
	}
	if !json.Valid(data) {
		var v any
		return nil, model.InvalidFormat(json.Unmarshal(data, &v))
	}

	var nodes []*model.Node
	var err error
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, model.InvalidFormat(err)
		}
		if inner, ok := unwrapLegacy(items); ok {
			items = inner
		}
		nodes, err = decodeList(items)
	case '{':
		var n *model.Node
		n, err = decodeNode(data)
		if err == nil {
			switch {
			case n.IsFolder():
				nodes = n.Children
			case n.IsLink():
				nodes = []*model.Node{n}
			default:
				nodes = []*model.Node{}
			}
		}
	default:
		err = errRootType
	}
	if err != nil {
		return nil, model.InvalidFormat(err)
	}
	return nodes, nil
}

// unwrapLegacy detects [ {title: "", children: [ {children: [...]} , ...]} ].
func unwrapLegacy(items []json.RawMessage) ([]json.RawMessage, bool) {
	if len(items) != 1 {
		return nil, false
	}
	var outer wireNode
	if !isObject(items[0]) || json.Unmarshal(items[0], &outer) != nil {
		return nil, false
	}
	if (outer.Title != nil && *outer.Title != "") || (outer.URL != nil && *outer.URL != "") {
		return nil, false
	}

	var children []json.RawMessage
	if json.Unmarshal(outer.Children, &children) != nil || len(children) == 0 {
		return nil, false
	}
	var bar wireNode
	if !isObject(children[0]) || json.Unmarshal(children[0], &bar) != nil {
		return nil, false
	}
	var inner []json.RawMessage
	if !isArray(bar.Children) || json.Unmarshal(bar.Children, &inner) != nil {
		return nil, false
	}
	return inner, true
}

func decodeList(items []json.RawMessage) ([]*model.Node, error) {
	nodes := make([]*model.Node, 0, len(items))
	for i, raw := range items {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func decodeNode(raw json.RawMessage) (*model.Node, error) {
	if !isObject(raw) {
		return nil, errNotNode
	}
	var w wireNode
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	n := &model.Node{}
	if w.Title != nil {
		n.Title = *w.Title
	}
	if n.Title == "" {
		n.Title = model.UntitledTitle
	}
	if w.URL != nil {
		n.URL = *w.URL
	}

	if len(w.Children) == 0 || string(w.Children) == "null" {
		return n, nil
	}
	if !isArray(w.Children) {
		return nil, errNotChildren
	}
	var items []json.RawMessage
	if err := json.Unmarshal(w.Children, &items); err != nil {
		return nil, err
	}
	children, err := decodeList(items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.Title, err)
	}
	n.Children = children
	return n, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
