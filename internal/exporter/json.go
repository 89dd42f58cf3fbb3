package exporter

import (
	"bytes"
	"encoding/json"

	"github.com/fjvi/bm/internal/model"
)

// wireNode mirrors the node model on disk. Folders always carry a
// children array, possibly empty; links carry a url.
type wireNode struct {
	Title    string      `json:"title"`
	URL      string      `json:"url,omitempty"`
	Children *[]wireNode `json:"children,omitempty"`
}

// JSON serializes the root's children as a pretty-printed array, the
// canonical form read back by importer.ParseJSON.
func JSON(root *model.Node) ([]byte, error) {
	if root == nil {
		return nil, model.NoDataToExport()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toWire(root.Children)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toWire(nodes []*model.Node) []wireNode {
	out := make([]wireNode, 0, len(nodes))
	for _, n := range nodes {
		// An empty title could make a lone top-level folder read back as
		// the legacy bookmark-bar wrapper.
		w := wireNode{Title: model.TitleOrDefault(n.Title), URL: n.URL}
		if n.IsFolder() {
			children := toWire(n.Children)
			w.Children = &children
		}
		out = append(out, w)
	}
	return out
}
