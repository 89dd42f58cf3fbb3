package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fjvi/bm/internal/model"
)

// ErrUnknownFormat is returned for content that is neither JSON nor HTML.
var ErrUnknownFormat = errors.New("unrecognized bookmark format")

// Format is an import file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name ("json", "html", "htm") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return FormatUnknown, fmt.Errorf("unknown format %q", name)
}

// Detect picks a format from the file extension, falling back to the
// first non-blank byte of the content.
func Detect(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".html", ".htm":
		return FormatHTML
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	switch trimmed[0] {
	case '[', '{':
		return FormatJSON
	case '<':
		return FormatHTML
	}
	return FormatUnknown
}

// Parse reads r completely and parses it in the given format.
func Parse(format Format, r io.Reader) ([]*model.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.EmptyOrMissing(err)
	}
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatHTML:
		return ParseHTML(bytes.NewReader(data))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, model.EmptyOrMissing(nil)
	}
	return nil, model.InvalidFormat(ErrUnknownFormat)
}

// ParseFile reads and parses a bookmark file, detecting its format.
func ParseFile(path string) ([]*model.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.EmptyOrMissing(err)
	}
	return Parse(Detect(path, data), bytes.NewReader(data))
}
