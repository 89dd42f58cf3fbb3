package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fjvi/bm/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.<ext>
func DefaultExportPath(ext string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	ext = strings.TrimPrefix(ext, ".")
	filename := fmt.Sprintf("bookmarks-export-%s.%s", time.Now().Format("2006-01-02"), ext)
	return filepath.Join(home, "Downloads", filename), nil
}

// HTMLOptions controls the Netscape export.
type HTMLOptions struct {
	// Icon returns an icon URL for a link, written as ICON_URI when
	// non-empty. Nil disables icons.
	Icon func(pageURL string) string
}

// HTML exports the root's children to Netscape bookmark HTML format.
// Empty nodes have no representation in the format and are left out.
func HTML(root *model.Node, opts HTMLOptions) (string, error) {
	if root == nil {
		return "", model.NoDataToExport()
	}

	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	writeItems(&b, root.Children, 1, opts)

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String(), nil
}

// writeItems recursively writes folders and links in tree order.
func writeItems(b *strings.Builder, nodes []*model.Node, indent int, opts HTMLOptions) {
	prefix := strings.Repeat("    ", indent)

	for _, n := range nodes {
		switch {
		case n.IsFolder():
			fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(n.Title))
			fmt.Fprintf(b, "%s<DL><p>\n", prefix)
			writeItems(b, n.Children, indent+1, opts)
			fmt.Fprintf(b, "%s</DL><p>\n", prefix)

		case n.IsLink():
			icon := ""
			if opts.Icon != nil {
				if uri := opts.Icon(n.URL); uri != "" {
					icon = fmt.Sprintf(" ICON_URI=\"%s\"", html.EscapeString(uri))
				}
			}
			fmt.Fprintf(b,
				"%s<DT><A HREF=\"%s\"%s>%s</A>\n",
				prefix,
				html.EscapeString(n.URL),
				icon,
				html.EscapeString(n.Title),
			)
		}
	}
}
