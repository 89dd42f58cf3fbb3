package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/fjvi/bm/internal/tui/layout"
)

// renderView creates the complete tree view.
func (a App) renderView() string {
	switch a.mode {
	case ModeRename, ModeConfirmDelete, ModeHelp:
		return a.renderModal()
	}

	paneWidth := layout.CalculatePaneWidth(a.width, a.layoutConfig.Pane)

	pane := a.styles.Pane.
		Width(paneWidth).
		Height(a.viewport.Height).
		Render(a.renderPaneContent())

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.renderHeader(),
			a.renderSearchLine(),
			pane,
			a.renderDetailLine(),
			a.renderHelpBar(),
		),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderHeader() string {
	title := a.styles.Title.Render("bm")

	keyword, active := a.engine.Query()
	var info string
	switch {
	case active:
		info = fmt.Sprintf("%d matches for %q", len(a.items), keyword)
	case a.engine.Loaded():
		info = fmt.Sprintf("%d bookmarks", len(a.engine.Index()))
	default:
		info = "nothing loaded"
	}
	return title + "  " + a.styles.Path.Render(info)
}

func (a App) renderSearchLine() string {
	if _, active := a.engine.Query(); a.mode == ModeSearch || active {
		return a.search.Input.View()
	}
	return ""
}

func (a App) renderPaneContent() string {
	if len(a.items) > 0 {
		return a.viewport.View()
	}

	if keyword, active := a.engine.Query(); active {
		return a.styles.Empty.Render(fmt.Sprintf("No matches for %q", keyword))
	}
	return a.styles.Empty.Render("No bookmarks. Import some with: bm import <file>")
}

// renderRows builds the viewport content, one line per item.
func (a App) renderRows() string {
	itemWidth := a.viewport.Width
	lines := make([]string, len(a.items))
	for i, item := range a.items {
		lines[i] = a.renderItem(item, i == a.cursor, itemWidth)
	}
	return strings.Join(lines, "\n")
}

func (a App) renderItem(item Item, isCursor bool, maxWidth int) string {
	indent := layout.CalculateIndent(item.Depth, maxWidth, a.layoutConfig.Pane)
	pad := strings.Repeat(" ", indent)
	avail := maxWidth - indent

	prefix := "  "
	if item.IsFolder() {
		prefix = "▸ "
		if item.Open {
			prefix = "▾ "
		}
	}

	if item.Segments != nil && !isCursor {
		return pad + a.renderSegments(item, prefix, avail)
	}

	var text string
	if item.IsFolder() {
		text, _ = layout.TruncateWithPrefixSuffix(item.Title, avail, prefix, "/", a.layoutConfig.Text)
	} else {
		text, _ = layout.TruncateWithPrefixSuffix(item.Title, avail, prefix, "", a.layoutConfig.Text)
	}

	if isCursor {
		return pad + a.styles.ItemSelected.Render(text)
	}
	if item.IsFolder() {
		return pad + a.styles.Folder.Render(text)
	}
	return pad + a.styles.Link.Render(text)
}

// renderSegments draws a search match with its matching runs highlighted.
func (a App) renderSegments(item Item, prefix string, maxWidth int) string {
	base := a.styles.Link
	if item.IsFolder() {
		base = a.styles.Folder
	}

	var b strings.Builder
	b.WriteString(base.Render(prefix))
	for _, seg := range item.Segments {
		if seg.Match {
			b.WriteString(a.styles.Match.Render(seg.Text))
		} else {
			b.WriteString(base.Render(seg.Text))
		}
	}
	if item.IsFolder() {
		b.WriteString(base.Render("/"))
	}
	return layout.TruncateANSIAware(b.String(), maxWidth, a.layoutConfig.Text)
}

// renderDetailLine describes the selected item: its URL and icon for
// links, its location for search matches.
func (a App) renderDetailLine() string {
	item, ok := a.selected()
	if !ok {
		return ""
	}
	width := layout.CalculatePaneWidth(a.width, a.layoutConfig.Pane)

	var parts []string
	if item.Path != "" {
		parts = append(parts, "in "+item.Path)
	}
	if item.IsLink() {
		parts = append(parts, item.URL)
		if icon := a.icons[item.NodeID]; icon != "" {
			parts = append(parts, "icon "+icon)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	text, _ := layout.TruncateText(strings.Join(parts, "  "), width, a.layoutConfig.Text)
	return a.styles.URL.Render(text)
}

// renderHelpBar shows the status message if there is one, the contextual
// hints otherwise.
func (a App) renderHelpBar() string {
	if a.status.Text != "" {
		if a.status.Error {
			return a.styles.Error.Render(a.status.Text)
		}
		return a.styles.Status.Render(a.status.Text)
	}
	width := layout.CalculatePaneWidth(a.width, a.layoutConfig.Pane)
	return layout.TruncateANSIAware(a.renderHints(a.getContextualHints()), width, a.layoutConfig.Text)
}

func (a App) renderModal() string {
	width := layout.ModalWidth(a.width, a.layoutConfig.Modal)

	var body string
	switch a.mode {
	case ModeRename:
		body = lipgloss.JoinVertical(lipgloss.Left,
			a.styles.Title.Render("Rename"),
			"",
			a.modal.TitleInput.View(),
			"",
			a.renderHintsInline(a.getRenameHints().All()),
		)
	case ModeConfirmDelete:
		name, _ := layout.TruncateText(a.modal.TargetName, width-12, a.layoutConfig.Text)
		body = lipgloss.JoinVertical(lipgloss.Left,
			a.styles.Title.Render("Delete"),
			"",
			fmt.Sprintf("Delete %q and everything in it?", name),
			"",
			a.renderHintsInline(a.getConfirmDeleteHints().All()),
		)
	default:
		body = a.renderHelpOverlay()
	}

	modal := a.styles.Modal.Width(width).Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

// helpKeyWidth is the cell width of the key column in the help overlay.
const helpKeyWidth = 10

func (a App) renderHelpOverlay() string {
	bindings := []key.Binding{
		a.keys.Down, a.keys.Up, a.keys.Top, a.keys.Bottom,
		a.keys.Toggle, a.keys.Close, a.keys.Search, a.keys.Cancel,
		a.keys.YankURL, a.keys.Rename, a.keys.Delete, a.keys.Quit,
	}

	lines := []string{a.styles.Title.Render("Keys"), ""}
	for _, b := range bindings {
		h := b.Help()
		pad := max(helpKeyWidth-layout.VisibleLength(h.Key), 0)
		lines = append(lines, h.Key+strings.Repeat(" ", pad+1)+a.styles.HintDesc.Render(h.Desc))
	}
	return strings.Join(lines, "\n")
}
