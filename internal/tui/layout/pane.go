package layout

// CalculatePaneHeight computes the content height for the tree pane.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculatePaneWidth computes the outer width of the tree pane.
func CalculatePaneWidth(terminalWidth int, cfg PaneConfig) int {
	width := terminalWidth - cfg.WidthReduction
	if width < 1 {
		return 1
	}
	return width
}

// CalculateItemWidth computes the width available for row content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	width := paneWidth - cfg.ContentPadding
	if width < 1 {
		return 1
	}
	return width
}

// CalculateIndent returns the indentation for a row depth, capped so
// deep rows keep at least half the width for their title.
func CalculateIndent(depth, itemWidth int, cfg PaneConfig) int {
	indent := depth * cfg.IndentWidth
	if indent < 0 {
		return 0
	}
	if max := itemWidth / 2; indent > max {
		return max
	}
	return indent
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}

// FollowOffset returns the smallest scroll change that keeps selected
// inside a viewport currently starting at offset.
func FollowOffset(offset, selected, viewportHeight int) int {
	if viewportHeight < 1 {
		return selected
	}
	if selected < offset {
		return selected
	}
	if selected >= offset+viewportHeight {
		return selected - viewportHeight + 1
	}
	return offset
}
