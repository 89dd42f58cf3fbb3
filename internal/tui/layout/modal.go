package layout

// ModalWidth sizes a dialog at cfg.DefaultWidthPercent of the terminal,
// kept within [MinWidth, MaxWidth] and two cells clear of either edge.
func ModalWidth(termWidth int, cfg ModalConfig) int {
	w := termWidth * cfg.DefaultWidthPercent / 100
	w = min(max(w, cfg.MinWidth), cfg.MaxWidth)
	return max(min(w, termWidth-4), 1)
}

// ListWindow returns the bounds [start, end) of the part of a list of
// total entries that fits size rows. The window starts at the top and
// scrolls only once cursor would fall below it.
func ListWindow(size, cursor, total int) (start, end int) {
	size = max(size, 1)
	if cursor >= size {
		start = cursor - size + 1
	}
	return start, min(start+size, total)
}
