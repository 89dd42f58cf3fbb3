package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move h:close l:open"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "enter confirm  esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, h/l, etc.)
	Edit   []Hint // Edit hints (r, d, etc.)
	Action []Hint // Action hints (enter, /, Y)
	System []Hint // System hints (?, q, esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeSearch:
		return a.getSearchModeHints()
	case ModeRename:
		return a.getRenameHints()
	case ModeConfirmDelete:
		return a.getConfirmDeleteHints()
	case ModeHelp:
		return HintSet{System: []Hint{{Key: "any key", Desc: "close"}}}
	}
	if _, active := a.engine.Query(); active {
		return a.getResultsHints()
	}
	return a.getNormalModeHints()
}

func (a App) getNormalModeHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "l", Desc: "open"},
			{Key: "h", Desc: "close"},
		},
		Action: []Hint{
			{Key: "/", Desc: "search"},
			{Key: "Y", Desc: "yank"},
		},
		Edit: []Hint{
			{Key: "r", Desc: "rename"},
			{Key: "d", Desc: "delete"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

func (a App) getResultsHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
		},
		Action: []Hint{
			{Key: "enter", Desc: "open"},
			{Key: "/", Desc: "edit search"},
			{Key: "Y", Desc: "yank"},
		},
		System: []Hint{
			{Key: "esc", Desc: "clear"},
			{Key: "q", Desc: "quit"},
		},
	}
}

func (a App) getSearchModeHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "up/down", Desc: "move"},
		},
		Action: []Hint{
			{Key: "enter", Desc: "browse results"},
		},
		System: []Hint{
			{Key: "esc", Desc: "clear"},
		},
	}
}

func (a App) getRenameHints() HintSet {
	return HintSet{
		Action: []Hint{
			{Key: "enter", Desc: "save"},
		},
		System: []Hint{
			{Key: "esc", Desc: "cancel"},
		},
	}
}

func (a App) getConfirmDeleteHints() HintSet {
	return HintSet{
		Action: []Hint{
			{Key: "y", Desc: "delete"},
		},
		System: []Hint{
			{Key: "n/esc", Desc: "cancel"},
		},
	}
}
