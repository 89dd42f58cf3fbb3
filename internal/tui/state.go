package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/fjvi/bm/internal/tui/layout"
)

// Mode is what keystrokes currently drive.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeRename
	ModeConfirmDelete
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeRename:
		return "rename"
	case ModeConfirmDelete:
		return "confirm-delete"
	case ModeHelp:
		return "help"
	default:
		return "normal"
	}
}

// SearchState holds the live search input.
type SearchState struct {
	Input textinput.Model
}

// NewSearchState creates a new SearchState with initialized input.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search titles and URLs..."
	input.Prompt = "/ "
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	return SearchState{Input: input}
}

// Reset clears the input and drops focus.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Input.Blur()
}

// ModalState holds state for the rename and delete dialogs.
type ModalState struct {
	TitleInput textinput.Model
	TargetID   string
	TargetName string
}

// NewModalState creates a new ModalState with initialized inputs.
func NewModalState(cfg layout.LayoutConfig) ModalState {
	input := textinput.New()
	input.Placeholder = "Title"
	input.CharLimit = cfg.Input.TitleCharLimit
	input.Width = cfg.Input.StandardWidth
	return ModalState{TitleInput: input}
}

// Open targets a node and, for renames, prefills its title.
func (m *ModalState) Open(id, title string) {
	m.TargetID = id
	m.TargetName = title
	m.TitleInput.SetValue(title)
	m.TitleInput.CursorEnd()
}

// Reset clears the modal for the next use.
func (m *ModalState) Reset() {
	m.TitleInput.Reset()
	m.TitleInput.Blur()
	m.TargetID = ""
	m.TargetName = ""
}

// StatusLine is the single-line notification under the tree.
type StatusLine struct {
	Text  string
	Error bool
}

func (s *StatusLine) Set(text string) {
	s.Text = text
	s.Error = false
}

func (s *StatusLine) Fail(text string) {
	s.Text = text
	s.Error = true
}

func (s *StatusLine) Clear() {
	s.Text = ""
	s.Error = false
}
