package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fjvi/bm/internal/model"
	"github.com/fjvi/bm/internal/search"
)

func twoResults() []search.FuzzyMatch {
	return []search.FuzzyMatch{
		{Entry: model.FlatEntry{NodeID: "b1", Title: "GitHub", URL: "https://github.com", Level: 2}},
		{Entry: model.FlatEntry{NodeID: "b2", Title: "GitLab", URL: "https://gitlab.com", Level: 3}},
	}
}

func press(p Picker, msg tea.KeyMsg) (Picker, tea.Cmd) {
	m, cmd := p.Update(msg)
	return m.(Picker), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_InitialState(t *testing.T) {
	p := New(twoResults(), "git")

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(p.results))
	}
}

func TestPicker_NavigateDown(t *testing.T) {
	p, _ := press(New(twoResults(), "git"), runes("j"))

	if p.cursor != 1 {
		t.Errorf("expected cursor at 1, got %d", p.cursor)
	}
}

func TestPicker_NavigateUp(t *testing.T) {
	p := New(twoResults(), "git")
	p.cursor = 1

	p, _ = press(p, runes("k"))

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_BoundsCheck(t *testing.T) {
	p := New(twoResults()[:1], "git")

	p, _ = press(p, runes("k"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}

	p, _ = press(p, runes("j"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 (only 1 item), got %d", p.cursor)
	}
}

func TestPicker_SelectItem(t *testing.T) {
	p := New(twoResults(), "git")
	p.cursor = 1

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})

	if !p.selected {
		t.Error("expected selected to be true after Enter")
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}

	got, ok := p.Selected()
	if !ok || got.NodeID != "b2" {
		t.Errorf("expected b2 selected, got %+v (ok=%v)", got, ok)
	}
}

func TestPicker_EnterWithoutResults(t *testing.T) {
	p, cmd := press(New(nil, "zzz"), tea.KeyMsg{Type: tea.KeyEnter})

	if !p.Cancelled() {
		t.Error("expected enter on empty results to cancel")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if _, ok := p.Selected(); ok {
		t.Error("expected no selection")
	}
}

func TestPicker_Cancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}, runes("q")} {
		p, cmd := press(New(twoResults(), "git"), msg)

		if !p.cancelled {
			t.Errorf("expected cancelled after %s", msg)
		}
		if cmd == nil {
			t.Errorf("expected quit command after %s", msg)
		}
	}
}

func TestPicker_Selected_Cancelled(t *testing.T) {
	p := New(twoResults(), "git")
	p.selected = true
	p.cancelled = true

	if _, ok := p.Selected(); ok {
		t.Error("expected no selection when cancelled")
	}
}

func TestPicker_ArrowKeys(t *testing.T) {
	p, _ := press(New(twoResults(), "git"), tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after down arrow, got %d", p.cursor)
	}

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 after up arrow, got %d", p.cursor)
	}
}

func TestPicker_View(t *testing.T) {
	view := New(twoResults(), "git").View()

	for _, want := range []string{"Search: git (2 results)", "https://github.com", "https://gitlab.com"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestPicker_ViewScrollsToCursor(t *testing.T) {
	var results []search.FuzzyMatch
	for i := 0; i < 20; i++ {
		results = append(results, search.FuzzyMatch{Entry: model.FlatEntry{
			NodeID: string(rune('a' + i)),
			Title:  "item-" + string(rune('a'+i)),
			URL:    "https://example.com/" + string(rune('a'+i)),
		}})
	}

	m, _ := New(results, "item").Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	p := m.(Picker)
	p.cursor = 19

	view := p.View()
	if !strings.Contains(view, "https://example.com/t") {
		t.Error("expected last item to be visible")
	}
	if strings.Contains(view, "https://example.com/a\n") {
		t.Error("expected first item to be scrolled out")
	}
}
