package tui_test

import (
	"fmt"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/fjvi/bm/internal/engine"
	"github.com/fjvi/bm/internal/model"
	"github.com/fjvi/bm/internal/tui"
	"github.com/fjvi/bm/internal/tui/layout"
)

func render(app tui.App) string {
	return layout.StripANSI(app.View())
}

func TestView_NormalMode(t *testing.T) {
	out := render(newApp(t, tui.AppParams{}))

	assert.Assert(t, is.Contains(out, "bm"))
	assert.Assert(t, is.Contains(out, "6 bookmarks"))
	assert.Assert(t, is.Contains(out, "▸ Dev/"))
	assert.Assert(t, is.Contains(out, "▸ Tools/"))
	assert.Assert(t, is.Contains(out, "News"))
	assert.Assert(t, is.Contains(out, "j/k:move"))
}

func TestView_OpenFolderIndentsChildren(t *testing.T) {
	out := render(press(newApp(t, tui.AppParams{}), "enter"))

	assert.Assert(t, is.Contains(out, "▾ Dev/"))
	assert.Assert(t, is.Contains(out, "  ▸ Go/"))
	assert.Assert(t, is.Contains(out, "    GitHub"))
}

func TestView_SelectedLinkDetails(t *testing.T) {
	out := render(press(newApp(t, tui.AppParams{}), "G"))

	assert.Assert(t, is.Contains(out, "https://news.ycombinator.com"))
}

func TestView_SearchResults(t *testing.T) {
	out := render(press(newApp(t, tui.AppParams{}), "/", "go", "down"))

	assert.Assert(t, is.Contains(out, `2 matches for "go"`))
	assert.Assert(t, is.Contains(out, "/ go"))
	assert.Assert(t, is.Contains(out, "Go Docs"))
	assert.Assert(t, is.Contains(out, "in Dev/Go"))
	assert.Assert(t, is.Contains(out, "https://go.dev"))
}

func TestView_SearchNoMatches(t *testing.T) {
	out := render(press(newApp(t, tui.AppParams{}), "/", "zzz"))

	assert.Assert(t, is.Contains(out, `No matches for "zzz"`))
}

func TestView_EmptyState(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	out := render(newApp(t, tui.AppParams{Engine: engine.New(logger)}))

	assert.Assert(t, is.Contains(out, "nothing loaded"))
	assert.Assert(t, is.Contains(out, "No bookmarks. Import some with: bm import <file>"))
}

func TestView_ConfirmDelete(t *testing.T) {
	out := render(press(newApp(t, tui.AppParams{}), "d"))

	assert.Assert(t, is.Contains(out, `Delete "Dev" and everything in it?`))
	assert.Assert(t, is.Contains(out, "y delete"))
}

func TestView_Rename(t *testing.T) {
	out := render(press(newApp(t, tui.AppParams{}), "r"))

	assert.Assert(t, is.Contains(out, "Rename"))
	assert.Assert(t, is.Contains(out, "Dev"))
	assert.Assert(t, is.Contains(out, "enter save"))
}

func TestView_Help(t *testing.T) {
	out := render(press(newApp(t, tui.AppParams{}), "?"))

	assert.Assert(t, is.Contains(out, "Keys"))
	assert.Assert(t, is.Contains(out, "yank URL"))
	assert.Assert(t, is.Contains(out, "k/up       move up"))
	assert.Assert(t, is.Contains(out, "enter/l    open"))
}

func TestView_ErrorStatus(t *testing.T) {
	app := newApp(t, tui.AppParams{Saver: &fakeSaver{err: fmt.Errorf("disk full")}})

	out := render(press(app, "G", "d", "y"))

	assert.Assert(t, is.Contains(out, "Error saving: disk full"))
}

func TestView_OpenedFolderIsBroughtIntoView(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	e := engine.New(logger)
	var nodes []*model.Node
	for i := 0; i < 20; i++ {
		nodes = append(nodes, model.NewFolder(fmt.Sprintf("Folder %02d", i),
			model.NewLink(fmt.Sprintf("inside %02d", i), "https://example.com")))
	}
	assert.NilError(t, e.Load(nodes))

	app := tui.NewApp(tui.AppParams{Engine: e, Log: logger}).WithDimensions(80, 10)
	app = press(app, "G", "k", "k", "k", "k", "enter")

	assert.Equal(t, app.Cursor(), 15)
	out := render(app)
	assert.Assert(t, is.Contains(out, "Folder 15"))
	assert.Assert(t, is.Contains(out, "inside 15"))
	assert.Assert(t, !strings.Contains(out, "Folder 00"))
}

func TestView_LongTitlesAreTruncated(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	e := engine.New(logger)
	assert.NilError(t, e.Load([]*model.Node{
		model.NewLink(strings.Repeat("very long title ", 20), "https://example.com"),
	}))

	out := render(tui.NewApp(tui.AppParams{Engine: e, Log: logger}).WithDimensions(60, 20))

	for _, line := range strings.Split(out, "\n") {
		assert.Assert(t, layout.VisibleLength(line) <= 60, "line too wide: %q", line)
	}
	assert.Assert(t, is.Contains(out, "..."))
}
