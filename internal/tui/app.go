// Package tui renders the bookmark tree as an accordion in the terminal.
package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/fjvi/bm/internal/accordion"
	"github.com/fjvi/bm/internal/engine"
	"github.com/fjvi/bm/internal/favicon"
	"github.com/fjvi/bm/internal/model"
	"github.com/fjvi/bm/internal/tui/layout"
)

// Saver persists the tree after an edit.
type Saver interface {
	Save(root *model.Node) error
}

// App is the main bubbletea model for the bookmark manager.
type App struct {
	engine       *engine.Engine
	saver        Saver
	favicons     *favicon.Resolver
	clipboard    func(string) error
	openURL      func(string) error
	log          logrus.FieldLogger
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	mode   Mode
	search SearchState
	modal  ModalState
	status StatusLine

	items    []Item
	cursor   int
	viewport viewport.Model

	// Icon URLs by node ID, and the nodes already sent for refinement.
	icons   map[string]string
	refined map[string]bool

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Engine       *engine.Engine
	Saver        Saver                // optional, edits are not persisted if nil
	Favicons     *favicon.Resolver    // optional
	Clipboard    func(string) error   // optional, uses the system clipboard if nil
	OpenURL      func(string) error   // optional
	Log          logrus.FieldLogger   // optional
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
}

// faviconMsg carries a refined icon back into the update loop.
type faviconMsg struct {
	NodeID string
	Icon   string
	OK     bool
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	eng := params.Engine
	if eng == nil {
		eng = engine.New(params.Log)
	}

	log := params.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	app := App{
		engine:       eng,
		saver:        params.Saver,
		favicons:     params.Favicons,
		clipboard:    copyFn,
		openURL:      params.OpenURL,
		log:          log,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		search:       NewSearchState(layoutCfg),
		modal:        NewModalState(layoutCfg),
		viewport:     viewport.New(0, 0),
		icons:        map[string]string{},
		refined:      map[string]bool{},
		width:        80,
		height:       24,
	}

	app.sync()
	return app
}

// WithDimensions returns a copy sized as if the terminal had reported it.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	a.sync()
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the lines currently shown in the tree pane.
func (a App) Items() []Item {
	return a.items
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Status returns the current status line.
func (a App) Status() StatusLine {
	return a.status
}

// Icon returns the icon URL known for a node.
func (a App) Icon(id string) string {
	return a.icons[id]
}

// Engine returns the engine behind the view.
func (a App) Engine() *engine.Engine {
	return a.engine
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.requestIcon()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.sync()
		return a, nil

	case faviconMsg:
		// A newer request for the node superseded this one.
		if !msg.OK {
			return a, nil
		}
		if msg.Icon != "" {
			a.icons[msg.NodeID] = msg.Icon
		}
		a.sync()
		return a, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch a.mode {
		case ModeSearch:
			cmd = a.updateSearch(msg)
		case ModeRename:
			cmd = a.updateRename(msg)
		case ModeConfirmDelete:
			a.updateConfirmDelete(msg)
		case ModeHelp:
			a.mode = ModeNormal
		default:
			cmd = a.updateNormal(msg)
		}
		a.sync()
		return a, tea.Batch(cmd, a.requestIcon())
	}

	return a, nil
}

func (a *App) updateNormal(msg tea.KeyMsg) tea.Cmd {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return nil
		}
		a.lastKeyWasG = true
		return nil
	}
	a.lastKeyWasG = false
	a.status.Clear()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.items) > 0 {
			a.cursor = len(a.items) - 1
		}

	case key.Matches(msg, a.keys.Toggle):
		a.activate()

	case key.Matches(msg, a.keys.Close):
		a.closeFolder()

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		return a.search.Input.Focus()

	case key.Matches(msg, a.keys.Cancel):
		if _, active := a.engine.Query(); active {
			a.endSearch()
		}

	case key.Matches(msg, a.keys.YankURL):
		a.yankURL()

	case key.Matches(msg, a.keys.Rename):
		if item, ok := a.selected(); ok {
			a.modal.Open(item.NodeID, item.Title)
			a.mode = ModeRename
			return a.modal.TitleInput.Focus()
		}

	case key.Matches(msg, a.keys.Delete):
		if item, ok := a.selected(); ok {
			a.modal.Open(item.NodeID, item.Title)
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}
	return nil
}

// activate toggles a folder or opens a link. In search results a folder
// is revealed in the tree instead.
func (a *App) activate() {
	item, ok := a.selected()
	if !ok {
		return
	}

	if item.IsLink() {
		if a.openURL == nil {
			return
		}
		if err := a.openURL(item.URL); err != nil {
			a.status.Fail(fmt.Sprintf("Error opening: %v", err))
			return
		}
		a.status.Set("Opened " + item.URL)
		return
	}
	if !item.IsFolder() {
		return
	}

	if _, active := a.engine.Query(); active {
		a.endSearch()
	}
	result, err := a.engine.Toggle(item.NodeID)
	if err != nil {
		a.status.Fail(fmt.Sprintf("Error toggling: %v", err))
		return
	}
	if result.Opened {
		a.bringIntoView(result)
	} else {
		a.focus(item.NodeID)
	}
}

// closeFolder closes the selected folder, or the folder containing the
// selected row and moves the cursor onto it.
func (a *App) closeFolder() {
	if _, active := a.engine.Query(); active {
		return
	}
	item, ok := a.selected()
	if !ok {
		return
	}
	if item.IsFolder() && item.Open {
		if _, err := a.engine.Toggle(item.NodeID); err != nil {
			a.status.Fail(fmt.Sprintf("Error toggling: %v", err))
		}
		a.focus(item.NodeID)
		return
	}

	tree := a.engine.Tree()
	if tree == nil {
		return
	}
	parent := tree.Parent(item.NodeID)
	if parent == nil || tree.IsRoot(parent) || !a.engine.IsOpen(parent.ID) {
		return
	}
	if _, err := a.engine.Toggle(parent.ID); err != nil {
		a.status.Fail(fmt.Sprintf("Error toggling: %v", err))
		return
	}
	a.focus(parent.ID)
}

// bringIntoView puts the cursor on the toggled folder and centers it.
func (a *App) bringIntoView(result accordion.Result) {
	a.refreshItems()
	idx := a.indexOf(result.ScrollTo)
	if idx < 0 {
		return
	}
	a.cursor = idx
	a.resize()
	a.viewport.SetContent(a.renderRows())
	a.viewport.SetYOffset(layout.CalculateViewportOffset(idx, len(a.items), a.viewport.Height))
}

func (a *App) focus(id string) {
	a.refreshItems()
	if idx := a.indexOf(id); idx >= 0 {
		a.cursor = idx
	}
}

func (a *App) indexOf(id string) int {
	for i, item := range a.items {
		if item.NodeID == id {
			return i
		}
	}
	return -1
}

func (a *App) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		a.endSearch()
		a.mode = ModeNormal
		return nil
	case tea.KeyEnter:
		a.search.Input.Blur()
		a.mode = ModeNormal
		return nil
	case tea.KeyDown, tea.KeyCtrlN:
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
		return nil
	case tea.KeyUp, tea.KeyCtrlP:
		if a.cursor > 0 {
			a.cursor--
		}
		return nil
	}

	var cmd tea.Cmd
	before := a.search.Input.Value()
	a.search.Input, cmd = a.search.Input.Update(msg)
	if value := a.search.Input.Value(); value != before {
		a.engine.Search(value)
		a.cursor = 0
	}
	return cmd
}

func (a *App) endSearch() {
	a.engine.ClearSearch()
	a.search.Reset()
	a.cursor = 0
}

func (a *App) updateRename(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		a.modal.Reset()
		a.mode = ModeNormal
		return nil
	case tea.KeyEnter:
		id, title := a.modal.TargetID, a.modal.TitleInput.Value()
		a.modal.Reset()
		a.mode = ModeNormal
		if err := a.engine.Rename(id, title); err != nil {
			a.status.Fail(fmt.Sprintf("Error renaming: %v", err))
			return nil
		}
		a.persist("Renamed")
		return nil
	}

	var cmd tea.Cmd
	a.modal.TitleInput, cmd = a.modal.TitleInput.Update(msg)
	return cmd
}

func (a *App) updateConfirmDelete(msg tea.KeyMsg) {
	switch msg.String() {
	case "y", "enter":
		id, name := a.modal.TargetID, a.modal.TargetName
		a.modal.Reset()
		a.mode = ModeNormal
		if err := a.engine.Delete(id); err != nil {
			a.status.Fail(fmt.Sprintf("Error deleting: %v", err))
			return
		}
		a.persist("Deleted " + name)
	case "n", "esc", "q":
		a.modal.Reset()
		a.mode = ModeNormal
	}
}

// persist saves the tree after an edit and reports the outcome.
func (a *App) persist(done string) {
	if a.saver != nil {
		if tree := a.engine.Tree(); tree != nil {
			if err := a.saver.Save(tree.Root()); err != nil {
				a.log.WithError(err).Error("save failed")
				a.status.Fail(fmt.Sprintf("Error saving: %v", err))
				return
			}
		}
	}
	a.status.Set(done)
}

func (a *App) yankURL() {
	item, ok := a.selected()
	if !ok || !item.IsLink() {
		return
	}
	if err := a.clipboard(item.URL); err != nil {
		a.status.Fail(fmt.Sprintf("Error copying: %v", err))
		return
	}
	a.status.Set("Copied " + item.URL)
}

func (a App) selected() (Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return Item{}, false
	}
	return a.items[a.cursor], true
}

func (a *App) refreshItems() {
	if keyword, active := a.engine.Query(); active {
		a.items = matchItems(a.engine.Tree(), a.engine.Matches(), keyword)
	} else {
		a.items = rowItems(a.engine.Rows())
	}
}

func (a *App) resize() {
	a.viewport.Height = layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	a.viewport.Width = layout.CalculateItemWidth(
		layout.CalculatePaneWidth(a.width, a.layoutConfig.Pane), a.layoutConfig.Pane)
}

// sync is the single reconciliation pass run after every state change: it
// re-reads the engine, clamps the cursor and rebuilds the viewport content.
func (a *App) sync() {
	a.refreshItems()

	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}

	a.resize()
	a.viewport.SetContent(a.renderRows())
	a.viewport.SetYOffset(layout.FollowOffset(a.viewport.YOffset, a.cursor, a.viewport.Height))
}

// requestIcon records the best-effort icon for the selected link and
// returns a command refining it over the network, once per node. Run after
// sync so the selection is current.
func (a App) requestIcon() tea.Cmd {
	if a.favicons == nil {
		return nil
	}
	item, ok := a.selected()
	if !ok || !item.IsLink() || a.refined[item.NodeID] {
		return nil
	}
	a.refined[item.NodeID] = true
	a.icons[item.NodeID] = a.favicons.Request(item.NodeID, item.URL)

	resolver := a.favicons
	id, pageURL := item.NodeID, item.URL
	return func() tea.Msg {
		icon, ok := resolver.Refine(context.Background(), id, pageURL)
		return faviconMsg{NodeID: id, Icon: icon, OK: ok}
	}
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
