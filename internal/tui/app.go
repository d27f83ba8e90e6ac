package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/model"
	"github.com/nikbrunner/bmtree/internal/picker"
	"github.com/nikbrunner/bmtree/internal/tree"
	"github.com/nikbrunner/bmtree/internal/tui/layout"
)

// App is the main bubbletea model: an outline of the bookmark tree.
type App struct {
	tree         *tree.Tree
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	clipboard    func(string) error

	mode   Mode
	root   *arena.NestedNode
	rows   []Row
	cursor int
	modal  ModalState
	picker picker.Picker

	// For gg command
	lastKeyWasG bool

	messageText string
	messageType MessageType

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Tree         *tree.Tree
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	// Clipboard receives yanked URLs; defaults to the system clipboard.
	Clipboard func(string) error
}

// EventMsg delivers a tree change event to a running App.
type EventMsg tree.Event

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

	cfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		cfg = *params.LayoutConfig
	}

	clip := params.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}

	app := App{
		tree:         params.Tree,
		keys:         keys,
		styles:       styles,
		layoutConfig: cfg,
		clipboard:    clip,
		modal:        NewModalState(cfg),
		width:        80,
		height:       24,
	}

	app.refresh()
	return app
}

// WithDimensions returns a copy of the app with the given terminal size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Rows returns the visible rows.
func (a App) Rows() []Row {
	return a.rows
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Message returns the status line text.
func (a App) Message() string {
	return a.messageText
}

// current returns the row under the cursor.
func (a App) current() (Row, bool) {
	if a.cursor < 0 || a.cursor >= len(a.rows) {
		return Row{}, false
	}
	return a.rows[a.cursor], true
}

// refresh re-reads the tree and keeps the cursor on the same node when it
// still exists.
func (a *App) refresh() {
	var selected model.NodeID
	if row, ok := a.current(); ok {
		selected = row.ID()
	}

	root, err := a.tree.Nested(a.tree.Root(), arena.Unbounded)
	if err != nil {
		a.setError(err)
		return
	}
	a.root = root
	a.rows = flatten(root)
	a.selectID(selected)
}

// selectID moves the cursor to id. If id is not visible the cursor is
// clamped to the list.
func (a *App) selectID(id model.NodeID) bool {
	for i, r := range a.rows {
		if r.ID() == id {
			a.cursor = i
			return true
		}
	}
	if a.cursor >= len(a.rows) {
		a.cursor = len(a.rows) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	return false
}

func (a *App) setMessage(t MessageType, format string, args ...any) {
	a.messageType = t
	a.messageText = fmt.Sprintf(format, args...)
}

func (a *App) setError(err error) {
	a.setMessage(MessageError, "%s", err)
}

func (a *App) clearMessage() {
	a.messageText = ""
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.mode == ModeMove {
			m, _ := a.picker.Update(msg)
			a.picker = m.(picker.Picker)
		}
		return a, nil

	case EventMsg:
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		switch {
		case a.mode == ModeNormal:
			return a.handleNormalMode(msg)
		case a.mode.isForm():
			return a.handleFormMode(msg)
		case a.mode == ModeConfirmDelete:
			return a.handleConfirmDelete(msg)
		case a.mode == ModeMove:
			return a.handleMoveMode(msg)
		case a.mode == ModeHelp:
			if key.Matches(msg, a.keys.Help, a.keys.Quit) || msg.Type == tea.KeyEsc {
				a.mode = ModeNormal
			}
			return a, nil
		}
	}

	// Cursor blink and other input housekeeping.
	if a.mode.isForm() {
		cmd := a.modal.update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false
	a.clearMessage()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.rows)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.rows) > 0 {
			a.cursor = len(a.rows) - 1
		}

	case key.Matches(msg, a.keys.Toggle):
		if row, ok := a.current(); ok && row.IsFolder() {
			a.apply(a.tree.ToggleIsOpen(row.ID()))
		}

	case key.Matches(msg, a.keys.Expand):
		row, ok := a.current()
		if !ok || !row.IsFolder() {
			break
		}
		if !row.Node.IsOpen {
			a.apply(a.tree.SetIsOpen(row.ID(), true))
		} else if len(row.Node.Children) > 0 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Collapse):
		row, ok := a.current()
		if !ok {
			break
		}
		if row.IsFolder() && row.Node.IsOpen {
			a.apply(a.tree.SetIsOpen(row.ID(), false))
		} else {
			a.selectID(row.Parent)
		}

	case key.Matches(msg, a.keys.MoveUp):
		a.reorder(-1)

	case key.Matches(msg, a.keys.MoveDown):
		a.reorder(1)

	case key.Matches(msg, a.keys.Move):
		return a.openMove()

	case key.Matches(msg, a.keys.AddBookmark):
		return a.openAdd(ModeAddBookmark)

	case key.Matches(msg, a.keys.AddFolder):
		return a.openAdd(ModeAddFolder)

	case key.Matches(msg, a.keys.Edit):
		return a.openEdit()

	case key.Matches(msg, a.keys.Delete):
		if row, ok := a.current(); ok {
			a.modal.ResetInputs()
			a.modal.Target = row
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.YankURL):
		row, ok := a.current()
		if !ok {
			break
		}
		if row.IsFolder() {
			a.setError(model.Errf(model.ErrNotBookmark, row.ID()))
			break
		}
		if err := a.clipboard(row.Node.URL); err != nil {
			a.setError(err)
			break
		}
		a.setMessage(MessageSuccess, "Yanked %s", row.Node.URL)

	case key.Matches(msg, a.keys.Toolbar):
		row, ok := a.current()
		if !ok {
			break
		}
		if row.IsFolder() {
			a.setError(model.Errf(model.ErrNotBookmark, row.ID()))
			break
		}
		if _, err := a.tree.AppendBookmarkToToolbar(row.Node.URL, row.Title()); err != nil {
			a.setError(err)
			break
		}
		a.refresh()
		a.setMessage(MessageSuccess, "Added %q to the toolbar", row.Title())

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// apply refreshes after a successful mutation and reports a failed one.
func (a *App) apply(err error) bool {
	if err != nil {
		a.setError(err)
		return false
	}
	a.refresh()
	return true
}

// reorder swaps the current row with its previous (dir < 0) or next sibling.
func (a *App) reorder(dir int) {
	row, ok := a.current()
	if !ok {
		return
	}
	siblings := a.tree.Children(row.Parent)
	idx := -1
	for i, id := range siblings {
		if id == row.ID() {
			idx = i
			break
		}
	}
	target := idx + dir
	if idx < 0 || target < 0 || target >= len(siblings) {
		return
	}

	var err error
	if dir < 0 {
		err = a.tree.InsertBefore(row.ID(), siblings[target])
	} else {
		err = a.tree.InsertAfter(row.ID(), siblings[target])
	}
	if a.apply(err) {
		a.selectID(row.ID())
	}
}

// insertPosition returns where a node added from the current row goes:
// inside a folder under the cursor, after a bookmark, or at the end of the
// root when the tree is empty.
func (a App) insertPosition() model.Position {
	row, ok := a.current()
	switch {
	case !ok:
		return model.End(a.tree.Root())
	case row.IsFolder():
		return model.End(row.ID())
	default:
		return model.After(row.ID())
	}
}

func (a App) openAdd(mode Mode) (tea.Model, tea.Cmd) {
	a.modal.ResetInputs()
	a.modal.Position = a.insertPosition()
	if row, ok := a.current(); ok {
		a.modal.Target = row
	}
	a.mode = mode
	cmd := a.modal.focus(mode.hasURL())
	return a, cmd
}

func (a App) openEdit() (tea.Model, tea.Cmd) {
	row, ok := a.current()
	if !ok {
		return a, nil
	}
	a.modal.ResetInputs()
	a.modal.Target = row
	a.modal.TitleInput.SetValue(row.Title())
	if row.IsFolder() {
		a.mode = ModeEditFolder
	} else {
		a.mode = ModeEditBookmark
		a.modal.URLInput.SetValue(row.Node.URL)
	}
	cmd := a.modal.focus(false)
	return a, cmd
}

func (a App) openMove() (tea.Model, tea.Cmd) {
	row, ok := a.current()
	if !ok {
		return a, nil
	}
	a.modal.ResetInputs()
	a.modal.Target = row
	a.picker = picker.New(picker.Params{
		Folders:  a.tree.Folders(),
		Header:   fmt.Sprintf("Move %q to", row.Title()),
		Embedded: true,
	})
	m, _ := a.picker.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	a.picker = m.(picker.Picker)
	a.mode = ModeMove
	return a, nil
}

func (a App) handleFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		a.modal.ResetInputs()
		return a, nil

	case tea.KeyTab, tea.KeyShiftTab:
		if a.mode.hasURL() {
			cmd := a.modal.focus(!a.modal.FocusURL)
			return a, cmd
		}
		return a, nil

	case tea.KeyEnter:
		return a.submitForm()
	}

	cmd := a.modal.update(msg)
	return a, cmd
}

// submitForm applies the open form. On failure the form stays open with the
// error in the status line.
func (a App) submitForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(a.modal.TitleInput.Value())
	rawURL := strings.TrimSpace(a.modal.URLInput.Value())
	target := a.modal.Target

	var (
		id  model.NodeID
		err error
	)
	switch a.mode {
	case ModeAddBookmark:
		id, err = a.tree.InsertBookmark(a.modal.Position, rawURL, title)
	case ModeAddFolder:
		if title == "" {
			err = errors.New("folder title is empty")
			break
		}
		id, err = a.tree.InsertFolder(a.modal.Position, title)
	case ModeEditBookmark:
		id = target.ID()
		if _, err = model.ParseWebURL(rawURL); err != nil {
			break
		}
		if err = a.tree.UpdateTitle(id, title); err != nil {
			break
		}
		if rawURL != target.Node.URL {
			err = a.tree.UpdateURL(id, rawURL)
		}
	case ModeEditFolder:
		id = target.ID()
		err = a.tree.UpdateTitle(id, title)
	}
	if err != nil {
		a.setError(err)
		return a, nil
	}

	// A node added into a closed folder would be invisible.
	if a.mode == ModeAddBookmark || a.mode == ModeAddFolder {
		if target.Node != nil && target.IsFolder() && !target.Node.IsOpen {
			if err := a.tree.SetIsOpen(target.ID(), true); err != nil {
				a.setError(err)
			}
		}
	}

	a.mode = ModeNormal
	a.modal.ResetInputs()
	a.refresh()
	a.selectID(id)
	return a, nil
}

func (a App) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEnter, msg.String() == "y":
		row := a.modal.Target
		a.mode = ModeNormal
		a.modal.ResetInputs()
		if a.apply(a.tree.RemoveBookmark(row.ID())) {
			a.setMessage(MessageSuccess, "Deleted %q", row.Title())
		}
	case msg.Type == tea.KeyEsc, msg.String() == "n", msg.String() == "q":
		a.mode = ModeNormal
		a.modal.ResetInputs()
	}
	return a, nil
}

func (a App) handleMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m, cmd := a.picker.Update(msg)
	a.picker = m.(picker.Picker)
	if !a.picker.Done() {
		return a, cmd
	}

	row := a.modal.Target
	a.mode = ModeNormal
	a.modal.ResetInputs()
	folder, ok := a.picker.Selected()
	if !ok {
		return a, nil
	}
	if a.apply(a.tree.MoveNode(row.ID(), model.End(folder.ID))) {
		a.selectID(row.ID())
		a.setMessage(MessageSuccess, "Moved %q to %s", row.Title(), folder.Path)
	}
	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
