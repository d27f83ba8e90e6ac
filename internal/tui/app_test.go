package tui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/model"
	"github.com/nikbrunner/bmtree/internal/tree"
	"github.com/nikbrunner/bmtree/internal/tui"
	"github.com/nikbrunner/bmtree/internal/tui/layout"
)

type fixture struct {
	tree   *tree.Tree
	dev    model.NodeID
	goDocs model.NodeID
	github model.NodeID
}

// newFixture builds: Toolbar/ (open, empty), Dev/ (closed) > Go Docs, GitHub.
func newFixture(t *testing.T) fixture {
	t.Helper()
	tr := tree.NewDefault(tree.DefaultOptions())
	dev, err := tr.AddFolder(tr.Root(), "Dev")
	assert.NilError(t, err)
	goDocs, err := tr.AddBookmark(dev, "https://go.dev/doc", "Go Docs")
	assert.NilError(t, err)
	gh, err := tr.AddBookmark(tr.Root(), "https://github.com", "GitHub")
	assert.NilError(t, err)
	return fixture{tree: tr, dev: dev, goDocs: goDocs, github: gh}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, app tui.App, msgs ...tea.Msg) tui.App {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := app.Update(msg)
		app = updated.(tui.App)
	}
	return app
}

func titles(app tui.App) []string {
	var out []string
	for _, r := range app.Rows() {
		out = append(out, r.Title())
	}
	return out
}

func TestApp_Navigation_JK(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "GitHub"})
	assert.Equal(t, app.Cursor(), 0)

	app = press(t, app, runes("j"))
	assert.Equal(t, app.Cursor(), 1)

	app = press(t, app, runes("j"), runes("j"))
	assert.Equal(t, app.Cursor(), 2, "j at bottom should stay at bottom")

	app = press(t, app, runes("k"))
	assert.Equal(t, app.Cursor(), 1)

	app = press(t, app, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, app.Cursor(), 0, "k at top should stay at 0")
}

func TestApp_TopAndBottom(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("G"))
	assert.Equal(t, app.Cursor(), 2)

	// A single g waits for the second one.
	app = press(t, app, runes("g"))
	assert.Equal(t, app.Cursor(), 2)
	app = press(t, app, runes("g"))
	assert.Equal(t, app.Cursor(), 0)
}

func TestApp_ExpandAndCollapse(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	// l on a closed folder opens it and keeps the cursor in place.
	app = press(t, app, runes("j"), runes("l"))
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "Go Docs", "GitHub"})
	assert.Equal(t, app.Cursor(), 1)
	d, _ := f.tree.Get(f.dev)
	assert.Assert(t, d.IsOpen)

	// l on an open folder steps into it.
	app = press(t, app, runes("l"))
	assert.Equal(t, app.Cursor(), 2)

	// h on a bookmark jumps to its folder, h on an open folder closes it.
	app = press(t, app, runes("h"))
	assert.Equal(t, app.Cursor(), 1)
	app = press(t, app, runes("h"))
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "GitHub"})
	d, _ = f.tree.Get(f.dev)
	assert.Assert(t, !d.IsOpen)
}

func TestApp_Toggle(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, len(app.Rows()), 4)

	app = press(t, app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, len(app.Rows()), 3)

	// Enter on a bookmark changes nothing.
	app = press(t, app, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.Message(), "")
}

func TestApp_Reorder(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("G"), runes("K"))
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "GitHub", "Dev"})
	assert.Equal(t, app.Cursor(), 1, "cursor should follow the moved row")

	app = press(t, app, runes("J"))
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "GitHub"})
	assert.Equal(t, app.Cursor(), 2)

	// Already last: nothing to swap with.
	app = press(t, app, runes("J"))
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "GitHub"})
	assert.Equal(t, app.Message(), "")
}

func TestApp_DeleteConfirm(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("G"), runes("d"))
	assert.Equal(t, app.Mode(), tui.ModeConfirmDelete)

	app = press(t, app, runes("y"))
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev"})
	assert.Equal(t, app.Cursor(), 1)
	assert.Check(t, is.Contains(app.Message(), "GitHub"))

	_, err := f.tree.Get(f.github)
	assert.ErrorIs(t, err, model.ErrNodeNotFound)
}

func TestApp_DeleteCancel(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("G"), runes("d"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.Equal(t, len(app.Rows()), 3)
}

func TestApp_DeleteToolbarRejected(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("d"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.Check(t, is.Contains(app.Message(), model.ErrCannotRemoveToolbar.Error()))
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "GitHub"})
}

func TestApp_AddBookmarkAfterCursor(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("j"), runes("a"))
	assert.Equal(t, app.Mode(), tui.ModeAddBookmark)

	// Dev is under the cursor, so the bookmark lands inside and Dev opens.
	app = press(t, app,
		runes("https://pkg.go.dev"),
		tea.KeyMsg{Type: tea.KeyTab},
		runes("Packages"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "Go Docs", "Packages", "GitHub"})
	assert.Equal(t, app.Cursor(), 3)

	// On a bookmark the new one goes right after it.
	app = press(t, app, runes("a"), runes("https://example.com"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "Go Docs", "Packages", "https://example.com", "GitHub"})
}

func TestApp_AddBookmarkInvalidURL(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("a"), runes("ftp://example.com"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.Mode(), tui.ModeAddBookmark, "form should stay open")
	assert.Check(t, is.Contains(app.Message(), model.ErrNotWebURL.Error()))

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.Equal(t, f.tree.Stats().Bookmarks, 2)
}

func TestApp_AddFolder(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("G"), runes("A"), runes("Reading"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "GitHub", "Reading"})
	assert.Equal(t, app.Cursor(), 3)

	// Empty titles are refused.
	app = press(t, app, runes("A"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.Mode(), tui.ModeAddFolder)
	assert.Assert(t, app.Message() != "")
}

func TestApp_EditBookmark(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("G"), runes("e"))
	assert.Equal(t, app.Mode(), tui.ModeEditBookmark)

	app = press(t, app,
		runes(" Home"),
		tea.KeyMsg{Type: tea.KeyTab},
		runes("/explore"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.Equal(t, app.Mode(), tui.ModeNormal)

	d, err := f.tree.Get(f.github)
	assert.NilError(t, err)
	assert.Equal(t, d.Title, "GitHub Home")
	assert.Equal(t, d.URL, "https://github.com/explore")
}

func TestApp_EditFolder(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("j"), runes("e"), runes("elopment"), tea.KeyMsg{Type: tea.KeyEnter})
	d, _ := f.tree.Get(f.dev)
	assert.Equal(t, d.Title, "Development")
}

func TestApp_MoveToFolder(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("G"), runes("m"))
	assert.Equal(t, app.Mode(), tui.ModeMove)

	// Folders are listed in tree order: Bookmarks, Toolbar, Dev.
	app = press(t, app, runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.DeepEqual(t, f.tree.Children(f.dev), []model.NodeID{f.goDocs, f.github})
	assert.Check(t, is.Contains(app.Message(), "Bookmarks / Dev"))
}

func TestApp_MoveCancel(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("G"), runes("m"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "Dev", "GitHub"})
}

func TestApp_MoveIntoItselfRejected(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	// Dev is the third folder in the picker.
	app = press(t, app, runes("j"), runes("m"))
	app = press(t, app, runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.Check(t, is.Contains(app.Message(), model.ErrCannotMoveToDescendant.Error()))
}

func TestApp_YankURL(t *testing.T) {
	f := newFixture(t)
	var yanked string
	app := tui.NewApp(tui.AppParams{
		Tree:      f.tree,
		Clipboard: func(s string) error { yanked = s; return nil },
	})

	app = press(t, app, runes("G"), runes("y"))
	assert.Equal(t, yanked, "https://github.com")
	assert.Check(t, is.Contains(app.Message(), "Yanked"))

	// Folders have no URL.
	yanked = ""
	app = press(t, app, runes("k"), runes("y"))
	assert.Equal(t, yanked, "")
	assert.Check(t, is.Contains(app.Message(), model.ErrNotBookmark.Error()))
}

func TestApp_AddToToolbar(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("G"), runes("t"))

	bookmarks, err := f.tree.ToolbarBookmarks()
	assert.NilError(t, err)
	assert.Equal(t, len(bookmarks), 1)
	assert.Equal(t, bookmarks[0].URL, "https://github.com")
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "GitHub", "Dev", "GitHub"})
	assert.Equal(t, app.Cursor(), 3, "cursor should stay on the original")
}

func TestApp_ExternalChangeRefreshes(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})
	app = press(t, app, runes("G"))

	_, err := f.tree.InsertBookmark(model.Before(f.dev), "https://news.ycombinator.com", "HN")
	assert.NilError(t, err)
	assert.Equal(t, len(app.Rows()), 3, "view is stale until the event arrives")

	app = press(t, app, tui.EventMsg{Name: tree.EventBookmarksChanged, Op: "add_bookmark"})
	assert.DeepEqual(t, titles(app), []string{"Toolbar", "HN", "Dev", "GitHub"})
	assert.Equal(t, app.Cursor(), 3, "cursor should stay on GitHub")
}

func TestApp_QuitAndHelp(t *testing.T) {
	f := newFixture(t)
	app := tui.NewApp(tui.AppParams{Tree: f.tree})

	app = press(t, app, runes("?"))
	assert.Equal(t, app.Mode(), tui.ModeHelp)

	// q closes the help overlay instead of quitting.
	updated, cmd := app.Update(runes("q"))
	app = updated.(tui.App)
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.Assert(t, cmd == nil)

	_, cmd = app.Update(runes("q"))
	assert.Assert(t, cmd != nil)
	_, ok := cmd().(tea.QuitMsg)
	assert.Assert(t, ok, "expected quit")
}

func TestApp_EmptyTree(t *testing.T) {
	a := arena.New()
	_, err := a.CreateRoot("Bookmarks")
	assert.NilError(t, err)
	tr := tree.New(a, tree.DefaultOptions())
	app := tui.NewApp(tui.AppParams{Tree: tr})

	output := layout.StripANSI(app.View())
	assert.Check(t, is.Contains(output, "(empty)"))

	// Nothing to act on; none of these may panic.
	app = press(t, app, runes("j"), runes("k"), runes("d"), runes("e"), runes("y"), runes("m"), runes("J"), runes("h"))
	assert.Equal(t, app.Mode(), tui.ModeNormal)

	app = press(t, app, runes("A"), runes("Inbox"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.DeepEqual(t, titles(app), []string{"Inbox"})
}
