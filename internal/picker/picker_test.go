package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bmtree/internal/tree"
)

func testFolders() []tree.FolderEntry {
	return []tree.FolderEntry{
		{ID: 1, Title: "Bookmarks", Path: "Bookmarks", IsRoot: true},
		{ID: 2, Title: "GitHub", Path: "Bookmarks / GitHub", Depth: 1},
		{ID: 3, Title: "GitLab", Path: "Bookmarks / GitLab", Depth: 1},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(p Picker, msg tea.Msg) (Picker, tea.Cmd) {
	m, cmd := p.Update(msg)
	return m.(Picker), cmd
}

func TestPicker_InitialState(t *testing.T) {
	p := New(Params{Folders: testFolders()})

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 3 {
		t.Errorf("expected 3 results, got %d", len(p.results))
	}
	if p.Done() {
		t.Error("new picker should not be done")
	}
}

func TestPicker_NavigateAndBounds(t *testing.T) {
	p := New(Params{Folders: testFolders()})

	p, _ = update(p, runes("k"))
	if p.cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", p.cursor)
	}

	p, _ = update(p, runes("j"))
	p, _ = update(p, tea.KeyMsg{Type: tea.KeyDown})
	p, _ = update(p, runes("j"))
	if p.cursor != 2 {
		t.Errorf("expected cursor at last item, got %d", p.cursor)
	}

	p, _ = update(p, tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after up arrow, got %d", p.cursor)
	}
}

func TestPicker_SelectItem(t *testing.T) {
	p := New(Params{Folders: testFolders()})
	p.cursor = 2

	p, cmd := update(p, tea.KeyMsg{Type: tea.KeyEnter})

	got, ok := p.Selected()
	if !ok || got.ID != 3 {
		t.Errorf("expected GitLab to be selected, got %+v (%v)", got, ok)
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
}

func TestPicker_Cancel(t *testing.T) {
	p := New(Params{Folders: testFolders()})

	p, cmd := update(p, tea.KeyMsg{Type: tea.KeyEsc})

	if !p.Cancelled() || !p.Done() {
		t.Error("expected cancelled after Esc")
	}
	if _, ok := p.Selected(); ok {
		t.Error("expected no selection when cancelled")
	}
	if cmd == nil {
		t.Error("expected quit command after cancel")
	}
}

func TestPicker_EmbeddedDoesNotQuit(t *testing.T) {
	p := New(Params{Folders: testFolders(), Embedded: true})

	p, cmd := update(p, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("embedded picker must not quit the program")
	}
	if !p.Done() {
		t.Error("expected picker to be done")
	}
}

func TestPicker_Filter(t *testing.T) {
	p := New(Params{Folders: testFolders()})

	p, _ = update(p, runes("/"))
	if !p.filtering {
		t.Fatal("expected filter mode after /")
	}
	for _, r := range "lab" {
		p, _ = update(p, runes(string(r)))
	}
	if len(p.results) != 1 || p.results[0].Folder.ID != 3 {
		t.Fatalf("expected only GitLab, got %+v", p.results)
	}

	// Enter leaves filter mode, a second Enter chooses.
	p, _ = update(p, tea.KeyMsg{Type: tea.KeyEnter})
	if p.filtering || p.Done() {
		t.Fatal("first Enter should only close the filter")
	}
	p, _ = update(p, tea.KeyMsg{Type: tea.KeyEnter})
	if got, ok := p.Selected(); !ok || got.ID != 3 {
		t.Errorf("expected GitLab, got %+v", got)
	}
}

func TestPicker_FilterEscRestoresList(t *testing.T) {
	p := New(Params{Folders: testFolders()})

	p, _ = update(p, runes("/"))
	p, _ = update(p, runes("x"))
	p, _ = update(p, runes("y"))
	p, _ = update(p, runes("z"))
	if len(p.results) != 0 {
		t.Fatalf("expected no matches, got %d", len(p.results))
	}

	// Enter on an empty list chooses nothing.
	p, _ = update(p, tea.KeyMsg{Type: tea.KeyEnter})
	p, _ = update(p, tea.KeyMsg{Type: tea.KeyEnter})
	if p.Done() {
		t.Error("nothing to choose from")
	}

	p, _ = update(p, runes("/"))
	p, _ = update(p, tea.KeyMsg{Type: tea.KeyEsc})
	if len(p.results) != 3 || p.filtering {
		t.Errorf("expected full list after Esc, got %d results", len(p.results))
	}
}

func TestPicker_View(t *testing.T) {
	p := New(Params{Folders: testFolders(), Header: "Move 'x' to"})
	view := p.View()

	if !strings.Contains(view, "Move 'x' to (3 folders)") {
		t.Errorf("missing header in view:\n%s", view)
	}
	if !strings.Contains(view, "Bookmarks / GitLab") {
		t.Errorf("missing folder path in view:\n%s", view)
	}
}
