package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/bmtree/internal/search"
	"github.com/nikbrunner/bmtree/internal/tree"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Params configures a Picker.
type Params struct {
	Folders []tree.FolderEntry
	// Header is shown above the list, e.g. "Move 'Work' to".
	Header string
	// Embedded pickers never quit the program; the host polls Done.
	Embedded bool
}

// Picker is a small TUI for choosing a target folder. Pressing / filters
// the list by fuzzy matching the folder paths.
type Picker struct {
	folders   []tree.FolderEntry
	results   []search.FolderResult
	header    string
	filter    textinput.Model
	filtering bool
	embedded  bool
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a new Picker listing params.Folders.
func New(params Params) Picker {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter folders"

	header := params.Header
	if header == "" {
		header = "Choose a folder"
	}
	return Picker{
		folders:  params.Folders,
		results:  search.FilterFolders(params.Folders, ""),
		header:   header,
		filter:   ti,
		embedded: params.Embedded,
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

func (p Picker) finish(cancelled bool) (Picker, tea.Cmd) {
	if cancelled {
		p.cancelled = true
	} else {
		p.selected = true
	}
	if p.embedded {
		return p, nil
	}
	return p, tea.Quit
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		if p.filtering {
			return p.updateFilter(msg)
		}

		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return p.finish(true)

		case tea.KeyEnter:
			if len(p.results) == 0 {
				return p, nil
			}
			return p.finish(false)

		case tea.KeyDown:
			p.moveCursor(1)
			return p, nil

		case tea.KeyUp:
			p.moveCursor(-1)
			return p, nil
		}

		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				p.moveCursor(1)
				return p, nil
			case "k":
				p.moveCursor(-1)
				return p, nil
			case "/":
				p.filtering = true
				cmd := p.filter.Focus()
				return p, cmd
			case "q":
				return p.finish(true)
			}
		}
	}

	return p, nil
}

func (p Picker) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return p.finish(true)
	case tea.KeyEsc:
		p.filtering = false
		p.filter.Blur()
		p.filter.SetValue("")
		p.refilter()
		return p, nil
	case tea.KeyEnter:
		p.filtering = false
		p.filter.Blur()
		return p, nil
	case tea.KeyDown:
		p.moveCursor(1)
		return p, nil
	case tea.KeyUp:
		p.moveCursor(-1)
		return p, nil
	}

	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.refilter()
	return p, cmd
}

func (p *Picker) refilter() {
	p.results = search.FilterFolders(p.folders, p.filter.Value())
	if p.cursor >= len(p.results) {
		p.cursor = max(len(p.results)-1, 0)
	}
}

func (p *Picker) moveCursor(delta int) {
	next := p.cursor + delta
	if next >= 0 && next < len(p.results) {
		p.cursor = next
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d folders)", p.header, len(p.results))))
	b.WriteString("\n")
	if p.filtering || p.filter.Value() != "" {
		b.WriteString(p.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Keep the cursor visible when the list is taller than the screen.
	visible := max(p.height-6, 1)
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	end := min(start+visible, len(p.results))

	for i := start; i < end; i++ {
		f := p.results[i].Folder
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		fmt.Fprintf(&b, "%s%s %s\n", cursor, style.Render(f.Title), pathStyle.Render(f.Path))
	}
	if len(p.results) == 0 {
		b.WriteString(pathStyle.Render("  no matching folders"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k: move  /: filter  Enter: choose  q/Esc: cancel"))

	return b.String()
}

// Selected returns the chosen folder; false if the picker was cancelled or
// is still open.
func (p Picker) Selected() (tree.FolderEntry, bool) {
	if p.cancelled || !p.selected || p.cursor >= len(p.results) {
		return tree.FolderEntry{}, false
	}
	return p.results[p.cursor].Folder, true
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

// Done reports whether a choice was made or the picker was cancelled.
func (p Picker) Done() bool {
	return p.selected || p.cancelled
}
