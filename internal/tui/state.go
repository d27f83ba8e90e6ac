package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bmtree/internal/model"
	"github.com/nikbrunner/bmtree/internal/tui/layout"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddBookmark
	ModeAddFolder
	ModeEditBookmark
	ModeEditFolder
	ModeConfirmDelete
	ModeMove
	ModeHelp
)

// isForm reports whether the mode shows the title/URL form.
func (m Mode) isForm() bool {
	switch m {
	case ModeAddBookmark, ModeAddFolder, ModeEditBookmark, ModeEditFolder:
		return true
	}
	return false
}

// hasURL reports whether the form includes the URL input.
func (m Mode) hasURL() bool {
	return m == ModeAddBookmark || m == ModeEditBookmark
}

// MessageType selects how the status line is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageError
)

// ModalState holds state for the add/edit/delete modals.
type ModalState struct {
	TitleInput textinput.Model
	URLInput   textinput.Model
	FocusURL   bool // bookmark forms: URL input has focus

	// Target is the row being edited or deleted.
	Target Row
	// Position is where an added node is inserted.
	Position model.Position
}

// NewModalState creates a new ModalState with initialized inputs.
func NewModalState(cfg layout.LayoutConfig) ModalState {
	titleInput := textinput.New()
	titleInput.Placeholder = "Title"
	titleInput.CharLimit = cfg.Input.TitleCharLimit
	titleInput.Width = cfg.Input.StandardWidth

	urlInput := textinput.New()
	urlInput.Placeholder = "https://..."
	urlInput.CharLimit = cfg.Input.URLCharLimit
	urlInput.Width = cfg.Input.StandardWidth

	return ModalState{
		TitleInput: titleInput,
		URLInput:   urlInput,
	}
}

// ResetInputs clears all modal inputs for a new modal session.
func (m *ModalState) ResetInputs() {
	m.TitleInput.Reset()
	m.URLInput.Reset()
	m.TitleInput.Blur()
	m.URLInput.Blur()
	m.FocusURL = false
	m.Target = Row{}
	m.Position = model.Position{}
}

// focus moves keyboard focus to the URL or title input.
func (m *ModalState) focus(url bool) tea.Cmd {
	m.FocusURL = url
	if url {
		m.TitleInput.Blur()
		return m.URLInput.Focus()
	}
	m.URLInput.Blur()
	return m.TitleInput.Focus()
}

// update forwards msg to the focused input.
func (m *ModalState) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.FocusURL {
		m.URLInput, cmd = m.URLInput.Update(msg)
	} else {
		m.TitleInput, cmd = m.TitleInput.Update(msg)
	}
	return cmd
}
