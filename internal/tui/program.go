package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bmtree/internal/app"
	"github.com/nikbrunner/bmtree/internal/tree"
)

// Run opens the full screen tree view for a and blocks until the user quits.
// Changes made elsewhere while the view is open are forwarded as EventMsg.
func Run(a *app.App, opts ...tea.ProgramOption) error {
	m := NewApp(AppParams{Tree: a.Tree()})
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	// Mutations made by the view itself notify from inside Update, where a
	// blocking Send would deadlock the event loop.
	a.Subscribe(tree.NotifierFunc(func(e tree.Event) {
		go p.Send(EventMsg(e))
	}))
	defer a.Subscribe(nil)

	_, err := p.Run()
	return err
}
