package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/tui/layout"
)

// renderView creates the complete tree view.
func (a App) renderView() string {
	switch {
	case a.mode == ModeMove:
		return a.styles.App.Render(a.picker.View())
	case a.mode == ModeHelp:
		return a.renderHelpOverlay()
	case a.mode != ModeNormal:
		return a.renderModal()
	}

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.renderTree(), a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader renders the root title with the tree size.
func (a App) renderHeader() string {
	title := "Bookmarks"
	if a.root != nil {
		title = a.root.Title
	}
	stats := a.tree.Stats()
	return a.styles.Title.Render(title) + "  " +
		a.styles.Stats.Render(fmt.Sprintf("%d folders, %d bookmarks", stats.Folders, stats.Bookmarks)) + "\n"
}

// renderTree renders the rows that fit on screen around the cursor.
func (a App) renderTree() string {
	if len(a.rows) == 0 {
		return a.styles.Empty.Render("(empty) press a to add a bookmark")
	}

	height := layout.CalculateTreeHeight(a.height, a.layoutConfig.Tree)
	offset := layout.CalculateViewportOffset(a.cursor, len(a.rows), height)
	end := min(offset+height, len(a.rows))

	// Terminal width minus app padding: left=2, right=2
	width := a.width - 4

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, a.renderRow(a.rows[i], i == a.cursor, width))
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one tree line: indent, fold marker and title, plus the
// host for bookmarks when the terminal is wide enough.
func (a App) renderRow(row Row, isCursor bool, maxWidth int) string {
	indent := strings.Repeat(" ", row.Depth*a.layoutConfig.Tree.Indent)

	var marker, text, host string
	if row.IsFolder() {
		marker = "▸ "
		if row.Node.IsOpen {
			marker = "▾ "
		}
		text = row.Title() + "/"
	} else {
		marker = "  "
		text = row.Title()
		if maxWidth >= a.layoutConfig.Tree.HostMinWidth {
			host = row.Node.Host
		}
	}

	line := indent + marker + text
	if host != "" {
		line += "  " + host
	}
	line, _ = layout.TruncateText(line, maxWidth, a.layoutConfig.Text)

	if isCursor {
		// Pad to fill width for highlight
		if pad := maxWidth - layout.VisibleLength(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return a.styles.ItemSelected.Render(line)
	}

	switch {
	case row.Node.IsToolbar:
		return a.styles.Toolbar.Render(line)
	case row.IsFolder():
		return a.styles.Folder.Render(line)
	default:
		return a.styles.Bookmark.Render(line)
	}
}

// renderHelpBar renders the status line followed by the contextual hints.
func (a App) renderHelpBar() string {
	lines := []string{"", a.renderMessageLine()}
	if hints := a.renderHints(a.getContextualHints()); hints != "" {
		lines = append(lines, hints)
	}
	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	if a.messageText == "" {
		return ""
	}
	switch a.messageType {
	case MessageError:
		return a.styles.Error.Render("✗ " + a.messageText)
	case MessageSuccess:
		return a.styles.Success.Render("✓ " + a.messageText)
	default:
		return a.styles.Info.Render(a.messageText)
	}
}

// renderModal renders the add, edit and delete dialogs.
func (a App) renderModal() string {
	var title, content strings.Builder

	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal)
	modalStyle := a.styles.Modal.Width(modalWidth)

	switch a.mode {
	case ModeAddFolder, ModeEditFolder:
		if a.mode == ModeAddFolder {
			title.WriteString("Add Folder\n\n")
		} else {
			title.WriteString("Edit Folder\n\n")
		}
		content.WriteString("Name:\n")
		content.WriteString(a.modal.TitleInput.View())

	case ModeAddBookmark, ModeEditBookmark:
		if a.mode == ModeAddBookmark {
			title.WriteString("Add Bookmark\n\n")
		} else {
			title.WriteString("Edit Bookmark\n\n")
		}
		content.WriteString("URL:\n")
		content.WriteString(a.modal.URLInput.View())
		content.WriteString("\n\n")
		content.WriteString("Title:\n")
		content.WriteString(a.modal.TitleInput.View())

	case ModeConfirmDelete:
		target := a.modal.Target
		kind := "Bookmark"
		if target.IsFolder() {
			kind = "Folder"
		}
		fmt.Fprintf(&title, "Delete %s?\n\n", kind)
		content.WriteString(target.Title())
		content.WriteString("\n")
		if target.IsFolder() && len(target.Node.Children) > 0 {
			content.WriteString(a.styles.Help.Render(fmt.Sprintf("Everything inside is deleted too (%d items).", countNodes(target.Node)-1)))
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter/y", Desc: "confirm"},
			{Key: "Esc/n", Desc: "cancel"},
		}))
	}

	if a.mode.isForm() {
		if msg := a.renderMessageLine(); msg != "" {
			content.WriteString("\n\n" + msg)
		}
		content.WriteString("\n\n" + a.renderHints(a.getContextualHints()))
	}

	modal := modalStyle.Render(a.styles.Title.Render(title.String()) + content.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

// countNodes counts n and everything below it.
func countNodes(n *arena.NestedNode) int {
	count := 1
	for _, c := range n.Children {
		count += countNodes(c)
	}
	return count
}

// renderHelpOverlay renders the key reference.
func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k    move\n")
	left.WriteString("gg     top\n")
	left.WriteString("G      bottom\n")
	left.WriteString("l      open folder\n")
	left.WriteString("h      close/parent\n")
	left.WriteString("enter  toggle folder\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("act") + "\n")
	left.WriteString("y      yank url\n")
	left.WriteString("t      add to toolbar\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("edit") + "\n")
	right.WriteString("a    add bookmark\n")
	right.WriteString("A    add folder\n")
	right.WriteString("e    edit\n")
	right.WriteString("d    delete\n")
	right.WriteString("J/K  reorder\n")
	right.WriteString("m    move to folder\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/q/esc] close"))

	leftCol := lipgloss.NewStyle().Width(24).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(24).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, modalStyle.Render(cols))
}
