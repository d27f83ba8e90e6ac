package layout

import "github.com/charmbracelet/x/ansi"

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// VisibleLength returns the number of terminal cells s occupies, ignoring
// escape codes. Wide runes count twice.
func VisibleLength(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText truncates text to maxWidth cells, ending with cfg.Ellipsis.
// Escape codes in text are preserved.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", text != ""
	}
	if VisibleLength(text) <= maxWidth {
		return text, false
	}

	// Not enough room for any text + ellipsis
	if maxWidth <= VisibleLength(cfg.Ellipsis) {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}
	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}
