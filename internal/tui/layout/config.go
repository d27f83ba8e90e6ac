package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Tree  TreeConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// TreeConfig holds tree pane configuration.
type TreeConfig struct {
	// HeightReduction is subtracted from terminal height for tree rows.
	// Accounts for: app padding (1) + header (2) + status line (1) + help bar (2) = 6
	HeightReduction int

	// MinHeight is the minimum number of visible rows.
	MinHeight int

	// Indent is the number of columns per nesting level.
	Indent int

	// HostMinWidth: rows narrower than this hide the bookmark host.
	HostMinWidth int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit int
	URLCharLimit   int

	// StandardWidth is the display width of modal inputs.
	StandardWidth int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Tree: TreeConfig{
			HeightReduction: 6, // app padding (1) + header (2) + status line (1) + help bar (2)
			MinHeight:       3,
			Indent:          2,
			HostMinWidth:    60,
		},
		Modal: ModalConfig{
			WidthPercent: 50,
			MinWidth:     40,
			MaxWidth:     80,
		},
		Input: InputConfig{
			TitleCharLimit: 200,
			URLCharLimit:   2000,
			StandardWidth:  40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
