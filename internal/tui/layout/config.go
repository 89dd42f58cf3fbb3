package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds tree pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (1) + search line (1) + pane borders (2) + status (1) + help bar (1) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthReduction is subtracted from terminal width for the pane.
	// Accounts for app padding (4) + pane borders (2).
	WidthReduction int

	// ContentPadding is subtracted from pane width for row rendering.
	// Accounts for pane padding on each side.
	ContentPadding int

	// IndentWidth is the number of columns per nesting level.
	IndentWidth int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit  int
	SearchCharLimit int

	// StandardWidth is used for the rename and search inputs.
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
		Pane: PaneConfig{
			HeightReduction: 7,
			MinHeight:       3,
			WidthReduction:  6,
			ContentPadding:  2,
			IndentWidth:     2,
		},
		Modal: ModalConfig{
			DefaultWidthPercent: 40,
			MinWidth:            40,
			MaxWidth:            80,
		},
		Input: InputConfig{
			TitleCharLimit:  200,
			SearchCharLimit: 100,
			StandardWidth:   40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
