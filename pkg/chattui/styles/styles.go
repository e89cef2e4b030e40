package styles

import "github.com/charmbracelet/lipgloss"

// color returns a lipgloss.Color, choosing light or dark variant based on the
// current theme set by SetDarkTheme.
func color(light, dark string) lipgloss.Color {
	if isDark {
		return lipgloss.Color(dark)
	}
	return lipgloss.Color(light)
}

// isDark tracks the current theme. Default is dark.
var isDark = true

// SetDarkTheme switches the color palette. Call this before the TUI starts.
func SetDarkTheme(dark bool) {
	isDark = dark
	applyTheme()
}

// IsDarkTheme returns the current theme setting.
func IsDarkTheme() bool {
	return isDark
}

func applyTheme() {
	// --- palette ---
	colorBlack := color("16", "16")
	colorInputBg := color("250", "240")
	colorGray := color("243", "245")
	colorText := color("16", "252")
	colorCyan := color("30", "51")
	colorYellow := color("136", "226")
	colorRed := color("160", "196")

	// --- scrollback ---
	MessageIDStyle = lipgloss.NewStyle().Foreground(colorCyan)
	MessageTextStyle = lipgloss.NewStyle().Foreground(colorText)

	// --- input bar ---
	InputBarStyle = lipgloss.NewStyle().Foreground(colorBlack).Background(colorInputBg)
	PromptStyle = lipgloss.NewStyle().Foreground(colorBlack).Background(colorInputBg).Bold(true)
	CursorStyle = lipgloss.NewStyle().Reverse(true)

	// --- side channel ---
	StatusWarnStyle = lipgloss.NewStyle().Foreground(colorYellow).Background(colorInputBg)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(colorRed).Background(colorInputBg).Bold(true)
	StatusHintStyle = lipgloss.NewStyle().Foreground(colorGray)
}

var (
	// Scrollback styles
	MessageIDStyle   lipgloss.Style
	MessageTextStyle lipgloss.Style

	// Input bar styles
	InputBarStyle lipgloss.Style
	PromptStyle   lipgloss.Style
	CursorStyle   lipgloss.Style

	// Side channel styles, shown at the right end of the input bar
	StatusWarnStyle  lipgloss.Style
	StatusErrorStyle lipgloss.Style
	StatusHintStyle  lipgloss.Style
)

func init() {
	applyTheme()
}
