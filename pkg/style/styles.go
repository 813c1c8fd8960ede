package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	// Headers and titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	// Text styles
	NormalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	KeyStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Change styles, one per status column letter
var (
	AddedStyle = lipgloss.NewStyle().
			Foreground(AddedColor).
			Bold(true)

	DeletedStyle = lipgloss.NewStyle().
			Foreground(DeletedColor).
			Bold(true)

	ModifiedStyle = lipgloss.NewStyle().
			Foreground(ModifiedColor).
			Bold(true)

	ScriptStyle = lipgloss.NewStyle().
			Foreground(ScriptColor).
			Bold(true)
)

// Operation indicator styles
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
	InfoIndicator    = InfoStyle.Render("•")
	PendingIndicator = MutedStyle.Render("○")
)

// ForCode returns the style for a chezmoi status letter. Unknown letters and
// the blank column render muted.
func ForCode(code rune) lipgloss.Style {
	switch code {
	case 'A':
		return AddedStyle
	case 'D':
		return DeletedStyle
	case 'M':
		return ModifiedStyle
	case 'R':
		return ScriptStyle
	default:
		return MutedStyle
	}
}

// ForDoctorResult maps a doctor result column to an indicator
func ForDoctorResult(result string) string {
	switch result {
	case "ok":
		return SuccessIndicator
	case "warning":
		return WarningIndicator
	case "error", "failed":
		return ErrorIndicator
	case "skipped":
		return PendingIndicator
	default:
		return InfoIndicator
	}
}

// Helper functions
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}

func Italic(s string) string {
	return lipgloss.NewStyle().Italic(true).Render(s)
}
