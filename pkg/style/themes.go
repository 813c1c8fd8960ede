package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Every colour adapts to light and dark terminals.
var (
	PrimaryColor   = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#58A6FF"}
	SecondaryColor = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#8B949E"}

	HeadingColor = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#F0F6FC"}
	TextColor    = lipgloss.AdaptiveColor{Light: "#424A53", Dark: "#C9D1D9"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}
	BorderColor  = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#30363D"}
)

// Outcome colours for messages and doctor results
var (
	SuccessColor = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF7B72"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"}
	InfoColor    = lipgloss.AdaptiveColor{Light: "#0550AE", Dark: "#79C0FF"}
)

// Change colours, one per chezmoi status code
var (
	AddedColor    = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#56D364"} // A
	DeletedColor  = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"} // D
	ModifiedColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#E3B341"} // M
	ScriptColor   = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#A78BFA"} // R
)
