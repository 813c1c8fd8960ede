package tui

import (
	"github.com/arthur-debert/chezui/pkg/style"
	"github.com/charmbracelet/lipgloss"
)

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(style.MutedColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(style.PrimaryColor).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(style.BorderColor)

	helpStyle  = style.MutedStyle
	flashStyle = style.InfoStyle
)
