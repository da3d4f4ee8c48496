package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/stockpile/internal/presenter"
)

// Catppuccin Mocha, the subset the two screens use.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
	colorMuted   = colorOverlay0
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	labelStyle    = lipgloss.NewStyle().Foreground(colorSubtext0)
	focusLabel    = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	photoStyle    = lipgloss.NewStyle().Foreground(colorSuccess)

	statusBarStyle    = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	statusErrBarStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true).Padding(0, 1)
	footerStyle       = lipgloss.NewStyle().Padding(0, 1)
)

func noticeColor(k presenter.NoticeKind) lipgloss.Color {
	switch k {
	case presenter.NoticeError:
		return colorError
	case presenter.NoticeWarning:
		return colorWarning
	default:
		return colorInfo
	}
}
