package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderPopup draws popup as a bordered card centred on a width x height
// screen. Rows the card does not cover show base as is; covered rows keep the
// base text on either side of the card.
func renderPopup(base, popup string, border lipgloss.TerminalColor, width, height int) string {
	if width <= 0 || height <= 0 {
		return base + "\n\n" + popup
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		MaxWidth(width).
		Render(popup)

	cardRows := strings.Split(card, "\n")
	if len(cardRows) > height {
		cardRows = cardRows[:height]
	}
	cardWidth := min(lipgloss.Width(card), width)
	left := (width - cardWidth) / 2
	top := (height - len(cardRows)) / 2

	baseRows := strings.Split(base, "\n")
	screen := make([]string, height)
	for y := range screen {
		var row string
		if y < len(baseRows) {
			row = baseRows[y]
		}
		if y >= top && y < top+len(cardRows) {
			row = spliceRow(row, cardRows[y-top], left, cardWidth)
		}
		screen[y] = row
	}
	return strings.Join(screen, "\n")
}

// spliceRow writes cell over columns [at, at+width) of row. A short row is
// padded out to at first.
func spliceRow(row, cell string, at, width int) string {
	if gap := at - ansi.StringWidth(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	cell = ansi.Truncate(cell, width, "")
	if w := ansi.StringWidth(cell); w < width {
		cell += strings.Repeat(" ", width-w)
	}
	return ansi.Truncate(row, at, "") + cell + ansi.TruncateLeft(row, at+width, "")
}
