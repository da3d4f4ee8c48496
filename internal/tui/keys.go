package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Filter  key.Binding
	Clear   key.Binding
	Quit    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Photo   key.Binding
	Save    key.Binding
	Cancel  key.Binding
	Yes     key.Binding
	No      key.Binding
	Dismiss key.Binding
	Apply   key.Binding
	Abort   key.Binding
	ForceQ  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:     key.NewBinding(key.WithKeys("a", "+"), key.WithHelp("a", "add")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete", "x"), key.WithHelp("d", "delete")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Photo:   key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "take photo")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
		Dismiss: key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "ok")),
		Apply:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Abort:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		ForceQ:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// hint is one footer entry. Dimmed entries are shown but currently inert.
type hint struct {
	binding key.Binding
	dimmed  bool
}

func hints(bs ...key.Binding) []hint {
	out := make([]hint, len(bs))
	for i, b := range bs {
		out[i] = hint{binding: b}
	}
	return out
}

func renderFooter(hs []hint, width int) string {
	bg := colorMantle
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(colorSubtext0).Background(bg)
	dimStyle := lipgloss.NewStyle().Foreground(colorSurface1).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(hs))
	for _, h := range hs {
		help := h.binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		if h.dimmed {
			parts = append(parts, dimStyle.Render(help.Key+" "+help.Desc))
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = descStyle.Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, width), line, bg)
}

func renderStatus(msg string, isErr bool, width int) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = "Ready"
	}
	if isErr {
		return renderBar(statusErrBarStyle, max(1, width), msg, colorSurface0)
	}
	return renderBar(statusBarStyle, max(1, width), msg, colorSurface0)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	inner := max(1, width-style.GetHorizontalFrameSize())
	line = ansi.Truncate(line, inner, "…")
	if w := ansi.StringWidth(line); w < inner {
		line += strings.Repeat(" ", inner-w)
	}
	return style.Background(bg).Width(width).MaxWidth(width).Render(line)
}
