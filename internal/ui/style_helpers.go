package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// barStyle paints header and footer segments on the bar's surface color.
// lipgloss resets the background after every styled segment, so the gaps
// between words and links are rendered as styled spaces too.
type barStyle struct {
	bg    lipgloss.Color
	space string
}

func newBarStyle(t Theme) barStyle {
	bg := lipgloss.Color(t.Surface)
	return barStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render draws text with style on the bar surface, spaces included.
func (b barStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	onBar := style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return onBar.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = onBar.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

func (b barStyle) Space() string {
	return b.space
}

func (b barStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Join places navbar segments side by side with a styled gap.
func (b barStyle) Join(parts []string, gap string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(gap))
}
