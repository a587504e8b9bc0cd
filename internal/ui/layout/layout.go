package layout

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/countup/internal/ui/theme"
)

// DefaultWidth is used before the terminal reports its size.
const DefaultWidth = 72

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			theme.Subtitle.Render(h.Description)
		parts = append(parts, part)
	}
	return theme.Footer.Render(strings.Join(parts, "   "))
}

// RenderCard frames content in a bordered card no wider than width.
func RenderCard(title, content string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	body := theme.Title.Render(title) + "\n\n" + content
	return theme.Card.Width(width).Render(body)
}
