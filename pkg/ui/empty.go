package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// EmptyStateHeading is shown above the empty-state message.
const EmptyStateHeading = "No clients"

// EmptyStateMessage returns the empty-state copy for the filter label.
func EmptyStateMessage(f model.Filter) string {
	switch f {
	case model.FilterBuilding:
		return "No active projects"
	case model.FilterDeposit:
		return "No clients with deposit"
	case model.FilterBuilt:
		return "No completed projects"
	default:
		return "Client list is empty"
	}
}

// renderEmptyState draws the heading and message, horizontally centred
// when the width allows.
func renderEmptyState(f model.Filter, width int, t Theme) []string {
	return []string{
		"",
		centerIn(EmptyStateHeading, width, t.PrimaryBold),
		centerIn(EmptyStateMessage(f), width, t.MutedText),
	}
}

func centerIn(s string, width int, style lipgloss.Style) string {
	w := runewidth.StringWidth(s)
	if width <= w {
		return style.Render(s)
	}
	return strings.Repeat(" ", (width-w)/2) + style.Render(s)
}
