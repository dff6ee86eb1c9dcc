package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// Adaptive palette. Light values keep WCAG AA contrast on white.
var (
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#F1F5F9"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#5EEAD4"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

	ColorSuccessBg = lipgloss.AdaptiveColor{Light: "#D1FAE5", Dark: "#064E3B"}
	ColorDangerBg  = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#7F1D1D"}
)

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)
)

// RenderStatusBadge renders the tinted subtitle badge of a status section.
func RenderStatusBadge(t Theme, s model.Status) string {
	st := StyleFor(s)
	return t.Renderer.NewStyle().
		Foreground(st.Accent).
		Background(ThemeBg(st.AccentBg)).
		Padding(0, 1).
		Render(st.Subtitle)
}

// RenderFilterTab renders one entry of the filter bar.
func RenderFilterTab(t Theme, f model.Filter, active bool, count int) string {
	label := f.Label()
	if count >= 0 {
		label += " " + itoa(count)
	}
	style := t.Renderer.NewStyle().Padding(0, 1)
	if active {
		return style.Background(t.Primary).
			Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}).
			Bold(true).
			Render(label)
	}
	return style.Foreground(t.Secondary).Render(label)
}
