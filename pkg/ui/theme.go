package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns c for TrueColor terminals and lipgloss.NoColor{}
// otherwise, so low-colour terminals keep their own background.
func ThemeBg(c lipgloss.AdaptiveColor) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return c
}

// ThemeFg returns c for ANSI256+ terminals and a safe ANSI white (color 7)
// for 16-color or lower terminals.
func ThemeFg(c lipgloss.AdaptiveColor) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return c
}

type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style

	// Pre-computed row styles, created once instead of per frame.
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	NameText      lipgloss.Style
}

// DefaultTheme returns the standard adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#5EEAD4"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#94A3B8"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#334155"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#1E293B"},
		Muted:     lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#64748B"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#F1F5F9"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.NameText = r.NewStyle().Foreground(ColorText).Bold(true)

	return t
}

// Accent returns the accent colour for a client status from the shared
// status table.
func (t Theme) Accent(s model.Status) lipgloss.AdaptiveColor {
	return StyleFor(s).Accent
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
