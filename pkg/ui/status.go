package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// StatusStyle is the visual identity of a client status: row glyph, section
// titles and accent colours.
type StatusStyle struct {
	Status   model.Status
	Glyph    string
	Title    string
	Subtitle string
	Accent   lipgloss.AdaptiveColor
	// AccentBg tints the subtitle badge.
	AccentBg lipgloss.AdaptiveColor
}

var (
	ColorEmerald   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	ColorEmeraldBg = lipgloss.AdaptiveColor{Light: "#D1FAE5", Dark: "#064E3B"}
	ColorAmber     = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorAmberBg   = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#78350F"}
	ColorBlue      = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	ColorBlueBg    = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}
)

// statusTable is the single source for bucket membership and status visuals.
// Entries are in section order.
var statusTable = []StatusStyle{
	{
		Status:   model.StatusBuilding,
		Glyph:    "⚒",
		Title:    "Building",
		Subtitle: "Active projects",
		Accent:   ColorEmerald,
		AccentBg: ColorEmeraldBg,
	},
	{
		Status:   model.StatusDeposit,
		Glyph:    "¤",
		Title:    "Deposit",
		Subtitle: "Awaiting construction",
		Accent:   ColorAmber,
		AccentBg: ColorAmberBg,
	},
	{
		Status:   model.StatusBuilt,
		Glyph:    "✓",
		Title:    "Built",
		Subtitle: "Completed projects",
		Accent:   ColorBlue,
		AccentBg: ColorBlueBg,
	},
}

// sectionIndex returns the position of s in statusTable, or -1.
func sectionIndex(s model.Status) int {
	for i := range statusTable {
		if statusTable[i].Status == s {
			return i
		}
	}
	return -1
}

// StyleFor returns the visuals for s. Anything that is not building or
// deposit is drawn like built.
func StyleFor(s model.Status) StatusStyle {
	if i := sectionIndex(s); i >= 0 {
		return statusTable[i]
	}
	return statusTable[len(statusTable)-1]
}

// SectionOrder returns the statuses in the order sections are rendered.
func SectionOrder() []model.Status {
	out := make([]model.Status, len(statusTable))
	for i, st := range statusTable {
		out[i] = st.Status
	}
	return out
}
