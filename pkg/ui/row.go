package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

const rowIndent = "  "

// rowSegment is one styled run of a client row.
type rowSegment struct {
	text  string
	style lipgloss.Style
}

// RenderClientRow renders one client as a single terminal line of at most
// width cells. Glyph and accent come from the status table; text fields are
// shown verbatim and only truncated to fit. A width <= 0 means unbounded.
func RenderClientRow(c model.Client, width int, selected bool, t Theme) string {
	st := StyleFor(c.Status)
	glyph := t.Renderer.NewStyle().Foreground(st.Accent)
	if selected {
		glyph = glyph.Bold(true)
	}

	segs := []rowSegment{
		{rowIndent, t.Base},
		{st.Glyph + " ", glyph},
		{oneLine(c.DisplayName()), t.NameText},
	}
	for _, field := range []string{c.ClientNumber, c.Phone, c.ConstructionAddress} {
		if field = oneLine(field); field == "" {
			continue
		}
		segs = append(segs, rowSegment{"  ", t.Base}, rowSegment{field, t.SecondaryText})
	}

	var b strings.Builder
	used := 0
	for _, s := range segs {
		w := runewidth.StringWidth(s.text)
		if width > 0 && used+w > width {
			if rest := width - used; rest > 0 {
				b.WriteString(s.style.Render(truncate(s.text, rest)))
				used = width
			}
			break
		}
		b.WriteString(s.style.Render(s.text))
		used += w
	}

	line := b.String()
	if selected {
		if width > used {
			line += strings.Repeat(" ", width-used)
		}
		return t.Selected.Render(line)
	}
	return line
}

// oneLine collapses embedded line breaks so a row never spans two lines.
func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
