package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// DetailPane shows one client as rendered markdown in a scrollable viewport.
type DetailPane struct {
	theme    Theme
	viewport viewport.Model
	open     bool
	client   model.Client

	md      *glamour.TermRenderer
	mdWidth int
}

// NewDetailPane returns a closed pane.
func NewDetailPane(t Theme) DetailPane {
	return DetailPane{theme: t, viewport: viewport.New(0, 0)}
}

// SetSize sets the inner size and re-renders the content for the new width.
func (d *DetailPane) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	d.viewport.Width = width
	d.viewport.Height = height
	if d.open {
		d.render()
	}
}

// Show opens the pane on c.
func (d *DetailPane) Show(c model.Client) {
	d.open = true
	d.client = c
	d.render()
	d.viewport.GotoTop()
}

// Refresh re-renders c if it is the client on display, keeping the scroll
// position. It reports whether the pane showed c.
func (d *DetailPane) Refresh(c model.Client) bool {
	if !d.open || d.client.ID != c.ID {
		return false
	}
	d.client = c
	offset := d.viewport.YOffset
	d.render()
	d.viewport.SetYOffset(offset)
	return true
}

// Close hides the pane.
func (d *DetailPane) Close() { d.open = false }

// IsOpen reports whether the pane is visible.
func (d DetailPane) IsOpen() bool { return d.open }

// Client returns the client on display.
func (d DetailPane) Client() model.Client { return d.client }

// Width returns the inner width.
func (d DetailPane) Width() int { return d.viewport.Width }

func (d *DetailPane) render() {
	if d.md == nil || d.mdWidth != d.viewport.Width {
		style := "light"
		if d.theme.Renderer.HasDarkBackground() {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(d.viewport.Width),
		)
		if err != nil {
			d.md = nil
			d.viewport.SetContent(ClientMarkdown(d.client))
			return
		}
		d.md, d.mdWidth = r, d.viewport.Width
	}

	out, err := d.md.Render(ClientMarkdown(d.client))
	if err != nil {
		d.viewport.SetContent(fmt.Sprintf("Error rendering markdown: %v", err))
		return
	}
	d.viewport.SetContent(out)
}

// Update scrolls the viewport.
func (d DetailPane) Update(msg tea.Msg) (DetailPane, tea.Cmd) {
	if !d.open {
		return d, nil
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// View renders the viewport.
func (d DetailPane) View() string {
	if !d.open {
		return ""
	}
	return d.viewport.View()
}

// ClientMarkdown formats a client as markdown for the detail pane.
func ClientMarkdown(c model.Client) string {
	st := StyleFor(c.Status)
	var sb strings.Builder

	name := c.DisplayName()
	if name == "" {
		name = c.ID
	}
	sb.WriteString(fmt.Sprintf("# %s %s\n\n", st.Glyph, name))

	status := string(c.Status)
	if c.Status.IsCanonical() {
		status = st.Title + " · " + st.Subtitle
	} else if status == "" {
		status = "unknown"
	}

	sb.WriteString("| Field | Value |\n|---|---|\n")
	rows := [][2]string{
		{"ID", c.ID},
		{"Client number", c.ClientNumber},
		{"Status", status},
		{"Phone", c.Phone},
		{"Construction address", c.ConstructionAddress},
	}
	if c.Source != "" {
		rows = append(rows, [2]string{"Office", c.Source})
	}
	if !c.CreatedAt.IsZero() {
		rows = append(rows, [2]string{"Created", c.CreatedAt.Format("2006-01-02") + " (" + FormatTimeRel(c.CreatedAt) + ")"})
	}
	if !c.UpdatedAt.IsZero() {
		rows = append(rows, [2]string{"Updated", c.UpdatedAt.Format("2006-01-02") + " (" + FormatTimeRel(c.UpdatedAt) + ")"})
	}
	for _, r := range rows {
		v := strings.ReplaceAll(oneLine(r[1]), "|", "\\|")
		if v == "" {
			v = "-"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", r[0], v))
	}
	sb.WriteString("\n")

	if strings.TrimSpace(c.Notes) != "" {
		sb.WriteString("### Notes\n")
		sb.WriteString(c.Notes + "\n")
	}
	return sb.String()
}
