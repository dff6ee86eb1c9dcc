package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitebook/pkg/metrics"
	"github.com/vanderheijden86/sitebook/pkg/model"
)

// PlainTheme returns a theme whose renderer emits no escape sequences.
func PlainTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(io.Discard))
}

// RenderPlain renders the client list as uncoloured text for scripting.
// It uses the same layout as the TUI: the filter is applied first and its
// label picks the empty-state copy.
func RenderPlain(clients []model.Client, f model.Filter, collapsed []model.Status) string {
	defer metrics.Timer(metrics.ListRender)()

	l := NewClientList(PlainTheme())
	for _, s := range collapsed {
		l.SetCollapsed(s, true)
	}
	l.SetProps(ClientListProps{Clients: f.Apply(clients), Status: f})

	lines := strings.Split(l.View(), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n") + "\n"
}
