package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// MenuAction is an entry of the row context menu.
type MenuAction int

const (
	ActionOpenDetails MenuAction = iota
	ActionCopyPhone
	ActionCopyAddress
	ActionCopyNumber
)

// String returns the menu label.
func (a MenuAction) String() string {
	switch a {
	case ActionOpenDetails:
		return "Open details"
	case ActionCopyPhone:
		return "Copy phone"
	case ActionCopyAddress:
		return "Copy address"
	case ActionCopyNumber:
		return "Copy client number"
	default:
		return "?"
	}
}

// MenuChosenMsg is emitted when a context menu entry is picked.
type MenuChosenMsg struct {
	Action MenuAction
	Client model.Client
}

// ContextMenu is a small popup anchored at a screen cell.
type ContextMenu struct {
	theme   Theme
	open    bool
	client  model.Client
	actions []MenuAction
	cursor  int

	// Box position and size on screen, clamped to the bounds.
	x, y          int
	width, height int
	boundW        int
	boundH        int
}

// NewContextMenu returns a closed menu.
func NewContextMenu(t Theme) ContextMenu {
	return ContextMenu{theme: t}
}

// SetBounds sets the screen area the menu must stay inside.
func (m *ContextMenu) SetBounds(width, height int) {
	m.boundW, m.boundH = width, height
	if m.open {
		m.place(m.x, m.y)
	}
}

// Open shows the menu for c at the event's anchor cell. Copy entries for
// empty fields are left out.
func (m *ContextMenu) Open(ev ContextEvent, c model.Client) {
	m.open = true
	m.client = c
	m.cursor = 0
	m.actions = []MenuAction{ActionOpenDetails}
	if strings.TrimSpace(c.Phone) != "" {
		m.actions = append(m.actions, ActionCopyPhone)
	}
	if strings.TrimSpace(c.ConstructionAddress) != "" {
		m.actions = append(m.actions, ActionCopyAddress)
	}
	if strings.TrimSpace(c.ClientNumber) != "" {
		m.actions = append(m.actions, ActionCopyNumber)
	}

	m.width = 0
	for _, a := range m.actions {
		if w := ansi.StringWidth(a.String()); w > m.width {
			m.width = w
		}
	}
	m.width += 4 // border + padding
	m.height = len(m.actions) + 2

	// Below the anchor row when there is room, above it otherwise.
	y := ev.Y + 1
	if m.boundH > 0 && y+m.height > m.boundH {
		y = ev.Y - m.height
	}
	m.place(ev.X, y)
}

func (m *ContextMenu) place(x, y int) {
	if m.boundW > 0 && x+m.width > m.boundW {
		x = m.boundW - m.width
	}
	if m.boundH > 0 && y+m.height > m.boundH {
		y = m.boundH - m.height
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	m.x, m.y = x, y
}

// Close hides the menu.
func (m *ContextMenu) Close() {
	m.open = false
}

// IsOpen reports whether the menu is visible.
func (m ContextMenu) IsOpen() bool { return m.open }

// Client returns the client the menu was opened for.
func (m ContextMenu) Client() model.Client { return m.client }

// Actions returns the entries currently offered.
func (m ContextMenu) Actions() []MenuAction { return m.actions }

// Position returns the top-left cell of the menu box.
func (m ContextMenu) Position() (int, int) { return m.x, m.y }

func (m ContextMenu) choose(i int) (ContextMenu, tea.Cmd) {
	if i < 0 || i >= len(m.actions) {
		return m, nil
	}
	msg := MenuChosenMsg{Action: m.actions[i], Client: m.client}
	m.open = false
	return m, func() tea.Msg { return msg }
}

// Update handles input while the menu is open. A press outside the box
// closes it.
func (m ContextMenu) Update(msg tea.Msg) (ContextMenu, tea.Cmd) {
	if !m.open {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.actions)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", " ":
			return m.choose(m.cursor)
		case "esc", "q", "m", ".":
			m.open = false
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonRight {
			return m, nil
		}
		inside := msg.X >= m.x && msg.X < m.x+m.width && msg.Y >= m.y && msg.Y < m.y+m.height
		if !inside {
			m.open = false
			return m, nil
		}
		if i := msg.Y - m.y - 1; i >= 0 && i < len(m.actions) {
			return m.choose(i)
		}
	}
	return m, nil
}

// View renders the menu box.
func (m ContextMenu) View() string {
	if !m.open {
		return ""
	}
	t := m.theme
	inner := m.width - 4
	lines := make([]string, len(m.actions))
	for i, a := range m.actions {
		label := padRight(a.String(), inner)
		if i == m.cursor {
			lines[i] = t.Selected.Foreground(t.Primary).Render(label)
		} else {
			lines[i] = t.Base.Render(label)
		}
	}
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(StyleFor(m.client.Status).Accent).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// overlayAt draws box over base with its top-left corner at (x, y).
// Both may contain ANSI styling.
func overlayAt(base, box string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	for i, bl := range strings.Split(box, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		for row >= len(baseLines) {
			baseLines = append(baseLines, "")
		}
		line := baseLines[row]
		if w := ansi.StringWidth(line); w < x {
			line += strings.Repeat(" ", x-w)
		}
		left := ansi.Truncate(line, x, "")
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(bl), "")
		baseLines[row] = left + bl + right
	}
	return strings.Join(baseLines, "\n")
}
