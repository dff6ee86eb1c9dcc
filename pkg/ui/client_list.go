package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitebook/pkg/model"
)

// ContextEvent describes a context activation on a row: the screen cell the
// menu should anchor to and whether it came from a pointer.
type ContextEvent struct {
	X, Y        int
	FromPointer bool
}

// ClientListProps is everything the host passes to a ClientList.
type ClientListProps struct {
	Clients []model.Client
	// Status selects the empty-state message only. Buckets always come from
	// each client's own status.
	Status        model.Filter
	OnContextMenu func(ContextEvent, model.Client) tea.Cmd
	OnClientClick func(model.Client) tea.Cmd
}

type lineKind int

const (
	lineBlank lineKind = iota
	lineHeader
	lineRow
	lineNotice
	lineEmpty
)

// listLine is one screen line of the list. Only headers and rows are
// interaction targets.
type listLine struct {
	kind   lineKind
	status model.Status
	count  int
	client model.Client
	text   string
}

func (l listLine) target() bool {
	return l.kind == lineHeader || l.kind == lineRow
}

// ClientList renders clients in collapsible status sections. It follows the
// bubbles convention: Update returns a new value and View has no side
// effects. The screen layout is recomputed from state on every call, so
// mouse hit testing in Update sees exactly what View draws.
type ClientList struct {
	props    ClientListProps
	sections SectionState
	theme    Theme
	keys     KeyMap

	width, height    int
	originX, originY int

	cursor int // index into layout(), always a target when any exists
	offset int // first visible line
}

// NewClientList returns a list with every section expanded.
func NewClientList(t Theme) ClientList {
	return ClientList{theme: t, keys: DefaultKeyMap}
}

// SetProps replaces the props. The cursor stays on the same header or
// client when it is still visible.
func (l *ClientList) SetProps(p ClientListProps) {
	prev, ok := l.current()
	l.props = p
	l.relocate(prev, ok)
}

// Props returns the current props.
func (l ClientList) Props() ClientListProps { return l.props }

// SetSize sets the render width and height. A height <= 0 renders every line.
func (l *ClientList) SetSize(width, height int) {
	l.width, l.height = width, height
	l.ensureCursorVisible(l.layout())
}

// SetOrigin records the screen cell of the list's top-left corner so mouse
// coordinates can be translated.
func (l *ClientList) SetOrigin(x, y int) {
	l.originX, l.originY = x, y
}

// Sections returns the collapse state.
func (l ClientList) Sections() SectionState { return l.sections }

// SetCollapsed sets one section's flag, e.g. from a command-line option.
func (l *ClientList) SetCollapsed(s model.Status, collapsed bool) {
	prev, ok := l.current()
	l.sections.SetCollapsed(s, collapsed)
	l.relocate(prev, ok)
}

// Buckets returns the partition of the current clients.
func (l ClientList) Buckets() Buckets { return Bucketize(l.props.Clients) }

// SelectedClient returns the client under the cursor, if the cursor is on
// a row.
func (l ClientList) SelectedClient() (model.Client, bool) {
	ln, ok := l.current()
	if !ok || ln.kind != lineRow {
		return model.Client{}, false
	}
	return ln.client, true
}

// Offset returns the first visible line.
func (l ClientList) Offset() int { return l.offset }

// layout flattens the sections into screen lines.
func (l ClientList) layout() []listLine {
	if len(l.props.Clients) == 0 {
		return []listLine{{kind: lineEmpty}}
	}

	b := Bucketize(l.props.Clients)
	var lines []listLine
	for _, st := range statusTable {
		group := b.Get(st.Status)
		if len(group) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, listLine{kind: lineBlank})
		}
		lines = append(lines, listLine{kind: lineHeader, status: st.Status, count: len(group)})
		if l.sections.Collapsed(st.Status) {
			continue
		}
		for _, c := range group {
			lines = append(lines, listLine{kind: lineRow, status: st.Status, client: c})
		}
	}

	if b.Unrecognized > 0 {
		if len(lines) > 0 {
			lines = append(lines, listLine{kind: lineBlank})
		}
		lines = append(lines, listLine{kind: lineNotice, text: unrecognizedNotice(b.Unrecognized)})
	}
	return lines
}

func unrecognizedNotice(n int) string {
	return fmt.Sprintf("%d client(s) with unrecognized status hidden", n)
}

func (l ClientList) current() (listLine, bool) {
	lines := l.layout()
	if l.cursor < 0 || l.cursor >= len(lines) || !lines[l.cursor].target() {
		return listLine{}, false
	}
	return lines[l.cursor], true
}

// relocate moves the cursor back onto prev after the layout changed, or onto
// the nearest target otherwise.
func (l *ClientList) relocate(prev listLine, had bool) {
	lines := l.layout()
	if had {
		for i, ln := range lines {
			if ln.kind != prev.kind || ln.status != prev.status {
				continue
			}
			if ln.kind == lineHeader || ln.client.ID == prev.client.ID {
				l.cursor = i
				l.ensureCursorVisible(lines)
				return
			}
		}
		// A hidden row falls back to its section header.
		if prev.kind == lineRow {
			for i, ln := range lines {
				if ln.kind == lineHeader && ln.status == prev.status {
					l.cursor = i
					l.ensureCursorVisible(lines)
					return
				}
			}
		}
	}
	l.cursor = nearestTarget(lines, l.cursor)
	l.ensureCursorVisible(lines)
}

// nearestTarget returns the target at or before i, else the first after it,
// else 0.
func nearestTarget(lines []listLine, i int) int {
	if i >= len(lines) {
		i = len(lines) - 1
	}
	for j := i; j >= 0; j-- {
		if lines[j].target() {
			return j
		}
	}
	for j := i + 1; j < len(lines); j++ {
		if lines[j].target() {
			return j
		}
	}
	return 0
}

func (l *ClientList) ensureCursorVisible(lines []listLine) {
	if l.height <= 0 {
		l.offset = 0
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	l.clampOffset(lines)
	// Keep the blank line above a header in view when scrolling up to it.
	if l.height > 1 && l.offset > 0 && l.offset == l.cursor && lines[l.cursor].kind == lineHeader && lines[l.offset-1].kind == lineBlank {
		l.offset--
	}
}

func (l *ClientList) clampOffset(lines []listLine) {
	maxOffset := len(lines) - l.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *ClientList) move(lines []listLine, delta int) {
	for i := l.cursor + delta; i >= 0 && i < len(lines); i += delta {
		if lines[i].target() {
			l.cursor = i
			break
		}
	}
	l.ensureCursorVisible(lines)
}

func (l *ClientList) jumpHeader(lines []listLine, delta int) {
	for i := l.cursor + delta; i >= 0 && i < len(lines); i += delta {
		if lines[i].kind == lineHeader {
			l.cursor = i
			break
		}
	}
	l.ensureCursorVisible(lines)
}

// Update handles keyboard and mouse input. Each interaction either flips
// one section flag or invokes one callback.
func (l ClientList) Update(msg tea.Msg) (ClientList, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return l.handleKey(msg)
	case tea.MouseMsg:
		return l.handleMouse(msg)
	}
	return l, nil
}

func (l ClientList) handleKey(msg tea.KeyMsg) (ClientList, tea.Cmd) {
	lines := l.layout()
	switch {
	case key.Matches(msg, l.keys.Up):
		l.move(lines, -1)
	case key.Matches(msg, l.keys.Down):
		l.move(lines, 1)
	case key.Matches(msg, l.keys.Home):
		l.cursor = nearestTarget(lines, 0)
		l.offset = 0
		l.ensureCursorVisible(lines)
	case key.Matches(msg, l.keys.End):
		l.cursor = nearestTarget(lines, len(lines)-1)
		l.ensureCursorVisible(lines)
	case key.Matches(msg, l.keys.NextSection):
		l.jumpHeader(lines, 1)
	case key.Matches(msg, l.keys.PrevSection):
		l.jumpHeader(lines, -1)
	case key.Matches(msg, l.keys.Activate):
		return l.activate(lines, l.cursor)
	case key.Matches(msg, l.keys.Context):
		ev := ContextEvent{X: l.originX + len(rowIndent), Y: l.originY + l.cursor - l.offset}
		return l.contextMenu(lines, l.cursor, ev)
	}
	return l, nil
}

func (l ClientList) handleMouse(msg tea.MouseMsg) (ClientList, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return l, nil
	}
	lines := l.layout()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		l.scroll(lines, -1)
		return l, nil
	case tea.MouseButtonWheelDown:
		l.scroll(lines, 1)
		return l, nil
	}

	i, ok := l.hit(lines, msg.X, msg.Y)
	if !ok {
		return l, nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		return l.activate(lines, i)
	case tea.MouseButtonRight:
		return l.contextMenu(lines, i, ContextEvent{X: msg.X, Y: msg.Y, FromPointer: true})
	}
	return l, nil
}

// hit maps a screen cell to a target line index.
func (l ClientList) hit(lines []listLine, x, y int) (int, bool) {
	if x < l.originX || (l.width > 0 && x >= l.originX+l.width) {
		return 0, false
	}
	row := y - l.originY
	if row < 0 || (l.height > 0 && row >= l.height) {
		return 0, false
	}
	i := l.offset + row
	if i >= len(lines) || !lines[i].target() {
		return 0, false
	}
	return i, true
}

func (l *ClientList) scroll(lines []listLine, delta int) {
	if l.height <= 0 {
		return
	}
	l.offset += delta
	l.clampOffset(lines)

	end := l.offset + l.height
	if end > len(lines) {
		end = len(lines)
	}
	switch {
	case l.cursor < l.offset:
		for i := l.offset; i < end; i++ {
			if lines[i].target() {
				l.cursor = i
				break
			}
		}
	case l.cursor >= end:
		for i := end - 1; i >= l.offset; i-- {
			if lines[i].target() {
				l.cursor = i
				break
			}
		}
	}
}

func (l ClientList) activate(lines []listLine, i int) (ClientList, tea.Cmd) {
	if i < 0 || i >= len(lines) {
		return l, nil
	}
	ln := lines[i]
	switch ln.kind {
	case lineHeader:
		l.cursor = i
		l.sections.Toggle(ln.status)
		l.ensureCursorVisible(l.layout())
		return l, nil
	case lineRow:
		l.cursor = i
		l.ensureCursorVisible(lines)
		if l.props.OnClientClick == nil {
			return l, nil
		}
		return l, l.props.OnClientClick(ln.client)
	}
	return l, nil
}

func (l ClientList) contextMenu(lines []listLine, i int, ev ContextEvent) (ClientList, tea.Cmd) {
	if i < 0 || i >= len(lines) || lines[i].kind != lineRow {
		return l, nil
	}
	l.cursor = i
	l.ensureCursorVisible(lines)
	if l.props.OnContextMenu == nil {
		return l, nil
	}
	return l, l.props.OnContextMenu(ev, lines[i].client)
}

// View renders the visible window of the list.
func (l ClientList) View() string {
	lines := l.layout()
	if len(lines) == 1 && lines[0].kind == lineEmpty {
		return strings.Join(renderEmptyState(l.props.Status, l.width, l.theme), "\n")
	}

	start, end := 0, len(lines)
	if l.height > 0 {
		start = l.offset
		if end > start+l.height {
			end = start + l.height
		}
	}

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, l.renderLine(lines[i], i == l.cursor))
	}
	return strings.Join(out, "\n")
}

func (l ClientList) renderLine(ln listLine, selected bool) string {
	switch ln.kind {
	case lineHeader:
		return l.renderHeader(ln, selected)
	case lineRow:
		return RenderClientRow(ln.client, l.width, selected, l.theme)
	case lineNotice:
		return l.theme.MutedText.Render(rowIndent + truncateWidth(ln.text, l.width-len(rowIndent)))
	}
	return ""
}

func truncateWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	return truncate(s, width)
}

// renderHeader draws "▾ ⚒ Building (2)" with the subtitle badge
// right-aligned. The badge is dropped when it does not fit.
func (l ClientList) renderHeader(ln listLine, selected bool) string {
	st := StyleFor(ln.status)
	chevron := "▾"
	if l.sections.Collapsed(ln.status) {
		chevron = "▸"
	}

	accent := l.theme.Renderer.NewStyle().Foreground(st.Accent).Bold(true)
	title := HeaderTitle(ln.status, ln.count)
	left := l.theme.MutedText.Render(chevron+" ") + accent.Render(st.Glyph+" "+title)
	leftWidth := lipgloss.Width(left)

	if l.width > 0 && leftWidth > l.width {
		left = accent.Render(truncate(chevron+" "+st.Glyph+" "+title, l.width))
		leftWidth = lipgloss.Width(left)
	}

	line := left
	badge := RenderStatusBadge(l.theme, ln.status)
	if bw := lipgloss.Width(badge); l.width <= 0 {
		line += "  " + badge
	} else if gap := l.width - leftWidth - bw; gap >= 2 {
		line += strings.Repeat(" ", gap) + badge
	} else if l.width > leftWidth {
		line += strings.Repeat(" ", l.width-leftWidth)
	}

	if selected {
		return l.theme.Selected.Render(line)
	}
	return line
}

// HeaderTitle returns the header text for a section, e.g. "Building (2)".
func HeaderTitle(s model.Status, count int) string {
	return fmt.Sprintf("%s (%d)", StyleFor(s).Title, count)
}
