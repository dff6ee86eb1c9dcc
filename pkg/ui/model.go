package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/sitebook/pkg/debug"
	"github.com/vanderheijden86/sitebook/pkg/metrics"
	"github.com/vanderheijden86/sitebook/pkg/model"
	"github.com/vanderheijden86/sitebook/pkg/watcher"
)

// SplitViewThreshold is the width at which the detail pane opens beside
// the list instead of replacing it.
const SplitViewThreshold = 100

// focus represents which UI element has keyboard focus
type focus int

const (
	focusList focus = iota
	focusDetail
	focusMenu
	focusHelp
)

// FileChangedMsg is sent when a client data file changes on disk
type FileChangedMsg struct {
	Path string
}

// ClientsLoadedMsg carries the result of a reload.
type ClientsLoadedMsg struct {
	Clients []model.Client
	Err     error
}

// ReadyTimeoutMsg is sent after a short delay to ensure the UI becomes ready
// even if the terminal doesn't send WindowSizeMsg promptly.
type ReadyTimeoutMsg struct{}

// ReadyTimeoutCmd returns a command that sends ReadyTimeoutMsg after 100ms.
// This ensures the TUI doesn't hang on "Initializing..." if the terminal
// is slow to report its size (common in tmux, SSH, some terminal emulators).
func ReadyTimeoutCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return ReadyTimeoutMsg{}
	})
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{Path: w.Path()}
	}
}

// reloadCmd runs fn off the update loop.
func reloadCmd(fn func() ([]model.Client, error)) tea.Cmd {
	return func() tea.Msg {
		defer debug.LogEnterExit("reload")()
		defer metrics.Timer(metrics.Reload)()
		clients, err := fn()
		return ClientsLoadedMsg{Clients: clients, Err: err}
	}
}

// clientClickedMsg and contextRequestMsg carry list callbacks back into the
// host's update loop.
type clientClickedMsg struct{ client model.Client }

type contextRequestMsg struct {
	event  ContextEvent
	client model.Client
}

// clipboardWriteAll is swapped out in tests.
var clipboardWriteAll = clipboard.WriteAll

// Options configures a Model.
type Options struct {
	Filter model.Filter
	// ShowDetail opens the detail pane on click. When false a click only
	// reports the client in the footer.
	ShowDetail bool
	// Collapsed lists sections that start collapsed.
	Collapsed []model.Status
	// SourceLabel is shown in the header, e.g. the data file path.
	SourceLabel string
	// Watchers report changes to the data files, one per office.
	Watchers []*watcher.Watcher
	// Reload re-reads the clients after a FileChangedMsg.
	Reload func() ([]model.Client, error)
}

// Model is the root Bubble Tea model for sb
type Model struct {
	clients []model.Client
	filter  model.Filter

	list   ClientList
	detail DetailPane
	menu   ContextMenu
	help   help.Model
	keys   KeyMap
	theme  Theme

	focused    focus
	showDetail bool
	ready      bool
	width      int
	height     int

	sourceLabel string
	watchers    []*watcher.Watcher
	reload      func() ([]model.Client, error)

	statusMsg     string
	statusIsError bool
}

// NewModel creates a new Model from the given clients
func NewModel(clients []model.Client, opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	filter := opts.Filter
	if filter == "" {
		filter = model.FilterAll
	}

	m := Model{
		clients:     clients,
		filter:      filter,
		list:        NewClientList(theme),
		detail:      NewDetailPane(theme),
		menu:        NewContextMenu(theme),
		help:        help.New(),
		keys:        DefaultKeyMap,
		theme:       theme,
		showDetail:  opts.ShowDetail,
		sourceLabel: opts.SourceLabel,
		watchers:    opts.Watchers,
		reload:      opts.Reload,
		// Default size until the first WindowSizeMsg or ReadyTimeoutMsg.
		width:  80,
		height: 24,
	}
	for _, s := range opts.Collapsed {
		m.list.SetCollapsed(s, true)
	}
	m.syncList()
	m.layout()
	return m
}

// listProps builds the props handed to the list: the filtered clients, the
// filter label and callbacks that route back through the update loop.
func (m Model) listProps() ClientListProps {
	return ClientListProps{
		Clients: m.filter.Apply(m.clients),
		Status:  m.filter,
		OnClientClick: func(c model.Client) tea.Cmd {
			return func() tea.Msg { return clientClickedMsg{client: c} }
		},
		OnContextMenu: func(ev ContextEvent, c model.Client) tea.Cmd {
			return func() tea.Msg { return contextRequestMsg{event: ev, client: c} }
		},
	}
}

func (m *Model) syncList() {
	m.list.SetProps(m.listProps())
}

func (m Model) bodyHeight() int {
	h := m.height - 2 // header + footer
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) isSplitView() bool {
	return m.detail.IsOpen() && m.width >= SplitViewThreshold
}

// listPaneWidth is the outer width of the list panel in split view.
func (m Model) listPaneWidth() int {
	return m.width / 2
}

// layout assigns sizes and origins after a resize or a pane change.
func (m *Model) layout() {
	body := m.bodyHeight()
	m.menu.SetBounds(m.width, m.height-1)

	if m.isSplitView() {
		lw := m.listPaneWidth()
		dw := m.width - lw
		m.list.SetOrigin(1, 2)
		m.list.SetSize(lw-2, body-2)
		m.detail.SetSize(dw-4, body-2)
		return
	}

	m.list.SetOrigin(0, 1)
	m.list.SetSize(m.width, body)
	if m.detail.IsOpen() {
		m.detail.SetSize(m.width-2, body)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ReadyTimeoutCmd()}
	for _, w := range m.watchers {
		cmds = append(cmds, WatchFileCmd(w))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case ReadyTimeoutMsg:
		m.ready = true
		return m, nil

	case FileChangedMsg:
		debug.Log("ui: %s changed, reloading", msg.Path)
		if m.reload != nil {
			cmds = append(cmds, reloadCmd(m.reload))
		}
		for _, w := range m.watchers {
			if w.Path() == msg.Path {
				cmds = append(cmds, WatchFileCmd(w))
			}
		}
		return m, tea.Batch(cmds...)

	case ClientsLoadedMsg:
		debug.LogIf(msg.Err != nil, "ui: reload failed: %v", msg.Err)
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("Reload failed: %v", msg.Err), true)
			return m, nil
		}
		m.SetClients(msg.Clients)
		m.setStatus(fmt.Sprintf("Reloaded %d clients", len(msg.Clients)), false)
		return m, nil

	case clientClickedMsg:
		m.openClient(msg.client)
		return m, nil

	case contextRequestMsg:
		m.menu.Open(msg.event, msg.client)
		m.focused = focusMenu
		return m, nil

	case MenuChosenMsg:
		m.focused = focusList
		m.applyMenuAction(msg)
		return m, nil

	case tea.KeyMsg:
		// Clear status message on any keypress
		m.statusMsg = ""
		m.statusIsError = false
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.detail.IsOpen() {
		m.detail, cmd = m.detail.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focused {
	case focusMenu:
		m.menu, cmd = m.menu.Update(msg)
		if !m.menu.IsOpen() {
			m.focused = focusList
		}
		return m, cmd

	case focusHelp:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.focused = focusList
		if m.detail.IsOpen() && !m.isSplitView() {
			m.focused = focusDetail
		}
		return m, nil

	case focusDetail:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.closeDetail()
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.focused = focusHelp
			return m, nil
		}
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.focused = focusHelp
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.detail.IsOpen() {
			m.closeDetail()
		}
		return m, nil
	case key.Matches(msg, m.keys.FilterAll):
		m.SetFilter(model.FilterAll)
		return m, nil
	case key.Matches(msg, m.keys.FilterBuilding):
		m.SetFilter(model.FilterBuilding)
		return m, nil
	case key.Matches(msg, m.keys.FilterDeposit):
		m.SetFilter(model.FilterDeposit)
		return m, nil
	case key.Matches(msg, m.keys.FilterBuilt):
		m.SetFilter(model.FilterBuilt)
		return m, nil
	case key.Matches(msg, m.keys.FilterCycle):
		m.SetFilter(m.filter.Next())
		return m, nil
	}

	// In split view the detail pane scrolls with page keys.
	if m.isSplitView() {
		switch msg.String() {
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focused {
	case focusMenu:
		m.menu, cmd = m.menu.Update(msg)
		if !m.menu.IsOpen() {
			m.focused = focusList
		}
		return m, cmd
	case focusHelp:
		if msg.Action == tea.MouseActionPress {
			m.focused = focusList
			if m.detail.IsOpen() && !m.isSplitView() {
				m.focused = focusDetail
			}
		}
		return m, nil
	case focusDetail:
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
		if f, ok := m.filterTabAt(msg.X); ok {
			m.SetFilter(f)
		}
		return m, nil
	}

	if m.isSplitView() && msg.X >= m.listPaneWidth() {
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) openClient(c model.Client) {
	if !m.showDetail {
		m.setStatus(fmt.Sprintf("%s %s", StyleFor(c.Status).Glyph, c.DisplayName()), false)
		return
	}
	m.detail.Show(c)
	if m.width < SplitViewThreshold {
		m.focused = focusDetail
	}
	m.layout()
}

func (m *Model) closeDetail() {
	m.detail.Close()
	m.focused = focusList
	m.layout()
}

func (m *Model) applyMenuAction(msg MenuChosenMsg) {
	c := msg.Client
	var text, what string
	switch msg.Action {
	case ActionOpenDetails:
		m.detail.Show(c)
		if m.width < SplitViewThreshold {
			m.focused = focusDetail
		}
		m.layout()
		return
	case ActionCopyPhone:
		text, what = c.Phone, "phone"
	case ActionCopyAddress:
		text, what = c.ConstructionAddress, "address"
	case ActionCopyNumber:
		text, what = c.ClientNumber, "client number"
	default:
		return
	}

	if err := clipboardWriteAll(text); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s of %s", what, c.DisplayName()), false)
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

// SetFilter changes the filter label and refreshes the list.
func (m *Model) SetFilter(f model.Filter) {
	m.filter = f
	m.syncList()
}

// SetClients replaces the client slice. Filter and collapse state survive;
// an open detail pane follows its client or closes if it is gone.
func (m *Model) SetClients(clients []model.Client) {
	m.clients = clients
	m.syncList()

	if m.detail.IsOpen() {
		id := m.detail.Client().ID
		found := false
		for _, c := range clients {
			if c.ID == id {
				m.detail.Refresh(c)
				found = true
				break
			}
		}
		if !found {
			m.closeDetail()
		}
	}
}

// Filter returns the active filter label.
func (m Model) Filter() model.Filter { return m.filter }

// List returns the client list component.
func (m Model) List() ClientList { return m.list }

// Detail returns the detail pane.
func (m Model) Detail() DetailPane { return m.detail }

// Menu returns the context menu.
func (m Model) Menu() ContextMenu { return m.menu }

// Status returns the footer message and whether it is an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// FocusState returns the current focus state as a string for testing.
func (m Model) FocusState() string {
	switch m.focused {
	case focusDetail:
		return "detail"
	case focusMenu:
		return "menu"
	case focusHelp:
		return "help"
	default:
		return "list"
	}
}

// Stop releases the file watchers.
func (m Model) Stop() {
	for _, w := range m.watchers {
		w.Stop()
	}
}

func (m Model) filterCount(f model.Filter) int {
	if f == model.FilterAll {
		return len(m.clients)
	}
	n := 0
	for _, c := range m.clients {
		if f.Matches(c) {
			n++
		}
	}
	return n
}

// headerTabs returns the rendered filter tabs and the cell range of each.
// Tabs that would run past the screen edge are left out.
func (m Model) headerTabs() ([]string, [][2]int) {
	const start = 5 // after " sb  "
	tabs := make([]string, 0, len(model.Filters))
	spans := make([][2]int, 0, len(model.Filters))
	x := start
	for _, f := range model.Filters {
		tab := RenderFilterTab(m.theme, f, f == m.filter, m.filterCount(f))
		w := lipgloss.Width(tab)
		if x+w > m.width {
			break
		}
		tabs = append(tabs, tab)
		spans = append(spans, [2]int{x, x + w})
		x += w + 1
	}
	return tabs, spans
}

func (m Model) filterTabAt(x int) (model.Filter, bool) {
	_, spans := m.headerTabs()
	for i, sp := range spans {
		if x >= sp[0] && x < sp[1] {
			return model.Filters[i], true
		}
	}
	return "", false
}

// Format:  sb  All 12 Building 5 Deposit 3 Built 4          path/to/clients.jsonl
func (m Model) renderHeader() string {
	t := m.theme
	tabs, _ := m.headerTabs()
	left := t.PrimaryBold.Render(" sb  ") + strings.Join(tabs, " ")

	right := ""
	if m.sourceLabel != "" {
		room := m.width - lipgloss.Width(left) - 2
		if room > 8 {
			right = t.MutedText.Render(truncate(m.sourceLabel, room) + " ")
		}
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	// The list's origin assumes a single header row.
	return ansi.Truncate(left+strings.Repeat(" ", gap)+right, m.width, "")
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch {
	case m.focused == focusHelp:
		body = m.renderHelpOverlay()
	case m.detail.IsOpen() && !m.isSplitView():
		body = m.theme.Renderer.NewStyle().Padding(0, 1).Render(m.detail.View())
	case m.isSplitView():
		body = m.renderSplitView()
	default:
		body = m.list.View()
	}
	body = lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(body)

	screen := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
	if m.menu.IsOpen() {
		x, y := m.menu.Position()
		screen = overlayAt(screen, m.menu.View(), x, y)
	}

	// Ensure the final output fits exactly in the terminal height
	finalStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height)
	return finalStyle.Render(screen)
}

func (m Model) renderSplitView() string {
	listStyle, detailStyle := FocusedPanelStyle, PanelStyle
	if m.focused == focusDetail {
		listStyle, detailStyle = PanelStyle, FocusedPanelStyle
	}

	panelHeight := m.bodyHeight() - 2
	lw := m.listPaneWidth()

	listView := listStyle.
		Width(lw - 2).
		Height(panelHeight).
		MaxHeight(panelHeight + 2).
		Render(m.list.View())

	detailView := detailStyle.
		Width(m.width - lw - 2).
		Height(panelHeight).
		MaxHeight(panelHeight + 2).
		Padding(0, 1).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listView, detailView)
}

func (m Model) renderHelpOverlay() string {
	t := m.theme
	h := m.help
	h.ShowAll = true

	title := t.PrimaryBold.Render("Keyboard & mouse")
	mouse := t.MutedText.Render("Click a header to fold it, click a client to open it, right-click for actions.")
	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", h.View(m.keys), "", mouse))
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderFooter() string {
	// If there's a status message, show it prominently
	if m.statusMsg != "" {
		var msgStyle lipgloss.Style
		if m.statusIsError {
			msgStyle = lipgloss.NewStyle().
				Background(ThemeBg(ColorDangerBg)).
				Foreground(ThemeFg(ColorDanger)).
				Bold(true).
				Padding(0, 2)
		} else {
			msgStyle = lipgloss.NewStyle().
				Background(ThemeBg(ColorSuccessBg)).
				Foreground(ThemeFg(ColorSuccess)).
				Bold(true).
				Padding(0, 2)
		}
		prefix := "✓ "
		if m.statusIsError {
			prefix = "✗ "
		}
		msgSection := msgStyle.Render(truncate(prefix+m.statusMsg, m.width-4))
		remaining := m.width - lipgloss.Width(msgSection)
		if remaining < 0 {
			remaining = 0
		}
		filler := lipgloss.NewStyle().Width(remaining).Render("")
		return lipgloss.JoinHorizontal(lipgloss.Bottom, msgSection, filler)
	}

	var bindings []key.Binding
	switch m.focused {
	case focusDetail:
		bindings = []key.Binding{m.keys.Back, m.keys.Help, m.keys.Quit}
	default:
		bindings = m.keys.ShortHelp()
	}
	bar := ansi.Truncate(" "+m.help.ShortHelpView(bindings), m.width, "")

	remaining := m.width - lipgloss.Width(bar)
	if remaining < 0 {
		remaining = 0
	}
	filler := lipgloss.NewStyle().Width(remaining).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, bar, filler)
}
