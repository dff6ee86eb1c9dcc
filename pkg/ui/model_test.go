package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/sitebook/pkg/debug"
	"github.com/vanderheijden86/sitebook/pkg/model"
)

func newTestModel(t *testing.T, width int, opts Options) Model {
	t.Helper()
	m := NewModel(sampleClients(), opts)
	return update(t, m, tea.WindowSizeMsg{Width: width, Height: 24})
}

// update feeds msg to m and follows commands that route back into the model
// (list callbacks and menu choices).
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	return follow(t, m, cmd)
}

func follow(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case clientClickedMsg, contextRequestMsg, MenuChosenMsg, ClientsLoadedMsg:
		return update(t, m, msg)
	case tea.BatchMsg:
		for _, c := range msg {
			m = follow(t, m, c)
		}
	}
	return m
}

// rowY returns the screen row of a client in the list.
func rowY(t *testing.T, m Model, id string) int {
	t.Helper()
	l := m.List()
	for i, ln := range l.layout() {
		if ln.kind == lineRow && ln.client.ID == id {
			return l.originY + i - l.Offset()
		}
	}
	t.Fatalf("client %s not in list", id)
	return -1
}

func headerY(t *testing.T, m Model, s model.Status) int {
	t.Helper()
	l := m.List()
	for i, ln := range l.layout() {
		if ln.kind == lineHeader && ln.status == s {
			return l.originY + i - l.Offset()
		}
	}
	t.Fatalf("no header for %s", s)
	return -1
}

func stubClipboard(t *testing.T, err error) *[]string {
	t.Helper()
	var written []string
	prev := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		written = append(written, s)
		return err
	}
	t.Cleanup(func() { clipboardWriteAll = prev })
	return &written
}

func TestModel_InitializingUntilSized(t *testing.T) {
	m := NewModel(sampleClients(), Options{})
	if m.View() != "Initializing..." {
		t.Errorf("View before size = %q", m.View())
	}
	next, _ := m.Update(ReadyTimeoutMsg{})
	if strings.Contains(next.View(), "Initializing") {
		t.Error("ReadyTimeoutMsg should make the model ready")
	}
}

func TestModel_ViewShowsTabsAndSections(t *testing.T) {
	m := newTestModel(t, 80, Options{SourceLabel: "clients.jsonl"})
	out := ansi.Strip(m.View())
	for _, s := range []string{"sb", "All 3", "Building 2", "Deposit 0", "Built 1", "Building (2)", "Built (1)", "clients.jsonl"} {
		if !strings.Contains(out, s) {
			t.Errorf("view missing %q:\n%s", s, out)
		}
	}
	if lines := strings.Split(m.View(), "\n"); len(lines) != 24 {
		t.Errorf("view is %d lines, want 24", len(lines))
	}
}

func TestModel_FilterKeys(t *testing.T) {
	m := newTestModel(t, 80, Options{})

	m = update(t, m, runes("2"))
	if m.Filter() != model.FilterBuilding {
		t.Fatalf("filter = %s, want building", m.Filter())
	}
	if got := m.List().Props().Clients; len(got) != 2 {
		t.Errorf("building filter passed %d clients, want 2", len(got))
	}

	m = update(t, m, runes("3"))
	if out := ansi.Strip(m.List().View()); !strings.Contains(out, "No clients with deposit") {
		t.Errorf("deposit filter should show its empty state:\n%s", out)
	}

	m = update(t, m, runes("f"))
	if m.Filter() != model.FilterBuilt {
		t.Errorf("f should cycle to built, got %s", m.Filter())
	}
	m = update(t, m, runes("1"))
	if m.Filter() != model.FilterAll {
		t.Errorf("1 should select all, got %s", m.Filter())
	}
}

func TestModel_ClickFilterTab(t *testing.T) {
	m := newTestModel(t, 80, Options{})
	_, spans := m.headerTabs()

	m = update(t, m, press(spans[3][0]+1, 0, tea.MouseButtonLeft))
	if m.Filter() != model.FilterBuilt {
		t.Errorf("filter = %s, want built", m.Filter())
	}
}

// drawnY returns the screen row on which text is drawn.
func drawnY(t *testing.T, m Model, text string) int {
	t.Helper()
	for y, ln := range strings.Split(ansi.Strip(m.View()), "\n") {
		if strings.Contains(ln, text) {
			return y
		}
	}
	t.Fatalf("%q not on screen", text)
	return -1
}

func TestModel_ClickDrawnRowAtAnyWidth(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"Smith", "1"},
		{"Brown", "3"},
		{"Jones", "2"},
	}
	for _, width := range []int{20, 30, 40, 60, 80, 120} {
		for _, tt := range tests {
			m := newTestModel(t, width, Options{ShowDetail: true, SourceLabel: "north/clients.jsonl"})

			lines := strings.Split(m.View(), "\n")
			if len(lines) != 24 {
				t.Fatalf("width %d: view is %d lines, want 24", width, len(lines))
			}
			for y, ln := range lines {
				if w := ansi.StringWidth(ln); w > width {
					t.Errorf("width %d: line %d is %d cells", width, y, w)
				}
			}

			y := drawnY(t, m, tt.name)
			if y != rowY(t, m, tt.id) {
				t.Errorf("width %d: %s drawn at y=%d, hit-tested at y=%d", width, tt.name, y, rowY(t, m, tt.id))
			}
			m = update(t, m, press(4, y, tea.MouseButtonLeft))
			if !m.Detail().IsOpen() || m.Detail().Client().ID != tt.id {
				t.Errorf("width %d: click on %s opened %q", width, tt.name, m.Detail().Client().ID)
			}
		}
	}
}

func TestModel_NarrowHeaderDropsTabs(t *testing.T) {
	m := newTestModel(t, 20, Options{})
	tabs, spans := m.headerTabs()
	if len(tabs) != 1 || len(spans) != 1 {
		t.Fatalf("width 20 keeps %d tabs, want 1", len(tabs))
	}
	if spans[0][1] > 20 {
		t.Errorf("tab span %v runs past the screen", spans[0])
	}

	m = update(t, m, press(19, 0, tea.MouseButtonLeft))
	if m.Filter() != model.FilterAll {
		t.Errorf("press past the last tab changed the filter to %s", m.Filter())
	}
	m = update(t, m, runes("4"))
	if m.Filter() != model.FilterBuilt {
		t.Errorf("keys still select hidden filters, got %s", m.Filter())
	}
}

func TestModel_ClickOpensDetail(t *testing.T) {
	m := newTestModel(t, 80, Options{ShowDetail: true})

	m = update(t, m, press(4, rowY(t, m, "3"), tea.MouseButtonLeft))
	if !m.Detail().IsOpen() || m.Detail().Client().ID != "3" {
		t.Fatal("click should open the detail pane on client 3")
	}
	if m.FocusState() != "detail" {
		t.Errorf("focus = %s, want detail on a narrow screen", m.FocusState())
	}
	if !strings.Contains(ansi.Strip(m.View()), "Brown") {
		t.Error("full-screen detail should show the client")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Detail().IsOpen() || m.FocusState() != "list" {
		t.Errorf("esc should close the detail (open=%v focus=%s)", m.Detail().IsOpen(), m.FocusState())
	}
}

func TestModel_SplitView(t *testing.T) {
	m := newTestModel(t, 120, Options{ShowDetail: true})

	m = update(t, m, press(4, rowY(t, m, "1"), tea.MouseButtonLeft))
	if !m.isSplitView() {
		t.Fatal("wide screen should use the split view")
	}
	if m.FocusState() != "list" {
		t.Errorf("focus = %s, want list in split view", m.FocusState())
	}

	// The list moved inside its panel border.
	if l := m.List(); l.originX != 1 || l.originY != 2 {
		t.Errorf("list origin = (%d,%d), want (1,2)", l.originX, l.originY)
	}
	m = update(t, m, press(4, rowY(t, m, "2"), tea.MouseButtonLeft))
	if m.Detail().Client().ID != "2" {
		t.Errorf("detail shows %s, want 2", m.Detail().Client().ID)
	}

	out := ansi.Strip(m.View())
	if !strings.Contains(out, "Smith Anna") || !strings.Contains(out, "Jones") {
		t.Errorf("split view should show list and detail:\n%s", out)
	}
}

func TestModel_ClickWithoutDetail(t *testing.T) {
	m := newTestModel(t, 80, Options{})

	m = update(t, m, press(4, rowY(t, m, "2"), tea.MouseButtonLeft))
	if m.Detail().IsOpen() {
		t.Error("detail should stay closed when ShowDetail is off")
	}
	if msg, isErr := m.Status(); isErr || !strings.Contains(msg, "Jones Bo") {
		t.Errorf("status = %q (err=%v), want the client name", msg, isErr)
	}
}

func TestModel_HeaderClickCollapses(t *testing.T) {
	m := newTestModel(t, 80, Options{})

	m = update(t, m, press(2, headerY(t, m, model.StatusBuilding), tea.MouseButtonLeft))
	if !m.List().Sections().Collapsed(model.StatusBuilding) {
		t.Fatal("header click should collapse building")
	}
	if m.Detail().IsOpen() || m.Menu().IsOpen() {
		t.Error("header click must not open anything")
	}
}

func TestModel_ContextMenuCopy(t *testing.T) {
	written := stubClipboard(t, nil)
	m := newTestModel(t, 80, Options{})

	m = update(t, m, press(6, rowY(t, m, "1"), tea.MouseButtonRight))
	if !m.Menu().IsOpen() || m.FocusState() != "menu" {
		t.Fatal("right click should open the context menu")
	}
	if m.Menu().Client().ID != "1" {
		t.Errorf("menu client = %s, want 1", m.Menu().Client().ID)
	}
	if !strings.Contains(ansi.Strip(m.View()), "Copy phone") {
		t.Error("menu should be drawn over the list")
	}

	m = update(t, m, runes("j"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Menu().IsOpen() || m.FocusState() != "list" {
		t.Error("menu should close after a choice")
	}
	if len(*written) != 1 || (*written)[0] != "+31 6 1234" {
		t.Errorf("clipboard = %v, want the phone number", *written)
	}
	if msg, isErr := m.Status(); isErr || msg != "Copied phone of Smith Anna" {
		t.Errorf("status = %q (err=%v)", msg, isErr)
	}
}

func TestModel_ContextMenuKeyboardAndError(t *testing.T) {
	stubClipboard(t, errors.New("no clipboard"))
	m := newTestModel(t, 80, Options{})

	m = update(t, m, runes("j")) // first row
	m = update(t, m, runes("m"))
	if !m.Menu().IsOpen() {
		t.Fatal("m should open the context menu")
	}
	if _, y := m.Menu().Position(); y != rowY(t, m, "1")+1 {
		t.Errorf("menu y = %d, want just below the row", y)
	}

	// Copy client number is the last entry.
	for range m.Menu().Actions() {
		m = update(t, m, runes("j"))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if msg, isErr := m.Status(); !isErr || !strings.Contains(msg, "no clipboard") {
		t.Errorf("status = %q (err=%v), want clipboard error", msg, isErr)
	}
}

func TestModel_ContextMenuOpenDetails(t *testing.T) {
	m := newTestModel(t, 80, Options{})

	m = update(t, m, press(6, rowY(t, m, "2"), tea.MouseButtonRight))
	x, y := m.Menu().Position()
	m = update(t, m, press(x+2, y+1, tea.MouseButtonLeft))
	if !m.Detail().IsOpen() || m.Detail().Client().ID != "2" {
		t.Error("Open details should show the detail pane even with ShowDetail off")
	}
}

func TestModel_ReloadKeepsState(t *testing.T) {
	m := newTestModel(t, 80, Options{ShowDetail: true, Collapsed: []model.Status{model.StatusBuilt}})
	m = update(t, m, runes("f"))
	m = update(t, m, runes("1"))
	m = update(t, m, press(4, rowY(t, m, "1"), tea.MouseButtonLeft))

	next := sampleClients()
	next[0].Phone = "+31 6 9999"
	next = append(next, model.Client{ID: "4", LastName: "Green", Status: model.StatusDeposit})
	m = update(t, m, ClientsLoadedMsg{Clients: next})

	if !m.List().Sections().Collapsed(model.StatusBuilt) {
		t.Error("collapse state should survive a reload")
	}
	if !m.Detail().IsOpen() || m.Detail().Client().Phone != "+31 6 9999" {
		t.Error("detail should follow the reloaded client")
	}
	if msg, _ := m.Status(); msg != "Reloaded 4 clients" {
		t.Errorf("status = %q", msg)
	}
	if !strings.Contains(ansi.Strip(m.List().View()), "Deposit (1)") {
		t.Error("new deposit section should appear")
	}

	m = update(t, m, ClientsLoadedMsg{Clients: next[1:]})
	if m.Detail().IsOpen() {
		t.Error("detail should close when its client disappears")
	}
}

func TestModel_ReloadError(t *testing.T) {
	m := newTestModel(t, 80, Options{})
	m = update(t, m, ClientsLoadedMsg{Err: errors.New("bad json")})

	if msg, isErr := m.Status(); !isErr || !strings.Contains(msg, "bad json") {
		t.Errorf("status = %q (err=%v)", msg, isErr)
	}
	if got := len(m.List().Props().Clients); got != 3 {
		t.Errorf("failed reload replaced the clients: %d", got)
	}
	if !strings.Contains(ansi.Strip(m.View()), "✗ Reload failed") {
		t.Error("error should show in the footer")
	}
}

func TestReloadCmd_DebugLog(t *testing.T) {
	prev := debug.Enabled()
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	debug.SetEnabled(true)
	t.Cleanup(func() { debug.SetEnabled(prev) })

	msg := reloadCmd(func() ([]model.Client, error) { return nil, errors.New("bad json") })()
	out := buf.String()
	if !strings.Contains(out, "-> reload") || !strings.Contains(out, "<- reload") {
		t.Errorf("reload should log entry and exit, got %q", out)
	}

	m := newTestModel(t, 80, Options{})
	update(t, m, msg)
	if !strings.Contains(buf.String(), "ui: reload failed: bad json") {
		t.Errorf("failed reload not logged: %q", buf.String())
	}
}

func TestModel_FileChangedRunsReload(t *testing.T) {
	calls := 0
	m := newTestModel(t, 80, Options{Reload: func() ([]model.Client, error) {
		calls++
		return sampleClients()[:1], nil
	}})

	m = update(t, m, FileChangedMsg{Path: "clients.jsonl"})
	if calls != 1 {
		t.Fatalf("reload called %d times, want 1", calls)
	}
	if got := len(m.List().Props().Clients); got != 1 {
		t.Errorf("list has %d clients after reload, want 1", got)
	}

	// Without a reload func the message is ignored.
	m = newTestModel(t, 80, Options{})
	m = update(t, m, FileChangedMsg{Path: "x"})
	if got := len(m.List().Props().Clients); got != 3 {
		t.Errorf("list changed without a reload func: %d", got)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, 80, Options{})

	m = update(t, m, runes("?"))
	if m.FocusState() != "help" {
		t.Fatalf("focus = %s, want help", m.FocusState())
	}
	if !strings.Contains(ansi.Strip(m.View()), "Keyboard & mouse") {
		t.Error("help overlay not drawn")
	}
	m = update(t, m, runes("x"))
	if m.FocusState() != "list" {
		t.Errorf("any key should close help, focus = %s", m.FocusState())
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, 80, Options{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_KeyClearsStatus(t *testing.T) {
	m := newTestModel(t, 80, Options{})
	m = update(t, m, ClientsLoadedMsg{Err: errors.New("boom")})
	m = update(t, m, runes("j"))
	if msg, _ := m.Status(); msg != "" {
		t.Errorf("status should clear on a key, got %q", msg)
	}
}
