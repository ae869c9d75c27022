package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/prefetch"
)

// fakeDriver implements Driver with a scripted in-memory feed.
type fakeDriver struct {
	items      []feed.Item
	hasMore    bool
	started    bool
	feedOpened bool
	visibleAt  []int
	expanded   []string
	collapsed  int
}

func newFakeDriver(n int) *fakeDriver {
	d := &fakeDriver{hasMore: true}
	for i := 0; i < n; i++ {
		d.items = append(d.items, feed.Item{
			ID:    fmt.Sprintf("r%d", i),
			Kind:  feed.KindVerse,
			Title: fmt.Sprintf("Reflection %d", i),
			Short: "teaser",
		})
	}
	return d
}

func (d *fakeDriver) Items() []feed.Item { return d.items }
func (d *fakeDriver) HasMore() bool      { return d.hasMore }
func (d *fakeDriver) Fetching() bool     { return false }
func (d *fakeDriver) Generating() bool   { return false }

func (d *fakeDriver) Start(ctx context.Context) prefetch.Result {
	d.started = true
	return prefetch.Result{Stage: prefetch.StageEntryLoaded, Appended: len(d.items)}
}

func (d *fakeDriver) FeedOpened(ctx context.Context) prefetch.Result {
	d.feedOpened = true
	return prefetch.Result{Stage: prefetch.StageTabLoaded}
}

func (d *fakeDriver) NotifyVisible(ctx context.Context, cursor int) prefetch.Result {
	d.visibleAt = append(d.visibleAt, cursor)
	return prefetch.Result{Stage: prefetch.StageSteadyState, Skipped: true}
}

func (d *fakeDriver) RequestExpand(ctx context.Context, id string) (feed.Item, error) {
	d.expanded = append(d.expanded, id)
	for _, it := range d.items {
		if it.ID == id {
			it.Full = strings.Repeat("deep reflection text ", 10)
			return it, nil
		}
	}
	return feed.Item{}, fmt.Errorf("unknown item %s", id)
}

func (d *fakeDriver) RequestCollapse() { d.collapsed++ }

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{}
}

// step applies one message and returns the updated App.
func step(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	app, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return app
}

func readyApp(t *testing.T, d Driver) App {
	t.Helper()
	a := NewApp(d, nil)
	a = step(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	return a
}

func TestInitStartsEntryFetch(t *testing.T) {
	d := newFakeDriver(4)
	a := NewApp(d, nil)

	cmd := a.Init()
	if cmd == nil {
		t.Fatal("Init returned nil command")
	}
	runBatch(cmd)
	if !d.started {
		t.Error("Init did not run the session-start trigger")
	}
}

// runBatch executes a command tree depth-first, discarding messages.
func runBatch(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runBatch(c)
		}
	}
}

func TestTabSwitchOpensFeed(t *testing.T) {
	d := newFakeDriver(4)
	a := readyApp(t, d)

	if a.ActiveTab() != tabHome {
		t.Fatal("app should start on the home tab")
	}

	m, cmd := a.Update(key("tab"))
	a = m.(App)
	if a.ActiveTab() != tabFeed {
		t.Fatal("tab key did not switch to the feed")
	}
	runBatch(cmd)
	if !d.feedOpened {
		t.Error("switching to the feed tab did not fire the tab-open trigger")
	}
}

func TestNavigationReportsVisibility(t *testing.T) {
	d := newFakeDriver(4)
	a := readyApp(t, d)
	a = step(t, a, key("2"))
	a = step(t, a, BatchLoaded{Result: prefetch.Result{Appended: 4}})

	m, cmd := a.Update(key("j"))
	a = m.(App)
	if a.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", a.Cursor())
	}
	runBatch(cmd)
	if len(d.visibleAt) != 1 || d.visibleAt[0] != 1 {
		t.Errorf("visibility reports = %v, want [1]", d.visibleAt)
	}

	// k moves back without a visibility report
	a = step(t, a, key("k"))
	if a.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", a.Cursor())
	}
	if len(d.visibleAt) != 1 {
		t.Errorf("cursor-up reported visibility: %v", d.visibleAt)
	}
}

func TestEnterOpensReaderAndExpands(t *testing.T) {
	d := newFakeDriver(4)
	a := readyApp(t, d)
	a = step(t, a, key("2"))
	a = step(t, a, BatchLoaded{Result: prefetch.Result{Appended: 4}})

	m, cmd := a.Update(key("enter"))
	a = m.(App)
	if !a.ReaderOpen() {
		t.Fatal("enter did not open the reader")
	}
	runBatch(cmd)
	if len(d.expanded) != 1 || d.expanded[0] != "r0" {
		t.Errorf("expand requests = %v, want [r0]", d.expanded)
	}

	a = step(t, a, key("esc"))
	if a.ReaderOpen() {
		t.Error("esc did not close the reader")
	}
	if d.collapsed != 1 {
		t.Errorf("collapse called %d times, want 1", d.collapsed)
	}
}

func TestViewShowsItems(t *testing.T) {
	d := newFakeDriver(3)
	a := readyApp(t, d)
	a = step(t, a, key("2"))
	a = step(t, a, BatchLoaded{Result: prefetch.Result{Appended: 3}})

	view := a.View()
	if !strings.Contains(view, "Reflection 0") {
		t.Error("view missing first item title")
	}
}

func TestViewShowsEndMarker(t *testing.T) {
	d := newFakeDriver(2)
	d.hasMore = false
	a := readyApp(t, d)
	a = step(t, a, key("2"))
	a = step(t, a, BatchLoaded{Result: prefetch.Result{}})

	if !strings.Contains(a.View(), "end of today's reflections") {
		t.Error("exhausted feed missing end marker")
	}
}

func TestFetchFailureStaysQuiet(t *testing.T) {
	d := newFakeDriver(3)
	a := readyApp(t, d)
	a = step(t, a, key("2"))
	a = step(t, a, BatchLoaded{Result: prefetch.Result{Appended: 3}})

	// A transient source failure should look exactly like a feed that is
	// still loading: no error text anywhere, content untouched.
	a = step(t, a, BatchLoaded{Result: prefetch.Result{Err: errors.New("network down")}})

	view := a.View()
	if strings.Contains(view, "network down") || strings.Contains(view, "Error") {
		t.Errorf("fetch failure leaked into the view:\n%s", view)
	}
	if !strings.Contains(view, "Reflection 0") {
		t.Error("feed content missing after a failed fetch")
	}

	// The next scroll still retries as usual.
	m, cmd := a.Update(key("j"))
	a = m.(App)
	runBatch(cmd)
	if len(d.visibleAt) == 0 {
		t.Error("scroll after a failed fetch did not report visibility")
	}
}

func TestDebugOverlayToggle(t *testing.T) {
	d := newFakeDriver(2)
	a := readyApp(t, d)

	a = step(t, a, key("?"))
	if !strings.Contains(a.View(), "[DEBUG]") {
		t.Error("debug overlay not shown after toggle")
	}
	a = step(t, a, key("?"))
	if strings.Contains(a.View(), "[DEBUG]") {
		t.Error("debug overlay still shown after second toggle")
	}
}
