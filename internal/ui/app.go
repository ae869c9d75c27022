package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/otel"
	"github.com/tadabbur/tadabbur/internal/prefetch"
)

// Driver is the engine surface the UI needs. Commands run its methods
// off the Update loop; everything the view shows arrives as a message.
type Driver interface {
	Items() []feed.Item
	HasMore() bool
	Fetching() bool
	Generating() bool
	Start(ctx context.Context) prefetch.Result
	FeedOpened(ctx context.Context) prefetch.Result
	NotifyVisible(ctx context.Context, cursor int) prefetch.Result
	RequestExpand(ctx context.Context, id string) (feed.Item, error)
	RequestCollapse()
}

// Tabs of the root model.
const (
	tabHome = iota
	tabFeed
)

// App is the root Bubble Tea model.
type App struct {
	driver Driver
	ring   *otel.RingBuffer // nil disables the debug overlay

	activeTab  int
	feed       FeedView
	reader     Reader
	readerOpen bool
	debugOn    bool

	width  int
	height int
	ready  bool
}

// NewApp creates the root model.
func NewApp(driver Driver, ring *otel.RingBuffer) App {
	return App{
		driver: driver,
		ring:   ring,
		feed:   NewFeedView(),
		reader: NewReader(),
	}
}

// Init kicks off the entry prefetch and the spinner.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.startCmd(),
		a.feed.Spinner().Tick,
	)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.feed.SetSize(msg.Width, msg.Height-3) // tab bar + status bar
		a.reader.SetSize(msg.Width, msg.Height)
		return a, nil

	case BatchLoaded:
		// A failed or empty fetch looks the same as a quiet feed; the
		// next scroll retries and the event log has the details.
		a.syncFeed()
		return a, nil

	case HydrateDone:
		a.reader.Resolve(msg.Item, msg.Err)
		a.syncFeed()
		return a, nil

	case ReadMarked:
		a.reader.MarkRead(msg.ID)
		a.syncFeed()
		return a, nil

	case spinner.TickMsg:
		s, cmd := a.feed.Spinner().Update(msg)
		a.feed.UpdateSpinner(s)
		a.reader.UpdateSpinner(s)
		return a, cmd

	case frameTick:
		a.feed.UpdateScroll()
		if a.feed.IsScrolling() {
			return a, frameCmd()
		}
		return a, nil
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Reader modal takes the keyboard while open
	if a.readerOpen {
		switch msg.String() {
		case "esc", "enter", "q":
			a.readerOpen = false
			a.driver.RequestCollapse()
			return a, nil
		case "j", "down":
			a.reader.ScrollDown()
			return a, nil
		case "k", "up":
			a.reader.ScrollUp()
			return a, nil
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "?":
		a.debugOn = !a.debugOn
		return a, nil

	case "tab":
		if a.activeTab == tabHome {
			return a.focusFeed()
		}
		a.activeTab = tabHome
		return a, nil

	case "1":
		a.activeTab = tabHome
		return a, nil

	case "2":
		return a.focusFeed()
	}

	if a.activeTab != tabFeed {
		return a, nil
	}

	switch msg.String() {
	case "j", "down":
		a.feed.CursorDown()
		return a, tea.Batch(a.visibleCmd(a.feed.Cursor()), frameCmd())

	case "k", "up":
		a.feed.CursorUp()
		return a, frameCmd()

	case "g", "home":
		a.feed.CursorTop()
		return a, frameCmd()

	case "G", "end":
		a.feed.CursorBottom()
		return a, tea.Batch(a.visibleCmd(a.feed.Cursor()), frameCmd())

	case "enter":
		id := a.feed.SelectedID()
		if id == "" {
			return a, nil
		}
		items := a.driver.Items()
		for _, it := range items {
			if it.ID == id {
				a.readerOpen = true
				a.reader.Open(it, !it.Hydrated())
				return a, tea.Batch(a.expandCmd(id), a.reader.Spinner().Tick)
			}
		}
		return a, nil
	}

	return a, nil
}

// focusFeed switches to the feed tab and fires the tab-open trigger.
func (a App) focusFeed() (tea.Model, tea.Cmd) {
	a.activeTab = tabFeed
	return a, a.feedOpenedCmd()
}

// syncFeed refreshes the feed view from the driver's snapshot.
func (a *App) syncFeed() {
	a.feed.SetItems(a.driver.Items())
	a.feed.SetStatus(a.driver.Fetching(), a.driver.HasMore())
}

// Commands. Each runs one synchronous engine call in a tea goroutine.

func (a App) startCmd() tea.Cmd {
	return func() tea.Msg {
		return BatchLoaded{Result: a.driver.Start(context.Background())}
	}
}

func (a App) feedOpenedCmd() tea.Cmd {
	return func() tea.Msg {
		return BatchLoaded{Result: a.driver.FeedOpened(context.Background())}
	}
}

func (a App) visibleCmd(cursor int) tea.Cmd {
	return func() tea.Msg {
		return BatchLoaded{Result: a.driver.NotifyVisible(context.Background(), cursor)}
	}
}

func (a App) expandCmd(id string) tea.Cmd {
	return func() tea.Msg {
		item, err := a.driver.RequestExpand(context.Background(), id)
		return HydrateDone{Item: item, Err: err}
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg {
		return frameTick{}
	})
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.debugOn {
		return debugOverlay(a.ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	if a.readerOpen {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.reader.View())
	}

	tabs := a.renderTabBar()

	var body string
	if a.activeTab == tabHome {
		body = a.renderHome()
	} else {
		body = a.feed.View()
	}

	statusBar := RenderStatusBar(a.feed.Cursor(), a.feed.Len(), a.width, a.driver.Fetching())

	body = fitHeight(body, a.height-2) // tab bar + status bar

	return tabs + "\n" + body + statusBar
}

func (a App) renderTabBar() string {
	home := TabInactive.Render("1 Home")
	feedTab := TabInactive.Render("2 Reflect")
	if a.activeTab == tabHome {
		home = TabActive.Render("1 Home")
	} else {
		feedTab = TabActive.Render("2 Reflect")
	}
	return home + feedTab
}

func (a App) renderHome() string {
	lines := []string{
		"",
		ReaderTitle.Render("  tadabbur"),
		"",
		HelpStyle.Render("A quiet feed for reflection. Press Tab or 2 to open it."),
	}
	if !a.driver.HasMore() {
		lines = append(lines, EndMarker.Render("Today's reflections are complete."))
	}
	return strings.Join(lines, "\n") + "\n"
}

// fitHeight pads or trims body to exactly h lines (plus trailing newline).
func fitHeight(body string, h int) string {
	if h < 1 {
		h = 1
	}
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

// Cursor returns the feed cursor position (for testing).
func (a App) Cursor() int {
	return a.feed.Cursor()
}

// ReaderOpen reports whether the reflection modal is open (for testing).
func (a App) ReaderOpen() bool {
	return a.readerOpen
}

// ActiveTab returns the focused tab index (for testing).
func (a App) ActiveTab() int {
	return a.activeTab
}
