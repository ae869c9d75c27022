package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tadabbur/tadabbur/internal/feed"
)

// FeedView is the scrolling reflection list. It holds a snapshot of the
// feed pushed in via SetItems; it never reaches into the engine itself.
type FeedView struct {
	items      []feed.Item
	cursor     int
	selectedID string // survives item-slice refreshes
	width      int
	height     int

	fetching bool
	hasMore  bool
	spinner  spinner.Model

	// Smooth scrolling with harmonica spring physics
	scrollSpring   harmonica.Spring
	scrollPos      float64
	scrollVelocity float64
	scrollTarget   float64
}

// NewFeedView creates an empty feed view.
func NewFeedView() FeedView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	return FeedView{
		hasMore:      true,
		spinner:      s,
		scrollSpring: harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.8),
	}
}

// SetSize updates the viewport dimensions.
func (v *FeedView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetItems replaces the item snapshot, keeping the cursor on the same
// reflection when it survives the refresh.
func (v *FeedView) SetItems(items []feed.Item) {
	v.items = items
	if v.selectedID != "" {
		for i, it := range items {
			if it.ID == v.selectedID {
				v.cursor = i
				return
			}
		}
	}
	if v.cursor >= len(items) && len(items) > 0 {
		v.cursor = len(items) - 1
	}
	v.syncSelection()
}

// SetStatus updates the fetch indicator and end-of-feed marker state.
func (v *FeedView) SetStatus(fetching, hasMore bool) {
	v.fetching = fetching
	v.hasMore = hasMore
}

// Cursor returns the current cursor position.
func (v FeedView) Cursor() int {
	return v.cursor
}

// Len returns how many items are loaded.
func (v FeedView) Len() int {
	return len(v.items)
}

// SelectedID returns the id of the reflection under the cursor, or "".
func (v FeedView) SelectedID() string {
	if v.cursor >= 0 && v.cursor < len(v.items) {
		return v.items[v.cursor].ID
	}
	return ""
}

// CursorDown moves the cursor toward the end of the feed.
func (v *FeedView) CursorDown() {
	if v.cursor < len(v.items)-1 {
		v.cursor++
		v.syncSelection()
	}
}

// CursorUp moves the cursor toward the top.
func (v *FeedView) CursorUp() {
	if v.cursor > 0 {
		v.cursor--
		v.syncSelection()
	}
}

// CursorTop jumps to the first item.
func (v *FeedView) CursorTop() {
	v.cursor = 0
	v.syncSelection()
}

// CursorBottom jumps to the last loaded item.
func (v *FeedView) CursorBottom() {
	if len(v.items) > 0 {
		v.cursor = len(v.items) - 1
	}
	v.syncSelection()
}

func (v *FeedView) syncSelection() {
	if v.cursor >= 0 && v.cursor < len(v.items) {
		v.selectedID = v.items[v.cursor].ID
	} else {
		v.selectedID = ""
	}
	v.scrollTarget = float64(v.cursor)
}

// UpdateScroll advances the spring animation one frame.
func (v *FeedView) UpdateScroll() {
	v.scrollPos, v.scrollVelocity = v.scrollSpring.Update(v.scrollPos, v.scrollVelocity, v.scrollTarget)
}

// IsScrolling reports whether the scroll animation is still settling.
func (v FeedView) IsScrolling() bool {
	return math.Abs(v.scrollPos-v.scrollTarget) > 0.01
}

// Spinner returns the spinner model.
func (v FeedView) Spinner() spinner.Model {
	return v.spinner
}

// UpdateSpinner updates the spinner state.
func (v *FeedView) UpdateSpinner(s spinner.Model) {
	v.spinner = s
}

// View renders the feed list.
func (v FeedView) View() string {
	if len(v.items) == 0 {
		if v.fetching {
			return HelpStyle.Render(v.spinner.View() + " Gathering reflections...")
		}
		return HelpStyle.Render("No reflections yet.")
	}

	var b strings.Builder
	available := v.height
	if available < 1 {
		available = 1
	}

	// Each item takes one line, plus one teaser line under the cursor.
	offset := int(math.Round(v.scrollPos))
	maxOffset := len(v.items) - (available - 1)
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset > v.cursor {
		offset = v.cursor
	}
	if offset < 0 {
		offset = 0
	}

	rendered := 0
	for i := offset; i < len(v.items) && rendered < available; i++ {
		b.WriteString(v.renderItemLine(v.items[i], i == v.cursor))
		b.WriteString("\n")
		rendered++

		if i == v.cursor && rendered < available {
			teaser := runewidth.Truncate(v.items[i].Short, maxInt(v.width-8, 20), "…")
			b.WriteString(TeaserStyle.Render(teaser))
			b.WriteString("\n")
			rendered++
		}
	}

	// Tail line: spinner while fetching, end marker once the source is done
	if rendered < available {
		switch {
		case v.fetching:
			b.WriteString(HelpStyle.Render(v.spinner.View() + " more on the way..."))
			b.WriteString("\n")
		case !v.hasMore && offset+rendered >= len(v.items):
			b.WriteString(EndMarker.Render("~ you have reached the end of today's reflections ~"))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderItemLine renders a single reflection line.
func (v FeedView) renderItemLine(item feed.Item, selected bool) string {
	badge := KindBadge.Foreground(KindColor(item.Kind)).Render(string(item.Kind))
	badgeWidth := lipgloss.Width(badge)

	titleWidth := v.width - badgeWidth - 6
	if titleWidth < 20 {
		titleWidth = 20
	}
	title := runewidth.Truncate(item.Title, titleWidth, "…")

	var titleStyle lipgloss.Style
	switch {
	case selected:
		titleStyle = SelectedItem
		if item.Read() {
			titleStyle = titleStyle.Foreground(lipgloss.Color("250")).Bold(false)
		}
	case item.Read():
		titleStyle = ReadItem
	default:
		titleStyle = NormalItem
	}

	mark := " "
	if item.Read() {
		mark = "·"
	}
	return fmt.Sprintf("%s%s %s", mark, badge, titleStyle.Render(title))
}

// RenderStatusBar renders the bottom status bar with key hints and position.
func RenderStatusBar(cursor, total int, width int, fetching bool) string {
	var position string
	if fetching {
		position = " fetching... "
	} else if total > 0 {
		position = fmt.Sprintf(" %d/%d ", cursor+1, total)
	} else {
		position = " - "
	}

	keys := []string{
		StatusBarKey.Render("j/k") + StatusBarText.Render(":nav"),
		StatusBarKey.Render("Enter") + StatusBarText.Render(":open"),
		StatusBarKey.Render("Esc") + StatusBarText.Render(":close"),
		StatusBarKey.Render("Tab") + StatusBarText.Render(":switch"),
		StatusBarKey.Render("?") + StatusBarText.Render(":debug"),
		StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
	}
	keyHints := strings.Join(keys, " ")

	padding := width - lipgloss.Width(position) - lipgloss.Width(keyHints)
	if padding < 0 {
		padding = 0
	}

	bar := position + strings.Repeat(" ", padding) + keyHints
	return StatusBar.Width(width).Render(bar)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
