package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tadabbur/tadabbur/internal/feed"
)

// Reader is the modal for one expanded reflection. The full text renders
// as markdown; while the essay is still generating it shows a spinner
// over the teaser.
type Reader struct {
	item       feed.Item
	generating bool

	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
}

// NewReader creates a closed Reader.
func NewReader() Reader {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	return Reader{
		viewport: viewport.New(0, 0),
		spinner:  s,
	}
}

// SetSize updates the modal dimensions from the terminal size.
func (r *Reader) SetSize(width, height int) {
	modalWidth := int(float64(width) * 0.85)
	if modalWidth < 50 {
		modalWidth = 50
	}
	modalHeight := height - 6
	if modalHeight < 12 {
		modalHeight = 12
	}

	r.width = modalWidth
	r.height = modalHeight
	r.viewport.Width = modalWidth - 6   // frame border + padding
	r.viewport.Height = modalHeight - 6 // frame chrome + title + meta lines
	r.ready = true
	r.refresh()
}

// Open shows an item in the modal. generating marks the essay as still
// being produced; Resolve replaces it when the deep-dive lands.
func (r *Reader) Open(item feed.Item, generating bool) {
	r.item = item
	r.generating = generating
	r.viewport.GotoTop()
	r.refresh()
}

// Resolve applies the finished deep-dive to the open item. A failed
// deep-dive just leaves the teaser up; the essay simply never deepens.
func (r *Reader) Resolve(item feed.Item, err error) {
	if item.ID != r.item.ID {
		// A stale completion for a previously opened item; the feed
		// snapshot already carries it, nothing to show here.
		return
	}
	r.generating = false
	if err == nil {
		r.item = item
	}
	r.refresh()
}

// MarkRead flips the open item's read indicator.
func (r *Reader) MarkRead(id string) {
	if r.item.ID == id {
		r.item.ReadAt = time.Now()
	}
}

// Generating reports whether the modal is waiting on a deep-dive.
func (r Reader) Generating() bool {
	return r.generating
}

// ItemID returns the id of the open item.
func (r Reader) ItemID() string {
	return r.item.ID
}

// ScrollDown moves the essay viewport down one line.
func (r *Reader) ScrollDown() { r.viewport.ScrollDown(1) }

// ScrollUp moves the essay viewport up one line.
func (r *Reader) ScrollUp() { r.viewport.ScrollUp(1) }

// Spinner returns the spinner model.
func (r Reader) Spinner() spinner.Model {
	return r.spinner
}

// UpdateSpinner updates the spinner state.
func (r *Reader) UpdateSpinner(s spinner.Model) {
	r.spinner = s
}

// refresh re-renders the essay markdown into the viewport.
func (r *Reader) refresh() {
	if !r.ready {
		return
	}

	body := r.item.Full
	if body == "" {
		body = r.item.Short
	}

	rendered, err := renderMarkdown(body, r.viewport.Width)
	if err != nil {
		rendered = body
	}
	r.viewport.SetContent(rendered)
}

// renderMarkdown renders markdown for the terminal at the given width.
func renderMarkdown(md string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

// View renders the modal.
func (r Reader) View() string {
	if !r.ready {
		return ""
	}

	titleWidth := r.width - 8
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := ReaderTitle.Render(runewidth.Truncate(r.item.Title, titleWidth, "…"))
	badge := KindBadge.Foreground(KindColor(r.item.Kind)).Render(string(r.item.Kind))
	head := badge + " " + title

	var meta string
	switch {
	case r.generating:
		meta = HelpStyle.Render(r.spinner.View() + " reflecting deeper...")
	case r.item.Read():
		meta = ReadIndicator.Render("✓ read")
	default:
		meta = StatusBarText.Render("reading...")
	}

	foot := StatusBarText.Render(fmt.Sprintf("%3.0f%%", r.viewport.ScrollPercent()*100)) +
		"  " + StatusBarKey.Render("j/k") + StatusBarText.Render(":scroll") +
		" " + StatusBarKey.Render("Esc") + StatusBarText.Render(":close")

	content := strings.Join([]string{head, meta, "", r.viewport.View(), "", foot}, "\n")
	return ReaderFrame.Width(r.width).Render(content)
}
