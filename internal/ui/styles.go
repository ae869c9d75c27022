package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tadabbur/tadabbur/internal/feed"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("30")  // Teal
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("179") // Gold
)

// kindColors gives each reflection kind its own badge color.
var kindColors = map[feed.Kind]lipgloss.Color{
	feed.KindVerse:     lipgloss.Color("30"),  // teal
	feed.KindNarration: lipgloss.Color("66"),  // slate
	feed.KindNature:    lipgloss.Color("71"),  // green
	feed.KindPrompt:    lipgloss.Color("179"), // gold
	feed.KindProphecy:  lipgloss.Color("97"),  // violet
	feed.KindStory:     lipgloss.Color("137"), // amber
}

// KindColor returns the badge color for a kind, gray for unknown kinds.
func KindColor(k feed.Kind) lipgloss.Color {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return colorSecondary
}

// SelectedItem style for the currently highlighted item.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for unselected, unread items.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// ReadItem style for items that have been read.
var ReadItem = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// TeaserStyle for the short text under the highlighted item.
var TeaserStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 3)

// KindBadge style for reflection kind badges.
var KindBadge = lipgloss.NewStyle().
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// EndMarker style for the end-of-feed line.
var EndMarker = lipgloss.NewStyle().
	Foreground(colorMuted).
	Italic(true).
	Padding(1, 2)

// TabActive style for the focused tab label.
var TabActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 2)

// TabInactive style for unfocused tab labels.
var TabInactive = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 2)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// ReaderFrame style for the expanded reflection modal.
var ReaderFrame = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// ReaderTitle style for the modal heading.
var ReaderTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// ReadIndicator style for the dwell/read marker in the modal.
var ReadIndicator = lipgloss.NewStyle().
	Foreground(lipgloss.Color("78"))

// DebugPanel style for the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorMuted).
	Padding(1, 2)

// DebugHeaderStyle for debug overlay section headers.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
