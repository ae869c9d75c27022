package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/tadabbur/tadabbur/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing pipeline stats and recent
// events. Pure function with no side effects. Returns empty string if
// ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	// --- Stats section (keyed lookups, not map iteration) ---
	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Feed Stats"))
	lines = append(lines, fmt.Sprintf("  Fetches:   %d complete, %d empty, %d errors, %d dropped",
		stats[otel.KindFetchComplete], stats[otel.KindFetchEmpty],
		stats[otel.KindFetchError], stats[otel.KindFetchSkipped]))
	lines = append(lines, fmt.Sprintf("  Hydrates:  %d complete, %d cached, %d errors",
		stats[otel.KindHydrateComplete], stats[otel.KindHydrateCached], stats[otel.KindHydrateError]))
	lines = append(lines, fmt.Sprintf("  Reads:     %d marked", stats[otel.KindReadMarked]))
	lines = append(lines, fmt.Sprintf("  Buffer:    %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	// --- Recent events section ---
	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		ageStr := formatAge(time.Since(e.Time))

		line := fmt.Sprintf("  %6s  %-18s", ageStr, string(e.Kind))
		if e.ItemID != "" {
			line += "  " + e.ItemID
		}
		if e.Stage != "" {
			line += "  [" + e.Stage + "]"
		}
		if e.Err != "" {
			line += "  ERR:" + runewidth.Truncate(e.Err, 30, "…")
		}
		lines = append(lines, line)
	}

	// Truncate to fit terminal height (subtract chrome added by the panel)
	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 72
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	content := strings.Join(lines, "\n")
	return DebugPanel.Width(panelWidth).Render(content)
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("?") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
