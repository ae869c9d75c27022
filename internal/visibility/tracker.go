// Package visibility decides when scrolling should trigger another
// prefetch. The tracker keeps no state of its own: it is a pure policy
// over the cursor position and the number of loaded items, so the view
// can call it on every cursor move without bookkeeping.
package visibility

// DefaultTrailing is how many items may remain below the cursor before
// the feed asks for more.
const DefaultTrailing = 5

// Tracker signals when the cursor is close enough to the end of the
// loaded feed that more content should be fetched.
type Tracker struct {
	trailing int
}

// New creates a Tracker. trailing values below 1 fall back to
// DefaultTrailing.
func New(trailing int) *Tracker {
	if trailing < 1 {
		trailing = DefaultTrailing
	}
	return &Tracker{trailing: trailing}
}

// Observe reports whether the item at cursor, out of total loaded
// items, is within the trailing window. cursor is zero-based. Out of
// range positions and an empty feed never trigger.
func (t *Tracker) Observe(cursor, total int) bool {
	if total <= 0 || cursor < 0 || cursor >= total {
		return false
	}
	return total-cursor <= t.trailing
}

// Trailing returns the configured window size.
func (t *Tracker) Trailing() int {
	return t.trailing
}
