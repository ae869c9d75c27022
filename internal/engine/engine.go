// Package engine is the single seam between the feed machinery and the
// presentation layer. The UI reads a small snapshot and calls a handful
// of intent methods; everything else stays internal.
package engine

import (
	"context"

	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/hydrate"
	"github.com/tadabbur/tadabbur/internal/otel"
	"github.com/tadabbur/tadabbur/internal/prefetch"
	"github.com/tadabbur/tadabbur/internal/visibility"
)

// Engine wires the store, prefetch controller, visibility tracker, and
// hydrator behind one facade. Its methods are synchronous and
// goroutine-safe; the UI runs them inside tea.Cmd goroutines.
type Engine struct {
	store    *feed.Store
	prefetch *prefetch.Controller
	tracker  *visibility.Tracker
	hydrator *hydrate.Hydrator
	log      *otel.Logger
}

// New assembles an Engine from its already-constructed parts.
func New(store *feed.Store, pc *prefetch.Controller, tr *visibility.Tracker, hy *hydrate.Hydrator, log *otel.Logger) *Engine {
	if log == nil {
		log = otel.NewNullLogger()
	}
	return &Engine{
		store:    store,
		prefetch: pc,
		tracker:  tr,
		hydrator: hy,
		log:      log,
	}
}

// Items returns a copy of the loaded feed, oldest first.
func (e *Engine) Items() []feed.Item {
	return e.store.Items()
}

// HasMore reports whether the source may still have content.
func (e *Engine) HasMore() bool {
	return e.store.HasMore()
}

// Fetching reports whether a batch fetch is in flight.
func (e *Engine) Fetching() bool {
	return e.prefetch.Fetching()
}

// ExpandedID returns the id of the open reflection, or "".
func (e *Engine) ExpandedID() string {
	return e.hydrator.ExpandedID()
}

// Generating reports whether a deep-dive is in flight.
func (e *Engine) Generating() bool {
	return e.hydrator.HydratingID() != ""
}

// Start requests the small entry batch. Called once at session start;
// repeats are no-ops.
func (e *Engine) Start(ctx context.Context) prefetch.Result {
	return e.prefetch.Start(ctx)
}

// FeedOpened requests the tab batch. Called whenever the feed tab gains
// focus; only the first call past the entry stage fetches.
func (e *Engine) FeedOpened(ctx context.Context) prefetch.Result {
	return e.prefetch.FeedOpened(ctx)
}

// NotifyVisible reports the cursor position after a scroll. When the
// cursor is inside the trailing window the controller fetches the next
// batch; otherwise it is a cheap no-op.
func (e *Engine) NotifyVisible(ctx context.Context, cursor int) prefetch.Result {
	if !e.tracker.Observe(cursor, e.store.Len()) {
		return prefetch.Result{Stage: e.prefetch.Stage(), Skipped: true}
	}
	return e.prefetch.NotifyVisible(ctx)
}

// RequestExpand opens the item and resolves its full text, blocking
// until hydration completes or fails. The dwell timer starts at open,
// not at hydration completion.
func (e *Engine) RequestExpand(ctx context.Context, id string) (feed.Item, error) {
	e.hydrator.Expand(id)
	return e.hydrator.Hydrate(ctx, id)
}

// RequestCollapse closes the open item without waiting for any
// in-flight generation.
func (e *Engine) RequestCollapse() {
	e.hydrator.Collapse()
}
