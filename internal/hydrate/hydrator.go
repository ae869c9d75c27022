// Package hydrate turns a teaser into a full reflection when the reader
// opens it, and marks the reflection read after a dwell period.
//
// Hydration is layered: the in-memory feed item first, then the journal's
// persisted essay, then a live deep-dive from the content source. Only
// one deep-dive runs at a time.
package hydrate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/otel"
)

// DefaultDwell is how long an item must stay open before it counts as read.
const DefaultDwell = 30 * time.Second

// hydrateTimeout bounds one deep-dive call.
const hydrateTimeout = 60 * time.Second

// ErrBusy is returned when a deep-dive is already in flight.
var ErrBusy = errors.New("hydrate: deep dive already in flight")

// ErrUnknownItem is returned when the requested id is not in the feed.
var ErrUnknownItem = errors.New("hydrate: item not in feed")

// diver is the slice of source.Source the hydrator needs.
type diver interface {
	DeepDive(ctx context.Context, item feed.Item) (string, error)
}

// Keeper persists essays and read marks. Optional; nil disables persistence.
type Keeper interface {
	Essay(id string) (string, bool)
	SaveEssay(id, full string) error
	MarkRead(id string, at time.Time) error
}

// Hydrator owns the expanded-item state: which reflection is open, the
// dwell timer that marks it read, and the single-flight deep-dive.
type Hydrator struct {
	store *feed.Store
	src   diver
	keep  Keeper
	log   *otel.Logger
	dwell time.Duration

	mu        sync.Mutex
	expanded  string      // id of the open item, "" when none
	gen       uint64      // bumped on every expand/collapse, stales old timers
	timer     *time.Timer // pending dwell timer, nil when none
	hydrating string      // id of the in-flight deep-dive, "" when none

	// onRead is invoked after a dwell timer marks an item read, outside
	// the lock. The UI uses it to repaint.
	onRead func(id string)
}

// Option configures a Hydrator.
type Option func(*Hydrator)

// WithDwell overrides the read-dwell duration.
func WithDwell(d time.Duration) Option {
	return func(h *Hydrator) {
		if d > 0 {
			h.dwell = d
		}
	}
}

// WithKeeper persists essays and read marks to the journal.
func WithKeeper(k Keeper) Option {
	return func(h *Hydrator) { h.keep = k }
}

// WithReadCallback registers a function called when a dwell timer fires.
func WithReadCallback(fn func(id string)) Option {
	return func(h *Hydrator) { h.onRead = fn }
}

// New creates a Hydrator with no item expanded.
func New(store *feed.Store, src diver, log *otel.Logger, opts ...Option) *Hydrator {
	if log == nil {
		log = otel.NewNullLogger()
	}
	h := &Hydrator{
		store: store,
		src:   src,
		log:   log,
		dwell: DefaultDwell,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ExpandedID returns the id of the currently open item, or "".
func (h *Hydrator) ExpandedID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.expanded
}

// HydratingID returns the id of the in-flight deep-dive, or "".
func (h *Hydrator) HydratingID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hydrating
}

// Expand opens the item and arms the dwell timer. Expanding the item
// that is already open keeps the running timer; expanding a different
// item cancels the previous timer first, so a reader who glances at an
// item and moves on never accrues a read mark for it.
func (h *Hydrator) Expand(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.expanded == id {
		return
	}
	h.cancelTimerLocked()
	h.expanded = id

	gen := h.gen
	h.timer = time.AfterFunc(h.dwell, func() {
		h.dwellFired(id, gen)
	})
}

// Collapse closes the open item and cancels its dwell timer.
func (h *Hydrator) Collapse() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelTimerLocked()
	h.expanded = ""
}

// cancelTimerLocked stops any pending timer and stales its generation.
// Callers hold h.mu.
func (h *Hydrator) cancelTimerLocked() {
	h.gen++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

// dwellFired runs on the timer goroutine. The generation check makes a
// raced Stop harmless: a timer that fires after its item was collapsed
// or replaced does nothing.
func (h *Hydrator) dwellFired(id string, gen uint64) {
	h.mu.Lock()
	if gen != h.gen || h.expanded != id {
		h.mu.Unlock()
		return
	}
	h.timer = nil
	h.mu.Unlock()

	h.markRead(id)
	if h.onRead != nil {
		h.onRead(id)
	}
}

// markRead records the read timestamp in the feed and the journal.
// First mark wins; repeats are no-ops.
func (h *Hydrator) markRead(id string) {
	now := time.Now()
	if !h.store.UpdateItem(id, feed.Patch{ReadAt: &now}) {
		return
	}
	h.log.Emit(otel.Event{Kind: otel.KindReadMarked, Level: otel.LevelInfo, Comp: "hydrate", ItemID: id})
	if h.keep != nil {
		if err := h.keep.MarkRead(id, now); err != nil {
			h.log.Emit(otel.Event{Kind: otel.KindJournalError, Level: otel.LevelWarn, Comp: "hydrate", ItemID: id, Err: err.Error()})
		}
	}
}

// Hydrate resolves the full text for one item and returns the updated
// item. Cheap layers first: the feed item itself, then the journal's
// persisted essay, then a live deep-dive. Only one deep-dive runs at a
// time; a second call while one is in flight returns ErrBusy.
func (h *Hydrator) Hydrate(ctx context.Context, id string) (feed.Item, error) {
	item, ok := h.store.Find(id)
	if !ok {
		return feed.Item{}, ErrUnknownItem
	}
	if item.Hydrated() {
		return item, nil
	}

	if h.keep != nil {
		if full, ok := h.keep.Essay(id); ok {
			h.store.UpdateItem(id, feed.Patch{Full: &full})
			h.log.Emit(otel.Event{Kind: otel.KindHydrateCached, Level: otel.LevelDebug, Comp: "hydrate", ItemID: id})
			item.Full = full
			return item, nil
		}
	}

	h.mu.Lock()
	if h.hydrating != "" {
		h.mu.Unlock()
		return item, ErrBusy
	}
	h.hydrating = id
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.hydrating = ""
		h.mu.Unlock()
	}()

	h.log.Emit(otel.Event{Kind: otel.KindHydrateStart, Level: otel.LevelInfo, Comp: "hydrate", ItemID: id, Origin: item.Origin})
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, hydrateTimeout)
	defer cancel()

	full, err := h.src.DeepDive(ctx, item)
	if err != nil {
		h.log.Emit(otel.Event{Kind: otel.KindHydrateError, Level: otel.LevelWarn, Comp: "hydrate", ItemID: id, Err: err.Error(), Dur: time.Since(start)})
		return item, err
	}

	h.store.UpdateItem(id, feed.Patch{Full: &full})
	h.log.Emit(otel.Event{Kind: otel.KindHydrateComplete, Level: otel.LevelInfo, Comp: "hydrate", ItemID: id, Dur: time.Since(start)})

	if h.keep != nil {
		if err := h.keep.SaveEssay(id, full); err != nil {
			h.log.Emit(otel.Event{Kind: otel.KindJournalError, Level: otel.LevelWarn, Comp: "hydrate", ItemID: id, Err: err.Error()})
		}
	}

	item.Full = full
	return item, nil
}
