// Package prefetch owns the staged loading policy for the reflection feed
// and the single-flight guarantee over the content source.
package prefetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/logging"
	"github.com/tadabbur/tadabbur/internal/otel"
	"github.com/tadabbur/tadabbur/internal/source"
)

// Stage is the staged-preload position. It only ever advances forward and
// is reset only by constructing a new Controller (a full session reset).
type Stage int

const (
	StageNotStarted Stage = iota
	StageEntryLoaded      // small batch requested at session start
	StageTabLoaded        // medium batch requested on first feed-tab visit
	StageSteadyState      // every visibility signal requests a steady batch
)

func (s Stage) String() string {
	switch s {
	case StageNotStarted:
		return "not-started"
	case StageEntryLoaded:
		return "entry-loaded"
	case StageTabLoaded:
		return "tab-loaded"
	case StageSteadyState:
		return "steady-state"
	}
	return "unknown"
}

// Default batch sizes per stage.
const (
	DefaultEntryBatch  = 4
	DefaultTabBatch    = 6
	DefaultSteadyBatch = 6
)

// fetchTimeout bounds each source call.
const fetchTimeout = 45 * time.Second

// fetcher is the slice of source.Source the controller needs.
type fetcher interface {
	FetchBatch(ctx context.Context, count int) ([]feed.Item, error)
}

// Archiver persists appended batches. Optional; nil disables archiving.
type Archiver interface {
	SaveItems(items []feed.Item) (int, error)
}

// Result reports the outcome of one trigger.
type Result struct {
	Stage     Stage // stage after the trigger
	Requested int   // batch size asked for; 0 when skipped
	Appended  int   // items actually added to the store
	Skipped   bool  // trigger dropped by a guard (in-flight, exhausted, wrong stage)
	Err       error // absorbed source error, reported for logging only
}

// Controller drives when and how much to fetch. All entry points share
// one single-flight guard: overlapping triggers during a fast scroll
// collapse into the one in-flight request and are dropped, not queued.
type Controller struct {
	store *feed.Store
	src   fetcher
	arc   Archiver
	log   *otel.Logger

	entryBatch  int
	tabBatch    int
	steadyBatch int

	mu       sync.Mutex
	stage    Stage
	fetching bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithBatchSizes overrides the per-stage batch sizes.
func WithBatchSizes(entry, tab, steady int) Option {
	return func(c *Controller) {
		if entry > 0 {
			c.entryBatch = entry
		}
		if tab > 0 {
			c.tabBatch = tab
		}
		if steady > 0 {
			c.steadyBatch = steady
		}
	}
}

// WithArchiver persists appended batches to the journal.
func WithArchiver(a Archiver) Option {
	return func(c *Controller) { c.arc = a }
}

// New creates a Controller at StageNotStarted.
func New(store *feed.Store, src fetcher, log *otel.Logger, opts ...Option) *Controller {
	if log == nil {
		log = otel.NewNullLogger()
	}
	c := &Controller{
		store:       store,
		src:         src,
		log:         log,
		entryBatch:  DefaultEntryBatch,
		tabBatch:    DefaultTabBatch,
		steadyBatch: DefaultSteadyBatch,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stage returns the current stage.
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Fetching reports whether a fetch is outstanding (for the loading
// indicator).
func (c *Controller) Fetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching
}

// Start is the session-construction trigger: NotStarted -> EntryLoaded
// with a small batch, so the feed is non-empty before it is ever opened.
// A no-op on any later stage.
func (c *Controller) Start(ctx context.Context) Result {
	return c.request(ctx, StageNotStarted, StageEntryLoaded, c.entryBatch)
}

// FeedOpened is the first-visit trigger: EntryLoaded -> TabLoaded with a
// medium batch. The presentation layer may call it on every tab focus;
// only the first eligible call fetches.
func (c *Controller) FeedOpened(ctx context.Context) Result {
	return c.request(ctx, StageEntryLoaded, StageTabLoaded, c.tabBatch)
}

// NotifyVisible is the scroll trigger. The first signal after TabLoaded
// advances to SteadyState; from then on every signal requests a steady
// batch. Signals before TabLoaded are dropped: the visibility tracker is
// a dumb edge detector and may over-signal.
func (c *Controller) NotifyVisible(ctx context.Context) Result {
	c.mu.Lock()
	if c.stage < StageTabLoaded {
		c.mu.Unlock()
		return Result{Stage: c.stage, Skipped: true}
	}
	c.mu.Unlock()
	return c.request(ctx, StageTabLoaded, StageSteadyState, c.steadyBatch)
}

// request is the shared guarded fetch path. The stage advances from
// `from` to `to` exactly once; at or beyond `to` the batch is still
// requested (steady-state re-triggering) but the stage is untouched.
// Runs the source call synchronously in the caller's goroutine: the UI
// wraps triggers in tea.Cmds, tests call them directly.
func (c *Controller) request(ctx context.Context, from, to Stage, count int) Result {
	c.mu.Lock()
	if c.fetching || !c.store.HasMore() {
		stage := c.stage
		c.mu.Unlock()
		c.log.Emit(otel.Event{Kind: otel.KindFetchSkipped, Level: otel.LevelDebug, Comp: "prefetch", Stage: stage.String()})
		return Result{Stage: stage, Skipped: true}
	}
	if c.stage < from {
		// earlier trigger hasn't happened yet; drop rather than skip ahead
		stage := c.stage
		c.mu.Unlock()
		return Result{Stage: stage, Skipped: true}
	}
	if c.stage == from {
		c.stage = to
		c.log.Emit(otel.Event{Kind: otel.KindStageAdvance, Level: otel.LevelInfo, Comp: "prefetch", Stage: to.String()})
	} else if to != StageSteadyState {
		// Start/FeedOpened fire once; re-invocations past their stage are no-ops
		stage := c.stage
		c.mu.Unlock()
		return Result{Stage: stage, Skipped: true}
	}
	c.fetching = true
	stage := c.stage
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.fetching = false
		c.mu.Unlock()
	}()

	return c.fetch(ctx, stage, count)
}

// fetch performs one guarded source call and merges the result.
func (c *Controller) fetch(ctx context.Context, stage Stage, count int) Result {
	start := time.Now()
	c.log.Emit(otel.Event{Kind: otel.KindFetchStart, Level: otel.LevelDebug, Comp: "prefetch", Stage: stage.String(), Count: count})

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	items, err := c.src.FetchBatch(fetchCtx, count)

	exhausted := errors.Is(err, source.ErrNoMore)
	if err != nil && !exhausted {
		// Transient failure: identical to an empty batch. hasMore stays
		// true and the next trigger retries.
		c.log.Emit(otel.Event{Kind: otel.KindFetchError, Level: otel.LevelWarn, Comp: "prefetch", Stage: stage.String(), Err: err.Error(), Dur: time.Since(start)})
		return Result{Stage: stage, Requested: count, Err: err}
	}

	appended := c.store.AppendBatch(items)

	if appended > 0 && c.arc != nil {
		if _, aerr := c.arc.SaveItems(items); aerr != nil {
			c.log.Emit(otel.Event{Kind: otel.KindJournalError, Level: otel.LevelWarn, Comp: "prefetch", Err: aerr.Error()})
			logging.Warn("failed to archive batch", "err", aerr)
		}
	}

	if exhausted {
		// The only path that ever sets hasMore=false: an explicit signal.
		c.store.MarkExhausted()
		c.log.Emit(otel.Event{Kind: otel.KindExhausted, Level: otel.LevelInfo, Comp: "prefetch", Stage: stage.String()})
	}

	kind := otel.KindFetchComplete
	if len(items) == 0 {
		kind = otel.KindFetchEmpty
	}
	c.log.Emit(otel.Event{Kind: kind, Level: otel.LevelInfo, Comp: "prefetch", Stage: stage.String(), Count: appended, Dur: time.Since(start)})

	return Result{Stage: stage, Requested: count, Appended: appended}
}
