package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/hydrate"
	"github.com/tadabbur/tadabbur/internal/prefetch"
	"github.com/tadabbur/tadabbur/internal/source"
	"github.com/tadabbur/tadabbur/internal/visibility"
)

// scriptedSource serves numbered items forever and a fixed essay on
// deep-dive, standing in for the layered source.
type scriptedSource struct {
	mu     sync.Mutex
	next   int
	essays int
}

func (s *scriptedSource) FetchBatch(ctx context.Context, count int) ([]feed.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]feed.Item, count)
	for i := range items {
		items[i] = feed.Item{
			ID:    fmt.Sprintf("r%d", s.next),
			Kind:  feed.KindPrompt,
			Title: fmt.Sprintf("Reflection %d", s.next),
			Short: "teaser",
		}
		s.next++
	}
	return items, nil
}

const scriptedEssay = `Gratitude is not a mood that arrives when circumstances improve.
It is a discipline of attention: the deliberate act of counting what is already given
before asking for what is missing. The feed of blessings never ends; only our scrolling
through it does.`

func (s *scriptedSource) DeepDive(ctx context.Context, item feed.Item) (string, error) {
	s.mu.Lock()
	s.essays++
	s.mu.Unlock()
	return scriptedEssay, nil
}

func newTestEngine(src interface {
	FetchBatch(ctx context.Context, count int) ([]feed.Item, error)
	DeepDive(ctx context.Context, item feed.Item) (string, error)
}) (*Engine, *feed.Store) {
	store := feed.NewStore()
	pc := prefetch.New(store, src, nil)
	tr := visibility.New(visibility.DefaultTrailing)
	hy := hydrate.New(store, src, nil, hydrate.WithDwell(time.Hour))
	return New(store, pc, tr, hy, nil), store
}

func TestSessionScenario(t *testing.T) {
	e, _ := newTestEngine(&scriptedSource{})
	ctx := context.Background()

	// App launch: small entry batch
	e.Start(ctx)
	if got := len(e.Items()); got != prefetch.DefaultEntryBatch {
		t.Fatalf("after start: %d items, want %d", got, prefetch.DefaultEntryBatch)
	}

	// First feed-tab visit: medium batch on top
	e.FeedOpened(ctx)
	want := prefetch.DefaultEntryBatch + prefetch.DefaultTabBatch
	if got := len(e.Items()); got != want {
		t.Fatalf("after feed open: %d items, want %d", got, want)
	}

	// Scrolling near the top does nothing
	if res := e.NotifyVisible(ctx, 0); !res.Skipped {
		t.Error("cursor at top triggered a fetch")
	}
	if got := len(e.Items()); got != want {
		t.Fatalf("top-of-feed scroll changed item count to %d", got)
	}

	// Scrolling into the trailing window fetches the steady batch
	if res := e.NotifyVisible(ctx, want-1); res.Skipped {
		t.Fatal("cursor at end did not trigger a fetch")
	}
	want += prefetch.DefaultSteadyBatch
	if got := len(e.Items()); got != want {
		t.Fatalf("after steady fetch: %d items, want %d", got, want)
	}

	// Open a reflection: hydrates and records the expansion
	items := e.Items()
	item, err := e.RequestExpand(ctx, items[2].ID)
	if err != nil {
		t.Fatalf("RequestExpand: %v", err)
	}
	if !item.Hydrated() {
		t.Error("expanded item not hydrated")
	}
	if e.ExpandedID() != items[2].ID {
		t.Errorf("ExpandedID = %q, want %q", e.ExpandedID(), items[2].ID)
	}

	e.RequestCollapse()
	if e.ExpandedID() != "" {
		t.Error("ExpandedID not cleared after collapse")
	}
}

func TestCuratedEndToEnd(t *testing.T) {
	// The real curated source through the whole stack: scroll until the
	// bank runs dry and check the feed lands in the exhausted state.
	e, store := newTestEngine(source.NewCurated())
	ctx := context.Background()

	e.Start(ctx)
	e.FeedOpened(ctx)
	for i := 0; i < 20 && e.HasMore(); i++ {
		e.NotifyVisible(ctx, len(e.Items())-1)
	}

	if e.HasMore() {
		t.Fatal("curated bank never exhausted")
	}
	if store.Len() == 0 {
		t.Fatal("no items loaded")
	}
	// Exhausted feed ignores further scroll signals
	if res := e.NotifyVisible(ctx, store.Len()-1); !res.Skipped {
		t.Error("scroll after exhaustion triggered a fetch")
	}
}

func TestExpandUnknownItem(t *testing.T) {
	e, _ := newTestEngine(&scriptedSource{})
	if _, err := e.RequestExpand(context.Background(), "missing"); !errors.Is(err, hydrate.ErrUnknownItem) {
		t.Errorf("err = %v, want ErrUnknownItem", err)
	}
}

func TestNotifyVisibleEmptyFeed(t *testing.T) {
	e, _ := newTestEngine(&scriptedSource{})
	if res := e.NotifyVisible(context.Background(), 0); !res.Skipped {
		t.Error("empty feed scroll triggered a fetch")
	}
}
