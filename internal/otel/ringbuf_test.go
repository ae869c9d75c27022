package otel

import (
	"fmt"
	"sync"
	"testing"
)

// hydrateEvent builds a hydrate.complete event tagged with an item id,
// so order checks can follow individual events through the buffer.
func hydrateEvent(n int) Event {
	return Event{Kind: KindHydrateComplete, ItemID: fmt.Sprintf("r%d", n)}
}

func TestRingKeepsNewestEvents(t *testing.T) {
	r := NewRingBuffer(4)
	for i := 0; i < 7; i++ {
		r.Push(hydrateEvent(i))
	}

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("Snapshot() returned %d events, want 4", len(snap))
	}
	// r0..r2 were evicted; the survivors stay in push order.
	want := []string{"r3", "r4", "r5", "r6"}
	for i, ev := range snap {
		if ev.ItemID != want[i] {
			t.Errorf("snap[%d] = %s, want %s", i, ev.ItemID, want[i])
		}
	}
}

func TestSnapshotBeforeFull(t *testing.T) {
	r := NewRingBuffer(8)
	r.Push(Event{Kind: KindFetchStart})
	r.Push(Event{Kind: KindFetchComplete, Count: 6})

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() returned %d events, want 2", len(snap))
	}
	if snap[0].Kind != KindFetchStart || snap[1].Kind != KindFetchComplete {
		t.Errorf("events out of order: %s, %s", snap[0].Kind, snap[1].Kind)
	}
}

// The debug overlay renders Last(20) as oldest-first lines; this covers
// the wrapped case where the tail straddles the buffer boundary.
func TestLastAfterWrap(t *testing.T) {
	r := NewRingBuffer(5)
	for i := 0; i < 8; i++ {
		r.Push(hydrateEvent(i))
	}

	last := r.Last(3)
	if len(last) != 3 {
		t.Fatalf("Last(3) returned %d events", len(last))
	}
	want := []string{"r5", "r6", "r7"}
	for i, ev := range last {
		if ev.ItemID != want[i] {
			t.Errorf("last[%d] = %s, want %s", i, ev.ItemID, want[i])
		}
	}
}

func TestLastClampsToCount(t *testing.T) {
	r := NewRingBuffer(16)
	r.Push(Event{Kind: KindFetchStart})
	r.Push(Event{Kind: KindFetchEmpty})

	if got := r.Last(20); len(got) != 2 {
		t.Errorf("Last(20) returned %d events, want 2", len(got))
	}
	if got := r.Last(0); got != nil {
		t.Errorf("Last(0) = %v, want nil", got)
	}
	if got := r.Last(-3); got != nil {
		t.Errorf("Last(-3) = %v, want nil", got)
	}
}

func TestStatsCountsByKind(t *testing.T) {
	r := NewRingBuffer(32)
	r.Push(Event{Kind: KindFetchStart})
	r.Push(Event{Kind: KindFetchComplete, Count: 4})
	r.Push(Event{Kind: KindFetchStart})
	r.Push(Event{Kind: KindFetchComplete, Count: 6})
	r.Push(Event{Kind: KindHydrateStart, ItemID: "r2"})
	r.Push(Event{Kind: KindHydrateError, ItemID: "r2"})
	r.Push(Event{Kind: KindReadMarked, ItemID: "r0"})

	stats := r.Stats()
	want := map[EventKind]int{
		KindFetchStart:    2,
		KindFetchComplete: 2,
		KindHydrateStart:  1,
		KindHydrateError:  1,
		KindReadMarked:    1,
	}
	for kind, n := range want {
		if stats[kind] != n {
			t.Errorf("stats[%s] = %d, want %d", kind, stats[kind], n)
		}
	}
	if stats[KindFetchError] != 0 {
		t.Errorf("stats[%s] = %d, want 0", KindFetchError, stats[KindFetchError])
	}
}

func TestStatsSurvivesEviction(t *testing.T) {
	r := NewRingBuffer(4)
	r.Push(Event{Kind: KindFetchStart})
	for i := 0; i < 4; i++ {
		r.Push(hydrateEvent(i))
	}

	stats := r.Stats()
	if stats[KindFetchStart] != 0 {
		t.Error("evicted event still counted in stats")
	}
	if stats[KindHydrateComplete] != 4 {
		t.Errorf("stats[%s] = %d, want 4", KindHydrateComplete, stats[KindHydrateComplete])
	}
}

func TestEmptyBuffer(t *testing.T) {
	r := NewRingBuffer(8)
	if r.Snapshot() != nil {
		t.Error("Snapshot() on an empty buffer should be nil")
	}
	if r.Last(5) != nil {
		t.Error("Last() on an empty buffer should be nil")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if len(r.Stats()) != 0 {
		t.Errorf("Stats() = %v, want empty", r.Stats())
	}
}

func TestLenCapsAtSize(t *testing.T) {
	r := NewRingBuffer(3)
	for i := 0; i < 10; i++ {
		r.Push(Event{Kind: KindReadMarked})
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if r.Cap() != 3 {
		t.Errorf("Cap() = %d, want 3", r.Cap())
	}
}

func TestNonPositiveSizeFallsBack(t *testing.T) {
	for _, size := range []int{0, -1} {
		r := NewRingBuffer(size)
		if r.Cap() != DefaultRingSize {
			t.Errorf("NewRingBuffer(%d).Cap() = %d, want %d", size, r.Cap(), DefaultRingSize)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewRingBuffer(8)
	r.Push(Event{Kind: KindHydrateComplete, ItemID: "r1"})

	snap := r.Snapshot()
	snap[0].ItemID = "mangled"

	if got := r.Snapshot()[0].ItemID; got != "r1" {
		t.Errorf("mutating a snapshot changed the buffer: ItemID = %s", got)
	}
}

// The overlay reads while the engine's goroutines push; the race detector
// covers the locking.
func TestConcurrentPushAndRead(t *testing.T) {
	r := NewRingBuffer(128)
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.Push(hydrateEvent(i))
			}
		}()
	}
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = r.Snapshot()
				_ = r.Last(20)
				_ = r.Stats()
			}
		}()
	}
	wg.Wait()

	if r.Len() != 128 {
		t.Errorf("Len() = %d, want 128 after overflow", r.Len())
	}
}

func TestLoggerFeedsRing(t *testing.T) {
	r := NewRingBuffer(16)
	l := NewNullLogger()
	l.SetRingBuffer(r)

	l.Emit(Event{Kind: KindFetchStart, Comp: "prefetch"})
	l.Emit(Event{Kind: KindFetchComplete, Comp: "prefetch", Count: 4})
	l.Close() // waits for the drain goroutine

	if r.Len() != 2 {
		t.Fatalf("ring holds %d events, want 2", r.Len())
	}
	last := r.Last(2)
	if last[0].Kind != KindFetchStart || last[1].Kind != KindFetchComplete {
		t.Errorf("events out of order: %s, %s", last[0].Kind, last[1].Kind)
	}
	if last[0].SessionID == "" {
		t.Error("ring events missing the session id set at emit time")
	}
}
