package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/gen"
)

func TestCuratedBatchesInOrder(t *testing.T) {
	c := NewCurated()
	ctx := context.Background()

	first, err := c.FetchBatch(ctx, 4)
	if err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("first batch: %d items, want 4", len(first))
	}

	second, err := c.FetchBatch(ctx, 4)
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}

	// No overlap between consecutive batches
	seen := map[string]bool{}
	for _, it := range first {
		seen[it.ID] = true
	}
	for _, it := range second {
		if seen[it.ID] {
			t.Errorf("id %q served twice", it.ID)
		}
	}
}

func TestCuratedExhaustion(t *testing.T) {
	c := NewCurated()
	ctx := context.Background()

	total := 0
	var last error
	for i := 0; i < 100; i++ {
		items, err := c.FetchBatch(ctx, 5)
		total += len(items)
		if err != nil {
			last = err
			break
		}
	}

	if !errors.Is(last, ErrNoMore) {
		t.Fatalf("expected ErrNoMore, got %v", last)
	}
	if total != len(curatedBank) {
		t.Errorf("served %d items, bank has %d", total, len(curatedBank))
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", c.Remaining())
	}

	// Exhaustion is sticky
	items, err := c.FetchBatch(ctx, 5)
	if len(items) != 0 || !errors.Is(err, ErrNoMore) {
		t.Errorf("post-exhaustion fetch: %d items, err %v", len(items), err)
	}
}

func TestCuratedStableIDs(t *testing.T) {
	a := NewCurated()
	b := NewCurated()
	ctx := context.Background()

	batchA, _ := a.FetchBatch(ctx, 3)
	batchB, _ := b.FetchBatch(ctx, 3)
	for i := range batchA {
		if batchA[i].ID != batchB[i].ID {
			t.Errorf("position %d: ids differ across sessions: %q vs %q", i, batchA[i].ID, batchB[i].ID)
		}
	}
}

func TestCuratedDeepDive(t *testing.T) {
	c := NewCurated()
	ctx := context.Background()

	// Find a bank entry that carries full text
	var withFull, withoutFull feed.Item
	items, _ := c.FetchBatch(ctx, len(curatedBank))
	for _, it := range items {
		if it.Hydrated() && withFull.ID == "" {
			withFull = it
		}
		if !it.Hydrated() && withoutFull.ID == "" {
			withoutFull = it
		}
	}
	if withFull.ID == "" || withoutFull.ID == "" {
		t.Fatal("bank should contain both hydrated and teaser-only entries")
	}

	full, err := c.DeepDive(ctx, withFull)
	if err != nil {
		t.Fatalf("DeepDive on full entry: %v", err)
	}
	if full != withFull.Full {
		t.Error("DeepDive returned different text than the bank entry")
	}

	if _, err := c.DeepDive(ctx, withoutFull); !errors.Is(err, ErrNoMore) {
		t.Errorf("DeepDive on teaser-only entry: err = %v, want ErrNoMore", err)
	}
}

// countingProvider returns canned teasers and counts calls.
type countingProvider struct {
	calls   int
	failAll bool
}

func (c *countingProvider) Name() string    { return "counting" }
func (c *countingProvider) Available() bool { return true }
func (c *countingProvider) Generate(ctx context.Context, req gen.Request) (gen.Response, error) {
	c.calls++
	if c.failAll {
		return gen.Response{}, fmt.Errorf("provider down")
	}
	return gen.Response{
		Content: fmt.Sprintf("Title: Reflection %d\nA generated body for call %d.", c.calls, c.calls),
		Model:   "test",
	}, nil
}

func newTestPicker(p gen.Provider) *gen.Picker {
	pk := gen.NewPicker()
	pk.Add(p)
	return pk
}

func TestGeneratedBatch(t *testing.T) {
	prov := &countingProvider{}
	g := NewGenerated(newTestPicker(prov), nil)

	items, err := g.FetchBatch(context.Background(), 4)
	if err != nil {
		t.Fatalf("FetchBatch: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	for _, it := range items {
		if it.ID == "" || it.Title == "" || it.Short == "" {
			t.Errorf("incomplete item: %+v", it)
		}
		if it.Origin != "counting" {
			t.Errorf("origin = %q, want counting", it.Origin)
		}
	}
}

func TestGeneratedAllFail(t *testing.T) {
	prov := &countingProvider{failAll: true}
	g := NewGenerated(newTestPicker(prov), nil)

	items, err := g.FetchBatch(context.Background(), 3)
	if err == nil {
		t.Error("expected error when every generation fails")
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestLayeredFallsBackToCurated(t *testing.T) {
	// No generated backend at all
	l := NewLayered(nil, NewCurated())

	items, err := l.FetchBatch(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchBatch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Origin != "curated" {
		t.Errorf("origin = %q, want curated", items[0].Origin)
	}
}
