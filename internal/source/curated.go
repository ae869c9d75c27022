package source

import (
	"context"
	"sync"
	"time"

	"github.com/tadabbur/tadabbur/internal/feed"
)

// entry is one curated reflection. Full may be empty (hydration needed,
// served by a generating source or left as teaser-only) or complete
// (short-form content that skips hydration).
type entry struct {
	kind  feed.Kind
	title string
	short string
	full  string
}

// Curated serves a fixed built-in bank of reflections in order. It is the
// offline fallback when no generation provider is configured, and the
// essay fallback when generation fails. Returns ErrNoMore once the bank
// is exhausted.
type Curated struct {
	mu     sync.Mutex
	bank   []entry
	cursor int
}

// NewCurated creates a curated source over the built-in bank.
func NewCurated() *Curated {
	return &Curated{bank: curatedBank}
}

// FetchBatch returns the next count entries. The final batch may be short
// and carries ErrNoMore alongside its items.
func (c *Curated) FetchBatch(ctx context.Context, count int) ([]feed.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cursor >= len(c.bank) {
		return nil, ErrNoMore
	}

	end := c.cursor + count
	if end > len(c.bank) {
		end = len(c.bank)
	}

	now := time.Now()
	items := make([]feed.Item, 0, end-c.cursor)
	for _, e := range c.bank[c.cursor:end] {
		items = append(items, feed.Item{
			ID:      feed.HashID("curated", string(e.kind), e.title),
			Kind:    e.kind,
			Title:   e.title,
			Short:   e.short,
			Full:    e.full,
			Origin:  "curated",
			Fetched: now,
		})
	}
	c.cursor = end

	if c.cursor >= len(c.bank) {
		return items, ErrNoMore
	}
	return items, nil
}

// DeepDive returns the curated full text if this entry has one.
func (c *Curated) DeepDive(ctx context.Context, item feed.Item) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.bank {
		if feed.HashID("curated", string(e.kind), e.title) == item.ID && e.full != "" {
			return e.full, nil
		}
	}
	return "", ErrNoMore
}

// Remaining returns how many entries are left unserved.
func (c *Curated) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bank) - c.cursor
}
