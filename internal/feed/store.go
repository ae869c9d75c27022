package feed

import "sync"

// Store is the single source of truth for the session's feed: an ordered,
// deduplicated, append-only item sequence plus per-item mutable fields.
// NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex,
// though writers are expected to already be serialized by the prefetch
// single-flight guard.
type Store struct {
	mu      sync.RWMutex
	items   []Item
	index   map[string]int // item ID -> position in items
	hasMore bool
}

// NewStore creates an empty feed store. hasMore starts true: exhaustion is
// only ever set by an explicit signal, never inferred.
func NewStore() *Store {
	return &Store{
		index:   make(map[string]int),
		hasMore: true,
	}
}

// AppendBatch appends items whose IDs are not already present, preserving
// the order given, and returns the count actually appended. A batch of
// already-seen IDs is a valid no-op, not an error: adjacent fetches may
// overlap in content.
func (s *Store) AppendBatch(batch []Item) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, it := range batch {
		if it.ID == "" {
			continue
		}
		if _, seen := s.index[it.ID]; seen {
			continue
		}
		s.index[it.ID] = len(s.items)
		s.items = append(s.items, it)
		added++
	}
	return added
}

// UpdateItem merges patch fields into the item with the given ID.
// Returns false (a no-op) if the ID is unknown, keeping the contract total.
func (s *Store) UpdateItem(id string, p Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return false
	}
	if p.Full != nil {
		s.items[pos].Full = *p.Full
	}
	if p.ReadAt != nil && s.items[pos].ReadAt.IsZero() {
		// readAt is set once, never cleared
		s.items[pos].ReadAt = *p.ReadAt
	}
	return true
}

// MarkExhausted records that the source has no more content. Idempotent.
func (s *Store) MarkExhausted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasMore = false
}

// HasMore reports whether more content may still be fetched.
func (s *Store) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasMore
}

// Find returns the item with the given ID, if present.
func (s *Store) Find(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return Item{}, false
	}
	return s.items[pos], true
}

// Items returns a copy of the feed in display order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items loaded so far.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
