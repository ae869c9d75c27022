package source

import (
	"context"

	"github.com/tadabbur/tadabbur/internal/feed"
)

// Layered prefers the generated source and falls back to the curated bank
// when no provider is available or a deep dive fails. This keeps the feed
// alive offline and keeps generation failures invisible to the reader.
type Layered struct {
	generated *Generated // nil when no providers configured
	curated   *Curated
}

// NewLayered composes the two backends. generated may be nil.
func NewLayered(generated *Generated, curated *Curated) *Layered {
	return &Layered{generated: generated, curated: curated}
}

// FetchBatch serves from the generated source when a provider is ready,
// otherwise from the curated bank.
func (l *Layered) FetchBatch(ctx context.Context, count int) ([]feed.Item, error) {
	if l.generated != nil && l.generated.Ready() {
		return l.generated.FetchBatch(ctx, count)
	}
	return l.curated.FetchBatch(ctx, count)
}

// DeepDive tries generation first, then the curated full text.
func (l *Layered) DeepDive(ctx context.Context, item feed.Item) (string, error) {
	if l.generated != nil && l.generated.Ready() {
		if full, err := l.generated.DeepDive(ctx, item); err == nil {
			return full, nil
		}
	}
	return l.curated.DeepDive(ctx, item)
}

var _ Source = (*Layered)(nil)
var _ Source = (*Curated)(nil)
var _ Source = (*Generated)(nil)
