// Package source supplies reflection content to the feed: batched teasers
// for the scroll and on-demand essay expansion for the reader.
package source

import (
	"context"
	"errors"

	"github.com/tadabbur/tadabbur/internal/feed"
)

// ErrNoMore is the explicit exhaustion signal: the source has permanently
// run out of content. A short or empty batch WITHOUT this error is a
// transient condition and must not be treated as exhaustion.
var ErrNoMore = errors.New("source: no more content")

// Source is the content collaborator for the feed engine.
type Source interface {
	// FetchBatch returns up to count items. A shorter or empty batch is a
	// valid result (partial failure); ErrNoMore signals permanent
	// exhaustion and may accompany a final partial batch.
	FetchBatch(ctx context.Context, count int) ([]feed.Item, error)

	// DeepDive expands one item's teaser into a full essay (markdown).
	DeepDive(ctx context.Context, item feed.Item) (string, error)
}
