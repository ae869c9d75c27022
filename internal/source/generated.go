package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tadabbur/tadabbur/internal/feed"
	"github.com/tadabbur/tadabbur/internal/gen"
	"github.com/tadabbur/tadabbur/internal/logging"
	"github.com/tadabbur/tadabbur/internal/otel"
)

// maxConcurrentGen limits parallel generation calls within one batch.
const maxConcurrentGen = 3

// genRate paces provider calls so a fast scroll can't hammer the API.
var genRate = rate.Limit(2) // calls per second, burst below

// Generated produces reflections through an AI provider, one generation
// call per item, kinds rotated for variety. A generated source never
// exhausts: ErrNoMore is never returned.
type Generated struct {
	picker  *gen.Picker
	limiter *rate.Limiter
	log     *otel.Logger

	mu       sync.Mutex
	kindNext int // rotation position into feed.Kinds
}

// NewGenerated creates a provider-backed source.
func NewGenerated(picker *gen.Picker, log *otel.Logger) *Generated {
	if log == nil {
		log = otel.NewNullLogger()
	}
	return &Generated{
		picker:  picker,
		limiter: rate.NewLimiter(genRate, maxConcurrentGen),
		log:     log,
	}
}

// Ready reports whether any provider is currently available.
func (g *Generated) Ready() bool {
	return g.picker.Pick() != nil
}

// nextKinds reserves the next n kinds in rotation.
func (g *Generated) nextKinds(n int) []feed.Kind {
	g.mu.Lock()
	defer g.mu.Unlock()

	kinds := make([]feed.Kind, n)
	for i := range kinds {
		kinds[i] = feed.Kinds[g.kindNext%len(feed.Kinds)]
		g.kindNext++
	}
	return kinds
}

// FetchBatch generates up to count teasers in parallel. Individual
// generation failures are skipped: a short or empty batch is a valid
// result. An error is returned only when every item failed.
func (g *Generated) FetchBatch(ctx context.Context, count int) ([]feed.Item, error) {
	prov := g.picker.Pick()
	if prov == nil {
		return nil, fmt.Errorf("no generation provider available")
	}

	kinds := g.nextKinds(count)

	var (
		mu       sync.Mutex
		items    []feed.Item
		firstErr error
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentGen)

	for _, kind := range kinds {
		eg.Go(func() error {
			item, err := g.generateOne(ctx, prov, kind)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return nil // never fail the group - partial batches are fine
			}
			items = append(items, item)
			return nil
		})
	}
	_ = eg.Wait()

	if len(items) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return items, nil
}

func (g *Generated) generateOne(ctx context.Context, prov gen.Provider, kind feed.Kind) (feed.Item, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return feed.Item{}, err
	}

	resp, err := prov.Generate(ctx, gen.TeaserRequest(kind))
	if err != nil {
		g.log.Emit(otel.Event{Kind: otel.KindGenError, Level: otel.LevelWarn, Comp: "source", Origin: prov.Name(), Err: err.Error()})
		return feed.Item{}, err
	}

	title, body, err := gen.ParseTeaser(resp.Content)
	if err != nil {
		g.log.Emit(otel.Event{Kind: otel.KindGenError, Level: otel.LevelWarn, Comp: "source", Origin: prov.Name(), Err: err.Error()})
		return feed.Item{}, err
	}

	return feed.Item{
		ID:      feed.HashID(string(kind), title, body),
		Kind:    kind,
		Title:   title,
		Short:   body,
		Origin:  prov.Name(),
		Fetched: time.Now(),
	}, nil
}

// DeepDive expands one teaser into a full essay.
func (g *Generated) DeepDive(ctx context.Context, item feed.Item) (string, error) {
	prov := g.picker.Pick()
	if prov == nil {
		return "", fmt.Errorf("no generation provider available")
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := prov.Generate(ctx, gen.EssayRequest(item.Kind, item.Title, item.Short))
	if err != nil {
		logging.Warn("deep dive generation failed", "item", item.ID, "provider", prov.Name(), "err", err)
		return "", err
	}
	return resp.Content, nil
}
