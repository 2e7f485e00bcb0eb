package gql

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/app"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// Loader memoizes lookups for the life of one GraphQL request. A list
// resolver warms the page's keys with LoadMany (one batch call); item
// resolvers then hit the memo with Load. BatchCalls counts invocations of
// the underlying batch function, which tests assert on.
type Loader[V any] struct {
	mu    sync.Mutex
	cache map[string]V
	batch func(keys []string) map[string]V

	BatchCalls int
}

// NewLoader wraps a batch function.
func NewLoader[V any](batch func(keys []string) map[string]V) *Loader[V] {
	return &Loader[V]{cache: map[string]V{}, batch: batch}
}

// Load returns the value for one key, batching a single-key lookup on miss.
func (l *Loader[V]) Load(key string) (V, bool) {
	res := l.LoadMany([]string{key})
	v, ok := res[key]
	return v, ok
}

// LoadMany resolves all missing keys in one batch call and returns the full
// key->value map for the requested keys.
func (l *Loader[V]) LoadMany(keys []string) map[string]V {
	l.mu.Lock()
	defer l.mu.Unlock()

	var misses []string
	for _, k := range keys {
		if _, ok := l.cache[k]; !ok {
			misses = append(misses, k)
		}
	}
	if len(misses) > 0 {
		l.BatchCalls++
		for k, v := range l.batch(misses) {
			l.cache[k] = v
		}
	}
	out := make(map[string]V, len(keys))
	for _, k := range keys {
		if v, ok := l.cache[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Loaders is the per-request loader set. It never outlives a request.
type Loaders struct {
	RequestID  string
	Scorecards *Loader[*graph.Scorecard]
	Moneyball  *Loader[*graph.MoneyballProfile]
	Bills      *Loader[*graph.Bill]
	Members    *Loader[*graph.Member]
}

// NewLoaders builds a fresh loader set over the application's current
// snapshot.
func NewLoaders(a *app.Application) *Loaders {
	g := a.Graph()
	cards := a.Scorecards()
	profiles := a.Moneyball()

	return &Loaders{
		RequestID: uuid.NewString(),
		Scorecards: NewLoader(func(keys []string) map[string]*graph.Scorecard {
			out := make(map[string]*graph.Scorecard, len(keys))
			for _, k := range keys {
				if c, ok := cards[k]; ok {
					out[k] = c
				}
			}
			return out
		}),
		Moneyball: NewLoader(func(keys []string) map[string]*graph.MoneyballProfile {
			out := make(map[string]*graph.MoneyballProfile, len(keys))
			for _, k := range keys {
				if p, ok := profiles[k]; ok {
					out[k] = p
				}
			}
			return out
		}),
		Bills: NewLoader(func(keys []string) map[string]*graph.Bill {
			out := make(map[string]*graph.Bill, len(keys))
			for _, k := range keys {
				if b, ok := g.Bills[k]; ok {
					out[k] = b
				}
			}
			return out
		}),
		Members: NewLoader(func(keys []string) map[string]*graph.Member {
			out := make(map[string]*graph.Member, len(keys))
			for _, k := range keys {
				if m, ok := g.MembersByID[k]; ok {
					out[k] = m
				}
			}
			return out
		}),
	}
}

type loadersKey struct{}

// WithLoaders stashes a request's loaders in its context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey{}, l)
}

// LoadersFrom retrieves the request's loaders. Resolvers must go through
// these rather than the global graph so repeated lookups coalesce.
func LoadersFrom(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey{}).(*Loaders)
	return l
}
