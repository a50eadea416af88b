package facts

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Provider is the contract of the external data-fetch collaborator: given a
// question, return the raw fact set the engine may cite. Implementations must
// respect the context deadline.
type Provider interface {
	Fetch(ctx context.Context, question string) (FactSet, error)
}

// Static serves a fixed fact set regardless of the question. Useful for the
// CLI (facts from a file) and for tests.
type Static struct {
	Set FactSet
}

func (s Static) Fetch(_ context.Context, _ string) (FactSet, error) {
	return s.Set, nil
}

// Cached decorates a Provider with an in-memory 2Q LRU keyed by question.
// Caching lives here, outside the per-request engine core, which never keeps
// cross-request state.
type Cached struct {
	inner Provider
	cache *lru.TwoQueueCache[string, FactSet]
}

// NewCached wraps inner with a cache of at most size entries.
func NewCached(inner Provider, size int) (*Cached, error) {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New2Q[string, FactSet](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: c}, nil
}

func (c *Cached) Fetch(ctx context.Context, question string) (FactSet, error) {
	if fs, ok := c.cache.Get(question); ok {
		return fs, nil
	}
	fs, err := c.inner.Fetch(ctx, question)
	if err != nil {
		return FactSet{}, err
	}
	c.cache.Add(question, fs)
	return fs, nil
}
