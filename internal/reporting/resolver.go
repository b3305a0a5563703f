// Package reporting computes the cash-flow closes: it resolves configuration names,
// aggregates payments per currency, composes the nested totals report and persists
// snapshots of it.
package reporting

import (
	"context"
	"log/slog"

	"github.com/patrickmn/go-cache"
	"github.com/realestate-cashflow/internal/domain/lookup"
)

// NewLookupCache returns a cache that never expires entries and runs no janitor.
// Configuration rows are immutable for the life of a deployment.
func NewLookupCache() *cache.Cache {
	return cache.New(cache.NoExpiration, 0)
}

// LookupResolver memoizes name to id lookups. Concurrent first lookups of the same
// name may both hit the repository; the result is the same either way.
type LookupResolver struct {
	repo   lookup.Repository
	cache  *cache.Cache
	logger *slog.Logger
}

// NewLookupResolver wires a resolver over repo. A nil cache gets a private one.
func NewLookupResolver(logger *slog.Logger, repo lookup.Repository, c *cache.Cache) *LookupResolver {
	if c == nil {
		c = NewLookupCache()
	}
	return &LookupResolver{
		repo:   repo,
		cache:  c,
		logger: logger.With("component", "lookup_resolver"),
	}
}

// ResolveTransactionTypeID returns the id of a transaction type by exact name
func (r *LookupResolver) ResolveTransactionTypeID(ctx context.Context, name string) (int64, error) {
	return r.resolve(ctx, lookup.KindTransactionType, name, r.repo.TransactionTypeIDByName)
}

// ResolveEntityID returns the id of a source entity by exact name
func (r *LookupResolver) ResolveEntityID(ctx context.Context, name string) (int64, error) {
	return r.resolve(ctx, lookup.KindSourceEntity, name, r.repo.SourceEntityIDByName)
}

func (r *LookupResolver) resolve(ctx context.Context, kind lookup.Kind, name string, load func(context.Context, string) (int64, error)) (int64, error) {
	key := cacheKey(kind, name)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(int64), nil
	}

	// Misses, including not-found, are never cached
	id, err := load(ctx, name)
	if err != nil {
		return 0, err
	}

	r.cache.Set(key, id, cache.NoExpiration)
	r.logger.Debug("lookup resolved", "kind", kind, "name", name, "id", id)

	return id, nil
}

func cacheKey(kind lookup.Kind, name string) string {
	return string(kind) + ":" + name
}
