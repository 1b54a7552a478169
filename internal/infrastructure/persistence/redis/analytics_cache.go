package redis

import (
	"context"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
)

// AnalyticsCache caches platform analytics snapshots.
// The dashboard aggregates run several repository scans; a short TTL keeps
// the numbers fresh enough without recomputing on every page load.
type AnalyticsCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewAnalyticsCache creates a new AnalyticsCache.
func NewAnalyticsCache(cache *Cache) *AnalyticsCache {
	return &AnalyticsCache{
		cache: cache,
		ttl:   TTLAnalyticsCache,
	}
}

// WithTTL overrides the default TTL.
func (a *AnalyticsCache) WithTTL(ttl time.Duration) *AnalyticsCache {
	a.ttl = ttl
	return a
}

// Get returns the cached analytics snapshot for a scope.
// Returns ErrCacheMiss when no snapshot exists.
func (a *AnalyticsCache) Get(ctx context.Context, scope string) (*engagement.PlatformAnalytics, error) {
	var snapshot engagement.PlatformAnalytics
	if err := a.cache.Get(ctx, AnalyticsKey(scope), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Set stores an analytics snapshot for a scope.
func (a *AnalyticsCache) Set(ctx context.Context, scope string, snapshot *engagement.PlatformAnalytics) error {
	if snapshot == nil {
		return nil
	}
	return a.cache.Set(ctx, AnalyticsKey(scope), snapshot, a.ttl)
}

// Invalidate removes a cached snapshot.
func (a *AnalyticsCache) Invalidate(ctx context.Context, scope string) error {
	return a.cache.Delete(ctx, AnalyticsKey(scope))
}
