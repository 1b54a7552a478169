package redis

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/application/query"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// RecommendationCache caches mentor recommendation lists keyed by the
// requesting student's skill set. Ranking the whole mentor pool on every
// request is wasteful when students refresh the page.
type RecommendationCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewRecommendationCache creates a new RecommendationCache.
func NewRecommendationCache(cache *Cache) *RecommendationCache {
	return &RecommendationCache{
		cache: cache,
		ttl:   TTLRecommendationCache,
	}
}

// WithTTL overrides the default TTL.
func (r *RecommendationCache) WithTTL(ttl time.Duration) *RecommendationCache {
	r.ttl = ttl
	return r
}

// Get returns the cached recommendation list for a skill set.
// Returns ErrCacheMiss when no entry exists.
func (r *RecommendationCache) Get(ctx context.Context, skills shared.SkillSet) (*query.MentorRecommendationsDTO, error) {
	var recs query.MentorRecommendationsDTO
	key := RecommendationKey(SkillFingerprint(skills))
	if err := r.cache.Get(ctx, key, &recs); err != nil {
		return nil, err
	}
	return &recs, nil
}

// Set stores a recommendation list for a skill set.
func (r *RecommendationCache) Set(ctx context.Context, skills shared.SkillSet, recs *query.MentorRecommendationsDTO) error {
	if recs == nil {
		return nil
	}
	key := RecommendationKey(SkillFingerprint(skills))
	return r.cache.Set(ctx, key, recs, r.ttl)
}

// InvalidateAll clears every cached recommendation list.
// Called when profiles change (skills, availability) so stale rankings don't linger.
func (r *RecommendationCache) InvalidateAll(ctx context.Context) error {
	return r.cache.DeleteByPattern(ctx, PrefixRecommendation+"*")
}

// SkillFingerprint builds a deterministic cache key fragment from a skill set.
// Skills are already normalized to lowercase; sorting makes order irrelevant.
func SkillFingerprint(skills shared.SkillSet) string {
	values := skills.Strings()
	sort.Strings(values)
	return strings.Join(values, "|")
}
