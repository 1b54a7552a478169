package redis

import (
	"context"
	"time"
)

// DistributedLock is a best-effort lock over Redis SET NX. Good enough
// for serializing the follow-up sweep across worker replicas; not a
// consensus primitive.
type DistributedLock struct {
	cache *Cache
}

// NewDistributedLock creates a new DistributedLock.
func NewDistributedLock(cache *Cache) *DistributedLock {
	return &DistributedLock{cache: cache}
}

// Acquire takes the lock for a resource. Returns false when another
// holder already has it. A zero ttl falls back to TTLDistributedLock
// so a crashed holder cannot wedge the resource forever.
func (l *DistributedLock) Acquire(ctx context.Context, resource string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = TTLDistributedLock
	}
	return l.cache.SetNX(ctx, LockKey(resource), "1", ttl)
}

// Release frees the lock for a resource.
func (l *DistributedLock) Release(ctx context.Context, resource string) error {
	return l.cache.Delete(ctx, LockKey(resource))
}
