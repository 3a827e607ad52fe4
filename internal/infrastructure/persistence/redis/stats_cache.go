package redis

import (
	"context"
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
)

// StatsCache implements ledger.StatsCache using the generic Redis Cache.
// Summaries expire on their own TTL and are invalidated on every award,
// so a read never serves a total the ledger disagrees with for long.
type StatsCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewStatsCache creates a new StatsCache. A non-positive ttl falls back
// to TTLStatsCache.
func NewStatsCache(cache *Cache, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = TTLStatsCache
	}
	return &StatsCache{
		cache: cache,
		ttl:   ttl,
	}
}

// Get returns a member's cached stats summary.
// Returns ErrCacheMiss if not cached.
func (s *StatsCache) Get(ctx context.Context, memberID string) (*ledger.StatsSummary, error) {
	var summary ledger.StatsSummary
	if err := s.cache.Get(ctx, StatsKey(memberID), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Set caches a member's stats summary.
func (s *StatsCache) Set(ctx context.Context, summary *ledger.StatsSummary) error {
	if summary == nil {
		return nil
	}
	return s.cache.Set(ctx, StatsKey(summary.MemberID), summary, s.ttl)
}

// Invalidate drops all cached values for a member. Called after each
// point award so the next read recomputes from the ledger.
func (s *StatsCache) Invalidate(ctx context.Context, memberID string) error {
	return s.cache.Delete(ctx, StatsKey(memberID), TotalKey(memberID))
}

// InvalidateAll clears every cached stats summary and total.
func (s *StatsCache) InvalidateAll(ctx context.Context) error {
	if err := s.cache.DeleteByPattern(ctx, PrefixStats+"*"); err != nil {
		return err
	}
	return s.cache.DeleteByPattern(ctx, PrefixTotal+"*")
}
