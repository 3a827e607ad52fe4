package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrLeaderboardEmpty is returned when the cached leaderboard has no entries.
	ErrLeaderboardEmpty = errors.New("leaderboard_cache: leaderboard is empty")

	// ErrMemberNotInLeaderboard is returned when a member is not in the cached set.
	ErrMemberNotInLeaderboard = errors.New("leaderboard_cache: member not in leaderboard")
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache keeps per-member point totals in a Redis sorted set
// so top-N and rank lookups avoid a full ledger scan.
//
// Architecture:
//   - Sorted set "leaderboard:points" stores memberID -> total points
//   - The whole set carries a TTL; after expiry the next read rebuilds it
//     from the ledger, which stays the single source of truth.
//
// This design allows O(log N) rank lookups and O(log N + M) range queries.
type LeaderboardCache struct {
	cache *Cache
	ttl   time.Duration
}

// keyLeaderboardPoints is the sorted set for point rankings.
const keyLeaderboardPoints = "leaderboard:points"

// NewLeaderboardCache creates a new LeaderboardCache. A non-positive ttl
// falls back to TTLLeaderboardCache.
func NewLeaderboardCache(cache *Cache, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = TTLLeaderboardCache
	}
	return &LeaderboardCache{cache: cache, ttl: ttl}
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Rebuild replaces the cached leaderboard with fresh totals from the ledger.
func (l *LeaderboardCache) Rebuild(ctx context.Context, totals []ledger.TotalRow) error {
	pipe := l.cache.Client().Pipeline()

	pipe.Del(ctx, keyLeaderboardPoints)
	for _, row := range totals {
		pipe.ZAdd(ctx, keyLeaderboardPoints, redis.Z{
			Score:  float64(row.Total),
			Member: row.MemberID,
		})
	}
	pipe.Expire(ctx, keyLeaderboardPoints, l.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// AddPoints bumps a member's cached total by delta. No-op if the set has
// expired; the next Top call rebuilds it.
func (l *LeaderboardCache) AddPoints(ctx context.Context, memberID string, delta int) error {
	exists, err := l.cache.Exists(ctx, keyLeaderboardPoints)
	if err != nil || !exists {
		return err
	}
	return l.cache.Client().ZIncrBy(ctx, keyLeaderboardPoints, float64(delta), memberID).Err()
}

// Invalidate drops the cached leaderboard entirely.
func (l *LeaderboardCache) Invalidate(ctx context.Context) error {
	return l.cache.Delete(ctx, keyLeaderboardPoints)
}

// ══════════════════════════════════════════════════════════════════════════════
// READ OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Top returns the highest-scoring members, best first.
// Returns ErrCacheMiss when the set is absent or expired.
func (l *LeaderboardCache) Top(ctx context.Context, limit int) ([]ledger.TotalRow, error) {
	if limit <= 0 {
		limit = 10
	}

	exists, err := l.cache.Exists(ctx, keyLeaderboardPoints)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCacheMiss
	}

	zs, err := l.cache.Client().ZRevRangeWithScores(ctx, keyLeaderboardPoints, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(zs) == 0 {
		return nil, ErrLeaderboardEmpty
	}

	rows := make([]ledger.TotalRow, 0, len(zs))
	for _, z := range zs {
		memberID, ok := z.Member.(string)
		if !ok {
			continue
		}
		rows = append(rows, ledger.TotalRow{
			MemberID: memberID,
			Total:    int(z.Score),
		})
	}
	return rows, nil
}

// Rank returns a member's 1-based rank in the cached leaderboard.
func (l *LeaderboardCache) Rank(ctx context.Context, memberID string) (int64, error) {
	rank, err := l.cache.Client().ZRevRank(ctx, keyLeaderboardPoints, memberID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrMemberNotInLeaderboard
		}
		return 0, err
	}
	return rank + 1, nil
}
