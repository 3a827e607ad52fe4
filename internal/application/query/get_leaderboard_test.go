package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/internal/infrastructure/persistence/memory"
)

func seedTotals(t *testing.T, store *memory.Store) {
	t.Helper()
	at := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	seedLedgerEntry(t, store, "a1", "alice", 60, at)
	seedLedgerEntry(t, store, "a2", "alice", 40, at.Add(time.Hour))
	seedLedgerEntry(t, store, "b1", "bob", 70, at)
	seedLedgerEntry(t, store, "c1", "carol", 70, at)
}

func TestGetLeaderboard_RanksFromLedger(t *testing.T) {
	store := memory.NewStore()
	seedTotals(t, store)

	handler := NewGetLeaderboardHandler(store.Ledger(), nil, nil)
	res, err := handler.Handle(context.Background(), GetLeaderboardQuery{})
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, LeaderboardEntryDTO{Rank: 1, MemberID: "alice", Points: 100}, res.Entries[0])
	// Ties break on member ID for a stable ordering.
	assert.Equal(t, LeaderboardEntryDTO{Rank: 2, MemberID: "bob", Points: 70}, res.Entries[1])
	assert.Equal(t, LeaderboardEntryDTO{Rank: 3, MemberID: "carol", Points: 70}, res.Entries[2])
}

func TestGetLeaderboard_Limit(t *testing.T) {
	store := memory.NewStore()
	seedTotals(t, store)

	handler := NewGetLeaderboardHandler(store.Ledger(), nil, nil)
	res, err := handler.Handle(context.Background(), GetLeaderboardQuery{Limit: 2})
	require.NoError(t, err)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, "alice", res.Entries[0].MemberID)
	assert.Equal(t, "bob", res.Entries[1].MemberID)

	_, err = handler.Handle(context.Background(), GetLeaderboardQuery{Limit: -1})
	assert.Error(t, err)
}

// recordingLeaderboardCache is a test double tracking cache traffic.
type recordingLeaderboardCache struct {
	rows     []ledger.TotalRow
	rebuilds int
}

func (c *recordingLeaderboardCache) Top(_ context.Context, limit int) ([]ledger.TotalRow, error) {
	if c.rows == nil {
		return nil, shared.ErrNotFound
	}
	if len(c.rows) > limit {
		return c.rows[:limit], nil
	}
	return c.rows, nil
}

func (c *recordingLeaderboardCache) Rebuild(_ context.Context, rows []ledger.TotalRow) error {
	c.rebuilds++
	c.rows = rows
	return nil
}

func (c *recordingLeaderboardCache) Invalidate(_ context.Context) error {
	c.rows = nil
	return nil
}

func TestGetLeaderboard_CacheMissRebuildsThenServes(t *testing.T) {
	store := memory.NewStore()
	seedTotals(t, store)
	cache := &recordingLeaderboardCache{}

	handler := NewGetLeaderboardHandler(store.Ledger(), cache, nil)
	ctx := context.Background()

	first, err := handler.Handle(ctx, GetLeaderboardQuery{})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, cache.rebuilds)

	second, err := handler.Handle(ctx, GetLeaderboardQuery{})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, 1, cache.rebuilds)
}
