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

func seedLedgerEntry(t *testing.T, store *memory.Store, id, memberID string, points int, at time.Time) {
	t.Helper()
	entry, err := ledger.NewEntry(id, memberID, points, ledger.SourceObjective, "obj-1", "completed objective", at)
	require.NoError(t, err)
	require.NoError(t, store.Ledger().Append(context.Background(), entry))
}

func TestComputeStats_CalendarWindows(t *testing.T) {
	store := memory.NewStore()
	// Reference instant: Tuesday 2026-03-10. The containing week starts
	// Sunday 2026-03-08.
	asOf := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	seedLedgerEntry(t, store, "l0", "m1", 40, time.Date(2025, time.December, 20, 10, 0, 0, 0, time.UTC))
	seedLedgerEntry(t, store, "l1", "m1", 10, time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC))
	seedLedgerEntry(t, store, "l2", "m1", 20, time.Date(2026, time.February, 10, 10, 0, 0, 0, time.UTC))
	seedLedgerEntry(t, store, "l3", "m1", 30, time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC))
	seedLedgerEntry(t, store, "l4", "m1", 50, time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC))
	// After the reference instant: invisible to this query.
	seedLedgerEntry(t, store, "l5", "m1", 70, time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC))
	// Another member's points never leak in.
	seedLedgerEntry(t, store, "l6", "m2", 999, time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC))

	handler := NewComputeStatsHandler(store.Ledger(), nil, nil)
	summary, err := handler.Handle(context.Background(), ComputeStatsQuery{MemberID: "m1", AsOf: asOf})
	require.NoError(t, err)

	assert.Equal(t, "m1", summary.MemberID)
	// Lifetime total includes the prior-year entry.
	assert.Equal(t, 150, summary.Total)
	assert.Equal(t, 110, summary.ThisYear)
	assert.Equal(t, 80, summary.ThisMonth)
	assert.Equal(t, 50, summary.ThisWeek)

	assert.Equal(t, map[string]int{"W2": 10, "W7": 20, "W10": 30, "W11": 50}, summary.WeeklyBuckets)
	assert.Equal(t, map[string]int{"Jan": 10, "Feb": 20, "Mar": 80}, summary.MonthlyBuckets)
}

func TestComputeStats_NoEntries(t *testing.T) {
	store := memory.NewStore()
	handler := NewComputeStatsHandler(store.Ledger(), nil, nil)

	summary, err := handler.Handle(context.Background(), ComputeStatsQuery{MemberID: "m-new"})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.ThisWeek)
	assert.Equal(t, 0, summary.ThisMonth)
	assert.Equal(t, 0, summary.ThisYear)
	assert.Empty(t, summary.WeeklyBuckets)
	assert.Empty(t, summary.MonthlyBuckets)
}

func TestComputeStats_RequiresMember(t *testing.T) {
	store := memory.NewStore()
	handler := NewComputeStatsHandler(store.Ledger(), nil, nil)

	_, err := handler.Handle(context.Background(), ComputeStatsQuery{})
	assert.Error(t, err)
}

// recordingStatsCache is a test double tracking cache traffic.
type recordingStatsCache struct {
	stored *ledger.StatsSummary
	gets   int
	sets   int
}

func (c *recordingStatsCache) Get(_ context.Context, memberID string) (*ledger.StatsSummary, error) {
	c.gets++
	if c.stored != nil && c.stored.MemberID == memberID {
		return c.stored, nil
	}
	return nil, shared.ErrNotFound
}

func (c *recordingStatsCache) Set(_ context.Context, summary *ledger.StatsSummary) error {
	c.sets++
	c.stored = summary
	return nil
}

func (c *recordingStatsCache) Invalidate(_ context.Context, memberID string) error {
	if c.stored != nil && c.stored.MemberID == memberID {
		c.stored = nil
	}
	return nil
}

func TestComputeStats_LiveViewUsesCache(t *testing.T) {
	store := memory.NewStore()
	seedLedgerEntry(t, store, "l1", "m1", 25, time.Now().UTC().Add(-time.Hour))

	cache := &recordingStatsCache{}
	handler := NewComputeStatsHandler(store.Ledger(), cache, nil)
	ctx := context.Background()

	first, err := handler.Handle(ctx, ComputeStatsQuery{MemberID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, 25, first.Total)
	assert.Equal(t, 1, cache.sets)

	// Second live read is served from the cache.
	second, err := handler.Handle(ctx, ComputeStatsQuery{MemberID: "m1"})
	require.NoError(t, err)
	assert.Same(t, cache.stored, second)
	assert.Equal(t, 1, cache.sets)
}

func TestComputeStats_HistoricalAsOfBypassesCache(t *testing.T) {
	store := memory.NewStore()
	at := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)
	seedLedgerEntry(t, store, "l1", "m1", 25, at)

	cache := &recordingStatsCache{}
	handler := NewComputeStatsHandler(store.Ledger(), cache, nil)

	summary, err := handler.Handle(context.Background(), ComputeStatsQuery{
		MemberID: "m1",
		AsOf:     at.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, 25, summary.Total)
	assert.Equal(t, 0, cache.gets)
	assert.Equal(t, 0, cache.sets)
}
