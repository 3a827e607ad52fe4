package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/progress"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

func newAssignedRecord(t *testing.T, store *Store) *progress.Record {
	t.Helper()
	rec, err := progress.NewRecord("rec-1", "m1", "obj-1", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, store.Progress().Create(context.Background(), rec))
	return rec
}

func TestProgressRepository_CreateRejectsDuplicatePair(t *testing.T) {
	store := NewStore()
	newAssignedRecord(t, store)

	dup, err := progress.NewRecord("rec-2", "m1", "obj-1", time.Now().UTC())
	require.NoError(t, err)
	err = store.Progress().Create(context.Background(), dup)
	assert.ErrorIs(t, err, shared.ErrAlreadyAssigned)
}

func TestProgressRepository_UpdateBumpsVersion(t *testing.T) {
	store := NewStore()
	rec := newAssignedRecord(t, store)
	ctx := context.Background()

	rec.CurrentCount = 3
	require.NoError(t, store.Progress().Update(ctx, rec, nil))
	assert.Equal(t, 2, rec.Version)

	stored, err := store.Progress().Get(ctx, "m1", "obj-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CurrentCount)
	assert.Equal(t, 2, stored.Version)
}

func TestProgressRepository_StaleVersionConflicts(t *testing.T) {
	store := NewStore()
	newAssignedRecord(t, store)
	ctx := context.Background()

	// Two readers load the same version; the second writer is stale.
	first, err := store.Progress().Get(ctx, "m1", "obj-1")
	require.NoError(t, err)
	second, err := store.Progress().Get(ctx, "m1", "obj-1")
	require.NoError(t, err)

	first.CurrentCount = 2
	require.NoError(t, store.Progress().Update(ctx, first, nil))

	second.CurrentCount = 4
	err = store.Progress().Update(ctx, second, nil)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	stored, err := store.Progress().Get(ctx, "m1", "obj-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CurrentCount)
}

func TestProgressRepository_CompletedRecordRefusesWrites(t *testing.T) {
	store := NewStore()
	rec := newAssignedRecord(t, store)
	ctx := context.Background()
	now := time.Now().UTC()

	rec.CurrentCount = 5
	rec.IsCompleted = true
	rec.CompletedAt = &now
	entry, err := ledger.NewEntry("led-1", "m1", 100, ledger.SourceObjective, "obj-1", "completed objective", now)
	require.NoError(t, err)
	require.NoError(t, store.Progress().CompleteAndAward(ctx, rec, entry, nil))

	total, err := store.Ledger().Total(ctx, "m1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 100, total)

	// The latch holds even with the now-current version.
	rec.CurrentCount = 7
	err = store.Progress().Update(ctx, rec, nil)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	total, err = store.Ledger().Total(ctx, "m1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 100, total)
}

func TestProgressRepository_WritesAuditEvents(t *testing.T) {
	store := NewStore()
	rec := newAssignedRecord(t, store)
	ctx := context.Background()

	old := rec.CurrentCount
	rec.CurrentCount = 2
	event := progress.NewEvent("evt-1", rec, old, time.Now().UTC())
	require.NoError(t, store.Progress().Update(ctx, rec, event))

	events := store.ProgressEvents()
	require.Len(t, events, 1)
	assert.Equal(t, 0, events[0].OldCount)
	assert.Equal(t, 2, events[0].NewCount)
}

func TestProgressRepository_DeleteRemovesPair(t *testing.T) {
	store := NewStore()
	newAssignedRecord(t, store)
	ctx := context.Background()

	require.NoError(t, store.Progress().Delete(ctx, "m1", "obj-1"))
	_, err := store.Progress().Get(ctx, "m1", "obj-1")
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)

	err = store.Progress().Delete(ctx, "m1", "obj-1")
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)
}
