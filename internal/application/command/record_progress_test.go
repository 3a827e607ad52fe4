package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/objective"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/progress"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/internal/infrastructure/persistence/memory"
)

func seedObjective(t *testing.T, store *memory.Store, targetCount, points int) *objective.Definition {
	t.Helper()
	now := time.Now().UTC()
	def := &objective.Definition{
		ID:          "obj-events",
		Title:       "Attend community events",
		ActionType:  "attendance",
		TargetCount: targetCount,
		Points:      points,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.Objectives().Create(context.Background(), def))
	return def
}

func seedAssignment(t *testing.T, store *memory.Store, memberID, objectiveID string) *progress.Record {
	t.Helper()
	rec, err := progress.NewRecord("rec-"+memberID, memberID, objectiveID, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, store.Progress().Create(context.Background(), rec))
	return rec
}

func newRecordProgressHandler(store *memory.Store) *RecordProgressHandler {
	return NewRecordProgressHandler(
		store.Objectives(),
		store.Progress(),
		nil,
		DefaultRecordProgressHandlerConfig(),
		nil,
	)
}

func memberTotal(t *testing.T, store *memory.Store, memberID string) int {
	t.Helper()
	total, err := store.Ledger().Total(context.Background(), memberID, time.Time{}, time.Time{})
	require.NoError(t, err)
	return total
}

func TestRecordProgress_AssignToCompletion(t *testing.T) {
	store := memory.NewStore()
	def := seedObjective(t, store, 5, 100)
	seedAssignment(t, store, "m1", def.ID)
	handler := newRecordProgressHandler(store)
	ctx := context.Background()

	// Partial progress: no award.
	res, err := handler.Handle(ctx, RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: 3})
	require.NoError(t, err)
	assert.Equal(t, progress.OutcomeUpdated, res.Outcome)
	assert.Equal(t, 3, res.Record.CurrentCount)
	assert.False(t, res.Record.IsCompleted)
	assert.Equal(t, 0, memberTotal(t, store, "m1"))

	// Reaching the target completes and awards exactly once.
	res, err = handler.Handle(ctx, RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: 5})
	require.NoError(t, err)
	assert.Equal(t, progress.OutcomeCompleted, res.Outcome)
	assert.True(t, res.Record.IsCompleted)
	assert.Equal(t, 100, res.AwardedPoints)
	require.NotNil(t, res.LedgerEntry)
	assert.Equal(t, ledger.SourceObjective, res.LedgerEntry.SourceType)
	assert.Equal(t, def.ID, res.LedgerEntry.SourceID)
	assert.Equal(t, 100, memberTotal(t, store, "m1"))
}

func TestRecordProgress_ResubmissionAfterCompletionIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	def := seedObjective(t, store, 5, 100)
	seedAssignment(t, store, "m1", def.ID)
	handler := newRecordProgressHandler(store)
	ctx := context.Background()

	_, err := handler.Handle(ctx, RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: 5})
	require.NoError(t, err)

	// Same count, higher count, lower count: all no-ops, no new entries.
	for _, count := range []int{5, 9, 2} {
		res, err := handler.Handle(ctx, RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: count})
		require.NoError(t, err)
		assert.Equal(t, progress.OutcomeNoChange, res.Outcome)
		assert.Equal(t, 0, res.AwardedPoints)
		assert.Nil(t, res.LedgerEntry)
	}

	history, err := store.Ledger().History(ctx, "m1", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, 100, memberTotal(t, store, "m1"))
}

func TestRecordProgress_ConcurrentCompletionAwardsOnce(t *testing.T) {
	store := memory.NewStore()
	def := seedObjective(t, store, 5, 100)
	seedAssignment(t, store, "m1", def.ID)
	handler := newRecordProgressHandler(store)

	// Both goroutines submit a completing count for the same pair. The
	// optimistic version check lets exactly one transition win; the
	// loser re-reads the latched record and resolves to a no-op.
	var wg sync.WaitGroup
	outcomes := make([]progress.Outcome, 2)
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := handler.Handle(context.Background(), RecordProgressCommand{
				MemberID:    "m1",
				ObjectiveID: def.ID,
				NewCount:    5,
			})
			errs[i] = err
			if err == nil {
				outcomes[i] = res.Outcome
			}
		}(i)
	}
	wg.Wait()

	completions := 0
	for i := 0; i < 2; i++ {
		require.NoError(t, errs[i])
		if outcomes[i] == progress.OutcomeCompleted {
			completions++
		}
	}
	assert.Equal(t, 1, completions)

	history, err := store.Ledger().History(context.Background(), "m1", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, 100, memberTotal(t, store, "m1"))
}

func TestRecordProgress_UnassignedPair(t *testing.T) {
	store := memory.NewStore()
	def := seedObjective(t, store, 5, 100)
	handler := newRecordProgressHandler(store)

	_, err := handler.Handle(context.Background(), RecordProgressCommand{
		MemberID:    "m1",
		ObjectiveID: def.ID,
		NewCount:    3,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRecordProgress_UnknownObjective(t *testing.T) {
	store := memory.NewStore()
	handler := newRecordProgressHandler(store)

	_, err := handler.Handle(context.Background(), RecordProgressCommand{
		MemberID:    "m1",
		ObjectiveID: "gone",
		NewCount:    3,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRecordProgress_Validation(t *testing.T) {
	store := memory.NewStore()
	def := seedObjective(t, store, 5, 100)
	seedAssignment(t, store, "m1", def.ID)
	handler := newRecordProgressHandler(store)
	ctx := context.Background()

	_, err := handler.Handle(ctx, RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: -1})
	assert.ErrorIs(t, err, shared.ErrNegativeCount)

	_, err = handler.Handle(ctx, RecordProgressCommand{MemberID: "", ObjectiveID: def.ID, NewCount: 1})
	assert.Error(t, err)

	// A caller may not touch another member's progress.
	_, err = handler.Handle(ctx, RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: 1, CallerID: "m2"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	// Nothing was persisted by the rejected commands.
	rec, err := store.Progress().Get(ctx, "m1", def.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.CurrentCount)
}

func TestRecordProgress_WritesAuditEvents(t *testing.T) {
	store := memory.NewStore()
	def := seedObjective(t, store, 2, 50)
	seedAssignment(t, store, "m1", def.ID)
	handler := newRecordProgressHandler(store)
	ctx := context.Background()

	_, err := handler.Handle(ctx, RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: 1})
	require.NoError(t, err)
	_, err = handler.Handle(ctx, RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: 2})
	require.NoError(t, err)

	events := store.ProgressEvents()
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].OldCount)
	assert.Equal(t, 1, events[0].NewCount)
	assert.False(t, events[0].Completed)
	assert.Equal(t, 1, events[1].OldCount)
	assert.Equal(t, 2, events[1].NewCount)
	assert.True(t, events[1].Completed)
}

func TestRecordProgress_AuditEventsDisabled(t *testing.T) {
	store := memory.NewStore()
	def := seedObjective(t, store, 2, 50)
	seedAssignment(t, store, "m1", def.ID)

	handler := NewRecordProgressHandler(
		store.Objectives(),
		store.Progress(),
		nil,
		RecordProgressHandlerConfig{ConflictRetryAttempts: 2, AuditEvents: false},
		nil,
	)

	_, err := handler.Handle(context.Background(), RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: 2})
	require.NoError(t, err)

	assert.Empty(t, store.ProgressEvents())
	assert.Equal(t, 50, memberTotal(t, store, "m1"))
}
