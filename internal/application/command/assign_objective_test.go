package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/internal/infrastructure/persistence/memory"
)

func newAssignHandler(store *memory.Store) *AssignObjectiveHandler {
	return NewAssignObjectiveHandler(store.Objectives(), store.Progress(), nil, nil)
}

func TestAssignObjective_CreatesFreshRecord(t *testing.T) {
	store := memory.NewStore()
	def := seedObjective(t, store, 5, 100)
	handler := newAssignHandler(store)

	res, err := handler.Handle(context.Background(), AssignObjectiveCommand{
		MemberID:    "m1",
		ObjectiveID: def.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, res.Record)
	assert.Equal(t, "m1", res.Record.MemberID)
	assert.Equal(t, def.ID, res.Record.ObjectiveID)
	assert.Equal(t, 0, res.Record.CurrentCount)
	assert.False(t, res.Record.IsCompleted)
	assert.Nil(t, res.Record.CompletedAt)

	stored, err := store.Progress().Get(context.Background(), "m1", def.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Record.ID, stored.ID)
}

func TestAssignObjective_DoubleAssignmentRejected(t *testing.T) {
	store := memory.NewStore()
	def := seedObjective(t, store, 5, 100)
	handler := newAssignHandler(store)
	ctx := context.Background()

	_, err := handler.Handle(ctx, AssignObjectiveCommand{MemberID: "m1", ObjectiveID: def.ID})
	require.NoError(t, err)

	// Record some progress, then try to assign again: the record must
	// survive untouched, not be reset to zero.
	progressHandler := newRecordProgressHandler(store)
	_, err = progressHandler.Handle(ctx, RecordProgressCommand{MemberID: "m1", ObjectiveID: def.ID, NewCount: 3})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, AssignObjectiveCommand{MemberID: "m1", ObjectiveID: def.ID})
	assert.ErrorIs(t, err, shared.ErrAlreadyAssigned)

	rec, err := store.Progress().Get(ctx, "m1", def.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.CurrentCount)
}

func TestAssignObjective_UnknownObjective(t *testing.T) {
	store := memory.NewStore()
	handler := newAssignHandler(store)

	_, err := handler.Handle(context.Background(), AssignObjectiveCommand{
		MemberID:    "m1",
		ObjectiveID: "obj-missing",
	})

	assert.ErrorIs(t, err, shared.ErrObjectiveNotFound)
}

func TestAssignObjective_Validation(t *testing.T) {
	store := memory.NewStore()
	handler := newAssignHandler(store)
	ctx := context.Background()

	_, err := handler.Handle(ctx, AssignObjectiveCommand{ObjectiveID: "obj-events"})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, AssignObjectiveCommand{MemberID: "m1"})
	assert.Error(t, err)
}
