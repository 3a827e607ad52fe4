package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

func TestNewRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rec, err := NewRecord("rec-1", "member-1", "obj-1", now)
	require.NoError(t, err)

	assert.Equal(t, "member-1", rec.MemberID)
	assert.Equal(t, "obj-1", rec.ObjectiveID)
	assert.Equal(t, 0, rec.CurrentCount)
	assert.False(t, rec.IsCompleted)
	assert.Nil(t, rec.CompletedAt)
	assert.Equal(t, 0, rec.PointsAwarded)
	assert.Equal(t, 1, rec.Version)
}

func TestNewRecord_RequiresIDs(t *testing.T) {
	now := time.Now().UTC()

	_, err := NewRecord("rec-1", "", "obj-1", now)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewRecord("rec-1", "member-1", "", now)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestApplyCount_BelowTarget(t *testing.T) {
	now := time.Now().UTC()
	rec, _ := NewRecord("rec-1", "member-1", "obj-1", now)

	outcome, err := rec.ApplyCount(3, 5, 100, now)
	require.NoError(t, err)

	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, 3, rec.CurrentCount)
	assert.False(t, rec.IsCompleted)
	assert.Equal(t, 0, rec.PointsAwarded)
}

func TestApplyCount_ReachingTargetFiresLatch(t *testing.T) {
	now := time.Now().UTC()
	rec, _ := NewRecord("rec-1", "member-1", "obj-1", now)

	outcome, err := rec.ApplyCount(5, 5, 100, now)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, outcome)
	assert.True(t, rec.IsCompleted)
	require.NotNil(t, rec.CompletedAt)
	assert.Equal(t, now, *rec.CompletedAt)
	assert.Equal(t, 100, rec.PointsAwarded)
}

func TestApplyCount_OvershootCompletesOnce(t *testing.T) {
	now := time.Now().UTC()
	rec, _ := NewRecord("rec-1", "member-1", "obj-1", now)

	outcome, err := rec.ApplyCount(12, 5, 100, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome)
	assert.Equal(t, 12, rec.CurrentCount)
	assert.Equal(t, 100, rec.PointsAwarded)
}

func TestApplyCount_CompletedRecordIgnoresLaterSubmissions(t *testing.T) {
	now := time.Now().UTC()
	rec, _ := NewRecord("rec-1", "member-1", "obj-1", now)

	_, err := rec.ApplyCount(5, 5, 100, now)
	require.NoError(t, err)
	completedAt := *rec.CompletedAt

	later := now.Add(time.Hour)

	// Higher count, lower count, and zero: all ignored after the latch.
	for _, count := range []int{7, 3, 0} {
		outcome, err := rec.ApplyCount(count, 5, 100, later)
		require.NoError(t, err)
		assert.Equal(t, OutcomeNoChange, outcome)
		assert.Equal(t, 5, rec.CurrentCount)
		assert.True(t, rec.IsCompleted)
		assert.Equal(t, completedAt, *rec.CompletedAt)
		assert.Equal(t, 100, rec.PointsAwarded)
	}
}

func TestApplyCount_DownwardCorrectionBeforeCompletion(t *testing.T) {
	now := time.Now().UTC()
	rec, _ := NewRecord("rec-1", "member-1", "obj-1", now)

	_, err := rec.ApplyCount(4, 5, 100, now)
	require.NoError(t, err)

	outcome, err := rec.ApplyCount(2, 5, 100, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, 2, rec.CurrentCount)
	assert.False(t, rec.IsCompleted)
}

func TestApplyCount_RejectsNegativeCount(t *testing.T) {
	now := time.Now().UTC()
	rec, _ := NewRecord("rec-1", "member-1", "obj-1", now)

	outcome, err := rec.ApplyCount(-1, 5, 100, now)
	assert.ErrorIs(t, err, shared.ErrNegativeCount)
	assert.Equal(t, OutcomeNoChange, outcome)
	assert.Equal(t, 0, rec.CurrentCount)
}

func TestApplyCount_ZeroPointObjective(t *testing.T) {
	now := time.Now().UTC()
	rec, _ := NewRecord("rec-1", "member-1", "obj-1", now)

	outcome, err := rec.ApplyCount(1, 1, 0, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome)
	assert.True(t, rec.IsCompleted)
	assert.Equal(t, 0, rec.PointsAwarded)
}

func TestNewEvent(t *testing.T) {
	now := time.Now().UTC()
	rec, _ := NewRecord("rec-1", "member-1", "obj-1", now)
	_, err := rec.ApplyCount(5, 5, 100, now)
	require.NoError(t, err)

	event := NewEvent("evt-1", rec, 2, now)

	assert.Equal(t, "member-1", event.MemberID)
	assert.Equal(t, "obj-1", event.ObjectiveID)
	assert.Equal(t, 2, event.OldCount)
	assert.Equal(t, 5, event.NewCount)
	assert.Equal(t, 3, event.Delta)
	assert.True(t, event.Completed)
}
