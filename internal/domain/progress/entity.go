// Package progress contains the per-(member, objective) state machine.
// A record moves one way: assigned → completed. Completion is a latch;
// once it fires it never reverts, and the point award tied to it happens
// exactly once. This is a pure domain layer with zero external dependencies.
package progress

import (
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

// Record tracks one member's advancement toward one objective.
// The (MemberID, ObjectiveID) pair is unique.
type Record struct {
	ID          string
	MemberID    string
	ObjectiveID string

	// CurrentCount is the absolute progress value. Callers submit absolute
	// counts, not deltas, so corrections downward are possible before
	// completion.
	CurrentCount int

	// IsCompleted latches to true when CurrentCount first reaches the
	// objective target. It never reverts.
	IsCompleted bool

	// CompletedAt is set once, at the completion transition.
	CompletedAt *time.Time

	// PointsAwarded snapshots the objective's point value at completion.
	// Zero until the latch fires.
	PointsAwarded int

	// Version is the optimistic-concurrency token. Every successful
	// mutation increments it; a stale version loses the write.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord creates a fresh assignment at count zero.
func NewRecord(id, memberID, objectiveID string, now time.Time) (*Record, error) {
	if memberID == "" || objectiveID == "" {
		return nil, shared.NewDomainError("progress", "Assign", shared.ErrInvalidID,
			"member ID and objective ID are required")
	}
	return &Record{
		ID:          id,
		MemberID:    memberID,
		ObjectiveID: objectiveID,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Outcome describes what a progress application did to the record.
type Outcome int

const (
	// OutcomeNoChange means the record was already completed; nothing was
	// mutated and no award is due.
	OutcomeNoChange Outcome = iota

	// OutcomeUpdated means the count changed but the target was not reached.
	OutcomeUpdated

	// OutcomeCompleted means this application fired the completion latch
	// and exactly one point award is due.
	OutcomeCompleted
)

// ApplyCount applies an absolute progress value against the given target.
// It mutates the record in memory only; persistence and the atomic ledger
// append are the repository's responsibility.
//
// Once completed, the record ignores all further applications regardless
// of the submitted count: completion-related fields stay frozen and the
// caller must not write a ledger entry.
func (r *Record) ApplyCount(newCount, targetCount, points int, now time.Time) (Outcome, error) {
	if newCount < 0 {
		return OutcomeNoChange, shared.ErrNegativeCount
	}
	if r.IsCompleted {
		return OutcomeNoChange, nil
	}

	r.CurrentCount = newCount
	r.UpdatedAt = now

	if newCount >= targetCount {
		completedAt := now
		r.IsCompleted = true
		r.CompletedAt = &completedAt
		r.PointsAwarded = points
		return OutcomeCompleted, nil
	}
	return OutcomeUpdated, nil
}

// Event is one append-only audit row describing a single progress
// application. Events are recorded in the same transaction as the record
// mutation so the trail can never diverge from the state, but they are
// never read back by the latch itself.
type Event struct {
	ID          string
	MemberID    string
	ObjectiveID string
	OldCount    int
	NewCount    int
	Delta       int
	Completed   bool
	RecordedAt  time.Time
}

// NewEvent builds the audit event for a transition from oldCount to the
// record's current state.
func NewEvent(id string, r *Record, oldCount int, now time.Time) *Event {
	return &Event{
		ID:          id,
		MemberID:    r.MemberID,
		ObjectiveID: r.ObjectiveID,
		OldCount:    oldCount,
		NewCount:    r.CurrentCount,
		Delta:       r.CurrentCount - oldCount,
		Completed:   r.IsCompleted,
		RecordedAt:  now,
	}
}
