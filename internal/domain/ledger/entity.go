// Package ledger contains the append-only points ledger: the sole source
// of truth for member point totals. Entries are never updated or deleted.
// This is a pure domain layer with zero external dependencies.
package ledger

import (
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

// SourceType categorizes where a ledger entry came from.
type SourceType string

const (
	// SourceActivity - points earned through activity participation.
	SourceActivity SourceType = "activity"

	// SourceObjective - points awarded by a completion transition.
	SourceObjective SourceType = "objective"

	// SourceBonus - one-off bonus awards.
	SourceBonus SourceType = "bonus"

	// SourceManual - manual adjustments by administrators. The only
	// source that routinely carries negative amounts.
	SourceManual SourceType = "manual"
)

// IsValid checks the source type value.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceActivity, SourceObjective, SourceBonus, SourceManual:
		return true
	}
	return false
}

// Entry is one immutable point-earning event for one member.
type Entry struct {
	ID          string
	MemberID    string
	Points      int
	SourceType  SourceType
	SourceID    string
	Description string
	CreatedAt   time.Time
}

// NewEntry creates a ledger entry, validating member and source type.
func NewEntry(id, memberID string, points int, sourceType SourceType, sourceID, description string, now time.Time) (*Entry, error) {
	if memberID == "" {
		return nil, shared.ErrLedgerMemberEmpty
	}
	if !sourceType.IsValid() {
		return nil, shared.ErrInvalidSourceType
	}
	return &Entry{
		ID:          id,
		MemberID:    memberID,
		Points:      points,
		SourceType:  sourceType,
		SourceID:    sourceID,
		Description: description,
		CreatedAt:   now,
	}, nil
}
