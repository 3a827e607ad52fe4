package progress

import (
	"context"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
)

// Repository defines the interface for progress persistence.
//
// The completion latch depends on two guarantees the implementation must
// provide:
//
//  1. Update and CompleteAndAward are optimistic: they match on the
//     record's Version and return shared.ErrConcurrencyConflict when the
//     stored version differs, without writing anything.
//  2. CompleteAndAward is atomic: the record update, the ledger append
//     and the audit event are durably recorded together or not at all.
type Repository interface {
	// Create persists a new assignment. Returns shared.ErrAlreadyAssigned
	// when a record for the (member, objective) pair already exists.
	Create(ctx context.Context, rec *Record) error

	// Get returns the record for a pair, or shared.ErrProgressNotFound.
	Get(ctx context.Context, memberID, objectiveID string) (*Record, error)

	// ListByMember returns all records for a member, newest first.
	ListByMember(ctx context.Context, memberID string) ([]*Record, error)

	// Update persists a non-completing mutation under the optimistic
	// version check, together with its audit event.
	Update(ctx context.Context, rec *Record, event *Event) error

	// CompleteAndAward persists a completion transition: the latched
	// record, the +points ledger entry and the audit event, in one
	// transaction under the optimistic version check. A lost race leaves
	// storage untouched and returns shared.ErrConcurrencyConflict.
	CompleteAndAward(ctx context.Context, rec *Record, entry *ledger.Entry, event *Event) error

	// Delete removes the record for a pair. Ledger entries already
	// awarded are not reversed.
	Delete(ctx context.Context, memberID, objectiveID string) error
}
