package memory

import (
	"context"
	"sort"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/progress"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

// ProgressRepository implements progress.Repository in memory with the
// same discipline as the PostgreSQL implementation: writes match on the
// stored version and on is_completed being false, and a completion
// transition commits the record, the ledger entry and the audit event
// under one lock acquisition.
type ProgressRepository struct {
	store *Store
}

// Create persists a new assignment.
func (r *ProgressRepository) Create(_ context.Context, rec *progress.Record) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := progressKey(rec.MemberID, rec.ObjectiveID)
	if _, exists := r.store.progress[key]; exists {
		return shared.ErrAlreadyAssigned
	}

	r.store.progress[key] = cloneRecord(rec)
	return nil
}

// Get returns the record for a pair.
func (r *ProgressRepository) Get(_ context.Context, memberID, objectiveID string) (*progress.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.progress[progressKey(memberID, objectiveID)]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	return cloneRecord(rec), nil
}

// ListByMember returns all records for a member, newest first.
func (r *ProgressRepository) ListByMember(_ context.Context, memberID string) ([]*progress.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var recs []*progress.Record
	for _, rec := range r.store.progress {
		if rec.MemberID == memberID {
			recs = append(recs, cloneRecord(rec))
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

// Update persists a non-completing mutation under the optimistic check.
func (r *ProgressRepository) Update(_ context.Context, rec *progress.Record, event *progress.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.applyLocked(rec); err != nil {
		return err
	}
	if event != nil {
		cp := *event
		r.store.events = append(r.store.events, &cp)
	}
	return nil
}

// CompleteAndAward persists a completion transition atomically.
func (r *ProgressRepository) CompleteAndAward(_ context.Context, rec *progress.Record, entry *ledger.Entry, event *progress.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.applyLocked(rec); err != nil {
		return err
	}

	entryCp := *entry
	r.store.ledger = append(r.store.ledger, &entryCp)

	if event != nil {
		eventCp := *event
		r.store.events = append(r.store.events, &eventCp)
	}
	return nil
}

// Delete removes the record for a pair.
func (r *ProgressRepository) Delete(_ context.Context, memberID, objectiveID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := progressKey(memberID, objectiveID)
	if _, ok := r.store.progress[key]; !ok {
		return shared.ErrProgressNotFound
	}
	delete(r.store.progress, key)
	return nil
}

// applyLocked writes rec if the stored row carries the expected version
// and is not yet completed. Callers hold the store lock.
func (r *ProgressRepository) applyLocked(rec *progress.Record) error {
	key := progressKey(rec.MemberID, rec.ObjectiveID)
	stored, ok := r.store.progress[key]
	if !ok {
		return shared.ErrProgressNotFound
	}
	if stored.Version != rec.Version || stored.IsCompleted {
		return shared.ErrConcurrencyConflict
	}

	cp := cloneRecord(rec)
	cp.Version = rec.Version + 1
	r.store.progress[key] = cp
	rec.Version = cp.Version
	return nil
}

func cloneRecord(rec *progress.Record) *progress.Record {
	cp := *rec
	if rec.CompletedAt != nil {
		t := *rec.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}
