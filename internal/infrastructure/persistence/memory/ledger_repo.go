package memory

import (
	"context"
	"sort"
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
)

// LedgerRepository implements ledger.Repository in memory.
type LedgerRepository struct {
	store *Store
}

// Append persists a new ledger entry.
func (r *LedgerRepository) Append(_ context.Context, entry *ledger.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *entry
	r.store.ledger = append(r.store.ledger, &cp)
	return nil
}

// Query returns a member's entries ordered by CreatedAt ascending.
func (r *LedgerRepository) Query(_ context.Context, memberID string, from, to time.Time) ([]*ledger.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var entries []*ledger.Entry
	for _, e := range r.store.ledger {
		if e.MemberID != memberID {
			continue
		}
		if !from.IsZero() && e.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.CreatedAt.After(to) {
			continue
		}
		cp := *e
		entries = append(entries, &cp)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// History returns the most recent entries for a member, newest first.
func (r *LedgerRepository) History(ctx context.Context, memberID string, limit int) ([]*ledger.Entry, error) {
	entries, err := r.Query(ctx, memberID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	// Reverse to newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Total returns the sum of points over the (optionally bounded) entry set.
func (r *LedgerRepository) Total(ctx context.Context, memberID string, from, to time.Time) (int, error) {
	entries, err := r.Query(ctx, memberID, from, to)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, e := range entries {
		total += e.Points
	}
	return total, nil
}

// Totals returns summed points per member, highest first.
func (r *LedgerRepository) Totals(_ context.Context, limit int) ([]ledger.TotalRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sums := make(map[string]int)
	for _, e := range r.store.ledger {
		sums[e.MemberID] += e.Points
	}

	totals := make([]ledger.TotalRow, 0, len(sums))
	for memberID, total := range sums {
		totals = append(totals, ledger.TotalRow{MemberID: memberID, Total: total})
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].MemberID < totals[j].MemberID
	})

	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}
