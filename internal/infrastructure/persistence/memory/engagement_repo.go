package memory

import (
	"context"
	"sort"
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/engagement"
)

// EngagementRepository implements engagement.Repository in memory.
type EngagementRepository struct {
	store *Store
}

// Append persists a new engagement entry.
func (r *EngagementRepository) Append(_ context.Context, entry *engagement.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.engagements = append(r.store.engagements, cloneEngagement(entry))
	return nil
}

// QueryByMember returns a member's entries ordered by CreatedAt ascending.
func (r *EngagementRepository) QueryByMember(_ context.Context, memberID string) ([]*engagement.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var entries []*engagement.Entry
	for _, e := range r.store.engagements {
		if e.MemberID != memberID {
			continue
		}
		entries = append(entries, cloneEngagement(e))
	}

	sortEngagements(entries)
	return entries, nil
}

// QueryPeriod returns all entries within [from, to], ordered by CreatedAt ascending.
// Zero bounds leave that side of the window open.
func (r *EngagementRepository) QueryPeriod(_ context.Context, from, to time.Time) ([]*engagement.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var entries []*engagement.Entry
	for _, e := range r.store.engagements {
		if !from.IsZero() && e.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.CreatedAt.After(to) {
			continue
		}
		entries = append(entries, cloneEngagement(e))
	}

	sortEngagements(entries)
	return entries, nil
}

func sortEngagements(entries []*engagement.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

func cloneEngagement(e *engagement.Entry) *engagement.Entry {
	cp := *e
	if e.Metadata != nil {
		cp.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
