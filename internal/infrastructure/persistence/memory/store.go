// Package memory implements in-memory versions of every repository
// interface. Suitable for tests and single-instance runs; the progress
// repository enforces the same optimistic-version and one-way-latch
// discipline as the PostgreSQL implementation, so concurrency properties
// hold against it too.
package memory

import (
	"sync"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/engagement"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/objective"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/progress"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/report"
)

// Store owns all in-memory tables. Repositories created from one Store
// share state, so a completion transition observes the same ledger the
// ledger repository reads.
type Store struct {
	mu sync.RWMutex

	objectives  map[string]*objective.Definition
	progress    map[string]*progress.Record // key: memberID + "\x00" + objectiveID
	events      []*progress.Event
	ledger      []*ledger.Entry
	engagements []*engagement.Entry
	reports     map[string]*report.ImpactReport
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		objectives: make(map[string]*objective.Definition),
		progress:   make(map[string]*progress.Record),
		reports:    make(map[string]*report.ImpactReport),
	}
}

// Objectives returns the objective repository view.
func (s *Store) Objectives() *ObjectiveRepository {
	return &ObjectiveRepository{store: s}
}

// Progress returns the progress repository view.
func (s *Store) Progress() *ProgressRepository {
	return &ProgressRepository{store: s}
}

// Ledger returns the ledger repository view.
func (s *Store) Ledger() *LedgerRepository {
	return &LedgerRepository{store: s}
}

// Engagements returns the engagement repository view.
func (s *Store) Engagements() *EngagementRepository {
	return &EngagementRepository{store: s}
}

// Reports returns the report repository view.
func (s *Store) Reports() *ReportRepository {
	return &ReportRepository{store: s}
}

// ProgressEvents returns a snapshot of the audit trail, oldest first.
func (s *Store) ProgressEvents() []*progress.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*progress.Event, len(s.events))
	for i, e := range s.events {
		cp := *e
		out[i] = &cp
	}
	return out
}

func progressKey(memberID, objectiveID string) string {
	return memberID + "\x00" + objectiveID
}
