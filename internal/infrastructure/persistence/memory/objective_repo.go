package memory

import (
	"context"
	"sort"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/objective"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

// ObjectiveRepository implements objective.Repository in memory.
type ObjectiveRepository struct {
	store *Store
}

// Create persists a new definition.
func (r *ObjectiveRepository) Create(_ context.Context, def *objective.Definition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.objectives[def.ID]; exists {
		return shared.NewDomainError("objective", "Create", shared.ErrAlreadyExists,
			"objective already exists")
	}

	cp := cloneDefinition(def)
	r.store.objectives[def.ID] = cp
	return nil
}

// Get returns a definition by ID.
func (r *ObjectiveRepository) Get(_ context.Context, id string) (*objective.Definition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	def, ok := r.store.objectives[id]
	if !ok {
		return nil, shared.ErrObjectiveNotFound
	}
	return cloneDefinition(def), nil
}

// List returns definitions, optionally only active ones, newest first.
func (r *ObjectiveRepository) List(_ context.Context, activeOnly bool) ([]*objective.Definition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var defs []*objective.Definition
	for _, def := range r.store.objectives {
		if activeOnly && !def.IsActive {
			continue
		}
		defs = append(defs, cloneDefinition(def))
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].CreatedAt.After(defs[j].CreatedAt)
	})
	return defs, nil
}

// Update persists changes to an existing definition.
func (r *ObjectiveRepository) Update(_ context.Context, def *objective.Definition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.objectives[def.ID]; !ok {
		return shared.ErrObjectiveNotFound
	}
	r.store.objectives[def.ID] = cloneDefinition(def)
	return nil
}

// Delete permanently removes a definition. Progress rows and ledger
// entries are untouched.
func (r *ObjectiveRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.objectives[id]; !ok {
		return shared.ErrObjectiveNotFound
	}
	delete(r.store.objectives, id)
	return nil
}

func cloneDefinition(def *objective.Definition) *objective.Definition {
	cp := *def
	if def.Audience != nil {
		cp.Audience = append([]string(nil), def.Audience...)
	}
	if def.ValidFrom != nil {
		t := *def.ValidFrom
		cp.ValidFrom = &t
	}
	if def.ValidUntil != nil {
		t := *def.ValidUntil
		cp.ValidUntil = &t
	}
	return &cp
}
