// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/objective"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST OBJECTIVES QUERY
// Returns the objective catalog, optionally filtered to definitions that
// are active and inside their validity window right now.
// ══════════════════════════════════════════════════════════════════════════════

// ListObjectivesQuery contains the catalog listing parameters.
type ListObjectivesQuery struct {
	// ActiveOnly filters to definitions visible at query time.
	ActiveOnly bool
}

// ListObjectivesResult contains the matching definitions.
type ListObjectivesResult struct {
	Objectives []*objective.Definition
	Total      int
}

// ListObjectivesHandler handles the ListObjectivesQuery.
type ListObjectivesHandler struct {
	objectiveRepo objective.Repository
}

// NewListObjectivesHandler creates a new ListObjectivesHandler.
func NewListObjectivesHandler(objectiveRepo objective.Repository) *ListObjectivesHandler {
	return &ListObjectivesHandler{objectiveRepo: objectiveRepo}
}

// Handle lists catalog definitions.
func (h *ListObjectivesHandler) Handle(ctx context.Context, q ListObjectivesQuery) (*ListObjectivesResult, error) {
	defs, err := h.objectiveRepo.List(ctx, q.ActiveOnly)
	if err != nil {
		return nil, err
	}

	if q.ActiveOnly {
		// The repository filters on the active flag; the validity window
		// is evaluated here against the current time.
		now := time.Now().UTC()
		visible := defs[:0]
		for _, def := range defs {
			if def.IsVisibleAt(now) {
				visible = append(visible, def)
			}
		}
		defs = visible
	}

	return &ListObjectivesResult{Objectives: defs, Total: len(defs)}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET OBJECTIVE QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetObjectiveQuery identifies a single definition.
type GetObjectiveQuery struct {
	ObjectiveID string
}

// GetObjectiveHandler handles the GetObjectiveQuery.
type GetObjectiveHandler struct {
	objectiveRepo objective.Repository
}

// NewGetObjectiveHandler creates a new GetObjectiveHandler.
func NewGetObjectiveHandler(objectiveRepo objective.Repository) *GetObjectiveHandler {
	return &GetObjectiveHandler{objectiveRepo: objectiveRepo}
}

// Handle returns one definition, or shared.ErrObjectiveNotFound.
func (h *GetObjectiveHandler) Handle(ctx context.Context, q GetObjectiveQuery) (*objective.Definition, error) {
	return h.objectiveRepo.Get(ctx, q.ObjectiveID)
}
