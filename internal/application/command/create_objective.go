// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/objective"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE OBJECTIVE COMMAND
// Adds a new definition to the objective catalog. Definitions are reusable:
// many members can be assigned the same one independently.
// ══════════════════════════════════════════════════════════════════════════════

// CreateObjectiveCommand contains the data to create an objective definition.
type CreateObjectiveCommand struct {
	// Title is the human-readable objective name. Required.
	Title string

	// GroupTag groups related objectives for presentation.
	GroupTag string

	// ActionType is the engagement action the objective counts.
	ActionType string

	// FeatureTag links the objective to a product feature.
	FeatureTag string

	// TargetCount is the count that fires the completion latch. Must be >= 1.
	TargetCount int

	// Points is the reward granted exactly once at completion. Must be >= 0.
	Points int

	// Difficulty is an optional grade (basic/medium/hard/extreme).
	Difficulty objective.Difficulty

	// Privacy is an optional visibility setting (public/private).
	Privacy objective.Privacy

	// Audience restricts the objective to member groups. Empty means everyone.
	Audience []string

	// ValidFrom/ValidUntil bound the validity window. Nil means open.
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// CreateObjectiveResult contains the created definition.
type CreateObjectiveResult struct {
	Definition *objective.Definition
	CreatedAt  time.Time
}

// CreateObjectiveHandler handles the CreateObjectiveCommand.
type CreateObjectiveHandler struct {
	objectiveRepo objective.Repository
	publisher     shared.EventPublisher
	log           *logger.Logger
}

// NewCreateObjectiveHandler creates a new CreateObjectiveHandler.
func NewCreateObjectiveHandler(
	objectiveRepo objective.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *CreateObjectiveHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CreateObjectiveHandler{
		objectiveRepo: objectiveRepo,
		publisher:     publisher,
		log:           log.With(logger.Component("command"), logger.Operation("create_objective")),
	}
}

// Handle validates and persists a new objective definition. Validation
// failures leave the catalog untouched.
func (h *CreateObjectiveHandler) Handle(ctx context.Context, cmd CreateObjectiveCommand) (*CreateObjectiveResult, error) {
	now := time.Now().UTC()

	def := &objective.Definition{
		ID:          uuid.NewString(),
		Title:       cmd.Title,
		GroupTag:    cmd.GroupTag,
		ActionType:  cmd.ActionType,
		FeatureTag:  cmd.FeatureTag,
		TargetCount: cmd.TargetCount,
		Points:      cmd.Points,
		Difficulty:  cmd.Difficulty,
		Privacy:     cmd.Privacy,
		Audience:    cmd.Audience,
		IsActive:    true,
		ValidFrom:   cmd.ValidFrom,
		ValidUntil:  cmd.ValidUntil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	if err := h.objectiveRepo.Create(ctx, def); err != nil {
		return nil, fmt.Errorf("create_objective: %w", err)
	}

	h.log.Info("objective created",
		logger.ObjectiveID(def.ID),
		logger.F("title", def.Title),
		logger.F("target_count", def.TargetCount),
		logger.PointsAmount(def.Points),
	)

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewGenericEvent(shared.EventObjectiveCreated, def.ID, map[string]interface{}{
			"objective_id": def.ID,
			"title":        def.Title,
		}))
	}

	return &CreateObjectiveResult{Definition: def, CreatedAt: now}, nil
}
