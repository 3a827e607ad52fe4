package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/objective"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/progress"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGN OBJECTIVE COMMAND
// Creates a fresh progress record at count zero for a (member, objective)
// pair. The pair is unique: a second assignment is rejected, never reset.
// ══════════════════════════════════════════════════════════════════════════════

// AssignObjectiveCommand contains the data to assign an objective.
type AssignObjectiveCommand struct {
	MemberID    string
	ObjectiveID string
}

// Validate validates the command.
func (c AssignObjectiveCommand) Validate() error {
	if c.MemberID == "" {
		return errors.New("assign_objective: member_id is required")
	}
	if c.ObjectiveID == "" {
		return errors.New("assign_objective: objective_id is required")
	}
	return nil
}

// AssignObjectiveResult contains the created progress record.
type AssignObjectiveResult struct {
	Record *progress.Record
}

// AssignObjectiveHandler handles the AssignObjectiveCommand.
type AssignObjectiveHandler struct {
	objectiveRepo objective.Repository
	progressRepo  progress.Repository
	publisher     shared.EventPublisher
	log           *logger.Logger
}

// NewAssignObjectiveHandler creates a new AssignObjectiveHandler.
func NewAssignObjectiveHandler(
	objectiveRepo objective.Repository,
	progressRepo progress.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *AssignObjectiveHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AssignObjectiveHandler{
		objectiveRepo: objectiveRepo,
		progressRepo:  progressRepo,
		publisher:     publisher,
		log:           log.With(logger.Component("command"), logger.Operation("assign_objective")),
	}
}

// Handle assigns an objective to a member. Returns
// shared.ErrObjectiveNotFound when the definition does not exist and
// shared.ErrAlreadyAssigned when the pair already has a record.
func (h *AssignObjectiveHandler) Handle(ctx context.Context, cmd AssignObjectiveCommand) (*AssignObjectiveResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// The definition must exist at assignment time; unlike progress
	// recording this is not racing anything.
	if _, err := h.objectiveRepo.Get(ctx, cmd.ObjectiveID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec, err := progress.NewRecord(uuid.NewString(), cmd.MemberID, cmd.ObjectiveID, now)
	if err != nil {
		return nil, err
	}

	if err := h.progressRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("assign_objective: %w", err)
	}

	h.log.Info("objective assigned",
		logger.MemberID(cmd.MemberID),
		logger.ObjectiveID(cmd.ObjectiveID),
	)

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewGenericEvent(shared.EventObjectiveAssigned, rec.ID, map[string]interface{}{
			"member_id":    cmd.MemberID,
			"objective_id": cmd.ObjectiveID,
		}))
	}

	return &AssignObjectiveResult{Record: rec}, nil
}
