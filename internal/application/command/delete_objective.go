package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/objective"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE OBJECTIVE COMMAND
// Removes a definition from the catalog. Progress rows and ledger entries
// that reference the definition survive: history is never rewritten.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteObjectiveCommand identifies the definition to delete.
type DeleteObjectiveCommand struct {
	ObjectiveID string
}

// Validate validates the command.
func (c DeleteObjectiveCommand) Validate() error {
	if c.ObjectiveID == "" {
		return errors.New("delete_objective: objective_id is required")
	}
	return nil
}

// DeleteObjectiveHandler handles the DeleteObjectiveCommand.
type DeleteObjectiveHandler struct {
	objectiveRepo objective.Repository
	publisher     shared.EventPublisher
	log           *logger.Logger
}

// NewDeleteObjectiveHandler creates a new DeleteObjectiveHandler.
func NewDeleteObjectiveHandler(
	objectiveRepo objective.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *DeleteObjectiveHandler {
	if log == nil {
		log = logger.Default()
	}
	return &DeleteObjectiveHandler{
		objectiveRepo: objectiveRepo,
		publisher:     publisher,
		log:           log.With(logger.Component("command"), logger.Operation("delete_objective")),
	}
}

// Handle deletes a catalog definition.
func (h *DeleteObjectiveHandler) Handle(ctx context.Context, cmd DeleteObjectiveCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if _, err := h.objectiveRepo.Get(ctx, cmd.ObjectiveID); err != nil {
		return err
	}

	if err := h.objectiveRepo.Delete(ctx, cmd.ObjectiveID); err != nil {
		return fmt.Errorf("delete_objective: %w", err)
	}

	h.log.Info("objective deleted", logger.ObjectiveID(cmd.ObjectiveID))

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewGenericEvent(shared.EventObjectiveDeleted, cmd.ObjectiveID, map[string]interface{}{
			"objective_id": cmd.ObjectiveID,
		}))
	}

	return nil
}
