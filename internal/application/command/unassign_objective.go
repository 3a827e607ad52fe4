package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/progress"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNASSIGN OBJECTIVE COMMAND
// Removes a member's progress record. Points already awarded stay in the
// ledger: unassignment is not a refund.
// ══════════════════════════════════════════════════════════════════════════════

// UnassignObjectiveCommand identifies the record to remove.
type UnassignObjectiveCommand struct {
	MemberID    string
	ObjectiveID string
}

// Validate validates the command.
func (c UnassignObjectiveCommand) Validate() error {
	if c.MemberID == "" {
		return errors.New("unassign_objective: member_id is required")
	}
	if c.ObjectiveID == "" {
		return errors.New("unassign_objective: objective_id is required")
	}
	return nil
}

// UnassignObjectiveHandler handles the UnassignObjectiveCommand.
type UnassignObjectiveHandler struct {
	progressRepo progress.Repository
	publisher    shared.EventPublisher
	log          *logger.Logger
}

// NewUnassignObjectiveHandler creates a new UnassignObjectiveHandler.
func NewUnassignObjectiveHandler(
	progressRepo progress.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *UnassignObjectiveHandler {
	if log == nil {
		log = logger.Default()
	}
	return &UnassignObjectiveHandler{
		progressRepo: progressRepo,
		publisher:    publisher,
		log:          log.With(logger.Component("command"), logger.Operation("unassign_objective")),
	}
}

// Handle removes the progress record for a pair. Returns
// shared.ErrProgressNotFound when no assignment exists.
func (h *UnassignObjectiveHandler) Handle(ctx context.Context, cmd UnassignObjectiveCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if _, err := h.progressRepo.Get(ctx, cmd.MemberID, cmd.ObjectiveID); err != nil {
		return err
	}

	if err := h.progressRepo.Delete(ctx, cmd.MemberID, cmd.ObjectiveID); err != nil {
		return fmt.Errorf("unassign_objective: %w", err)
	}

	h.log.Info("objective unassigned",
		logger.MemberID(cmd.MemberID),
		logger.ObjectiveID(cmd.ObjectiveID),
	)

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewGenericEvent(shared.EventObjectiveUnassigned, cmd.MemberID, map[string]interface{}{
			"member_id":    cmd.MemberID,
			"objective_id": cmd.ObjectiveID,
		}))
	}

	return nil
}
