package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/engagement"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG ENGAGEMENT COMMAND
// Appends a volunteering/contribution action to the engagement log. The
// log is independent of the points ledger: logging an engagement never
// awards points by itself.
// ══════════════════════════════════════════════════════════════════════════════

// LogEngagementCommand contains the data to log an engagement action.
type LogEngagementCommand struct {
	// MemberID is the acting member. Required.
	MemberID string

	// ActivityID optionally links the action to an activity.
	ActivityID string

	// ActionType categorizes the action. Required.
	ActionType engagement.ActionType

	// HoursContributed is the volunteered time. Must be >= 0.
	HoursContributed float64

	// PointsEarned mirrors any points granted elsewhere for this action.
	PointsEarned int

	// ImpactScore is the collaborator-computed impact weight.
	ImpactScore float64

	// Metadata carries free-form collaborator data.
	Metadata map[string]string
}

// LogEngagementResult contains the logged entry.
type LogEngagementResult struct {
	Entry *engagement.Entry
}

// LogEngagementHandler handles the LogEngagementCommand.
type LogEngagementHandler struct {
	engagementRepo engagement.Repository
	publisher      shared.EventPublisher
	log            *logger.Logger
}

// NewLogEngagementHandler creates a new LogEngagementHandler.
func NewLogEngagementHandler(
	engagementRepo engagement.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *LogEngagementHandler {
	if log == nil {
		log = logger.Default()
	}
	return &LogEngagementHandler{
		engagementRepo: engagementRepo,
		publisher:      publisher,
		log:            log.With(logger.Component("command"), logger.Operation("log_engagement")),
	}
}

// Handle validates and appends an engagement entry.
func (h *LogEngagementHandler) Handle(ctx context.Context, cmd LogEngagementCommand) (*LogEngagementResult, error) {
	now := time.Now().UTC()

	entry, err := engagement.NewEntry(
		uuid.NewString(),
		cmd.MemberID,
		cmd.ActivityID,
		cmd.ActionType,
		cmd.HoursContributed,
		cmd.PointsEarned,
		cmd.ImpactScore,
		cmd.Metadata,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err := h.engagementRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("log_engagement: %w", err)
	}

	h.log.Info("engagement logged",
		logger.MemberID(cmd.MemberID),
		logger.F("action_type", string(cmd.ActionType)),
		logger.Hours(cmd.HoursContributed),
	)

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewGenericEvent(shared.EventEngagementLogged, entry.ID, map[string]interface{}{
			"member_id":   cmd.MemberID,
			"action_type": string(cmd.ActionType),
			"hours":       cmd.HoursContributed,
		}))
	}

	return &LogEngagementResult{Entry: entry}, nil
}
