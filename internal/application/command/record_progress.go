package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/objective"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/progress"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD PROGRESS COMMAND
// The heart of the engine. Applies an absolute progress count against a
// member's assignment. When the count first reaches the objective target
// the completion latch fires and the point award is written to the ledger
// in the same transaction. A completed record ignores every later
// submission, so the award happens exactly once per pair.
// ══════════════════════════════════════════════════════════════════════════════

// RecordProgressCommand contains the data to record progress.
type RecordProgressCommand struct {
	// MemberID is the member whose progress is being recorded.
	MemberID string

	// ObjectiveID is the assigned objective.
	ObjectiveID string

	// NewCount is the absolute progress value. Not a delta: collaborators
	// submit the count they observed, and corrections downward are
	// allowed before completion.
	NewCount int

	// CallerID optionally identifies the acting member. When set, it must
	// match MemberID; collaborator services acting on behalf of the
	// system leave it empty.
	CallerID string
}

// Validate validates the command.
func (c RecordProgressCommand) Validate() error {
	if c.MemberID == "" {
		return errors.New("record_progress: member_id is required")
	}
	if c.ObjectiveID == "" {
		return errors.New("record_progress: objective_id is required")
	}
	if c.NewCount < 0 {
		return shared.ErrNegativeCount
	}
	if c.CallerID != "" && c.CallerID != c.MemberID {
		return shared.ErrMemberAccess
	}
	return nil
}

// RecordProgressResult contains the outcome of a progress application.
type RecordProgressResult struct {
	// Record is the post-application state.
	Record *progress.Record

	// Outcome tells the caller what happened: no change, count updated,
	// or completion latch fired.
	Outcome progress.Outcome

	// AwardedPoints is non-zero only when this call fired the latch.
	AwardedPoints int

	// LedgerEntry is the award entry written at completion, nil otherwise.
	LedgerEntry *ledger.Entry
}

// RecordProgressHandlerConfig contains configuration for the handler.
type RecordProgressHandlerConfig struct {
	// ConflictRetryAttempts is the total number of attempts when the
	// optimistic version check loses a race. The re-read on retry sees
	// the winner's state, so a latched record resolves idempotently.
	ConflictRetryAttempts int

	// AuditEvents controls whether progress audit rows are written.
	AuditEvents bool
}

// DefaultRecordProgressHandlerConfig returns default configuration.
func DefaultRecordProgressHandlerConfig() RecordProgressHandlerConfig {
	return RecordProgressHandlerConfig{
		ConflictRetryAttempts: 2,
		AuditEvents:           true,
	}
}

// RecordProgressHandler handles the RecordProgressCommand.
type RecordProgressHandler struct {
	objectiveRepo objective.Repository
	progressRepo  progress.Repository
	publisher     shared.EventPublisher
	retrier       *retry.Retrier
	auditEvents   bool
	log           *logger.Logger
}

// NewRecordProgressHandler creates a new RecordProgressHandler.
func NewRecordProgressHandler(
	objectiveRepo objective.Repository,
	progressRepo progress.Repository,
	publisher shared.EventPublisher,
	config RecordProgressHandlerConfig,
	log *logger.Logger,
) *RecordProgressHandler {
	if config.ConflictRetryAttempts <= 0 {
		config.ConflictRetryAttempts = DefaultRecordProgressHandlerConfig().ConflictRetryAttempts
	}
	if log == nil {
		log = logger.Default()
	}

	retrier := retry.New(
		retry.WithMaxAttempts(config.ConflictRetryAttempts),
		retry.WithInitialDelay(10*time.Millisecond),
		retry.WithRetryIf(func(err error) bool {
			return errors.Is(err, shared.ErrConcurrencyConflict)
		}),
	)

	return &RecordProgressHandler{
		objectiveRepo: objectiveRepo,
		progressRepo:  progressRepo,
		publisher:     publisher,
		retrier:       retrier,
		auditEvents:   config.AuditEvents,
		log:           log.With(logger.Component("command"), logger.Operation("record_progress")),
	}
}

// Handle applies an absolute progress count.
//
// Concurrency: each attempt re-reads the record, applies the count in
// memory and persists under the optimistic version check. A losing
// attempt writes nothing; the retry re-reads and, if the winner already
// latched the record, resolves to OutcomeNoChange without a second
// award. If the configured attempts are exhausted the conflict is
// surfaced to the caller.
func (h *RecordProgressHandler) Handle(ctx context.Context, cmd RecordProgressCommand) (*RecordProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	def, err := h.objectiveRepo.Get(ctx, cmd.ObjectiveID)
	if err != nil {
		return nil, err
	}

	var result *RecordProgressResult
	err = h.retrier.Do(ctx, func(ctx context.Context) error {
		attempt, attemptErr := h.attempt(ctx, cmd, def)
		if attemptErr != nil {
			return attemptErr
		}
		result = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.publishOutcome(cmd, result)
	return result, nil
}

// attempt runs one read-apply-persist cycle.
func (h *RecordProgressHandler) attempt(ctx context.Context, cmd RecordProgressCommand, def *objective.Definition) (*RecordProgressResult, error) {
	rec, err := h.progressRepo.Get(ctx, cmd.MemberID, cmd.ObjectiveID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	oldCount := rec.CurrentCount

	outcome, err := rec.ApplyCount(cmd.NewCount, def.TargetCount, def.Points, now)
	if err != nil {
		return nil, err
	}

	result := &RecordProgressResult{Record: rec, Outcome: outcome}

	switch outcome {
	case progress.OutcomeNoChange:
		// Already completed: idempotent, nothing persisted.
		return result, nil

	case progress.OutcomeCompleted:
		entry, entryErr := ledger.NewEntry(
			uuid.NewString(),
			cmd.MemberID,
			def.Points,
			ledger.SourceObjective,
			cmd.ObjectiveID,
			fmt.Sprintf("completed objective: %s", def.Title),
			now,
		)
		if entryErr != nil {
			return nil, entryErr
		}

		if err := h.progressRepo.CompleteAndAward(ctx, rec, entry, h.auditEvent(rec, oldCount, now)); err != nil {
			return nil, err
		}

		result.AwardedPoints = def.Points
		result.LedgerEntry = entry
		return result, nil

	default:
		if err := h.progressRepo.Update(ctx, rec, h.auditEvent(rec, oldCount, now)); err != nil {
			return nil, err
		}
		return result, nil
	}
}

// auditEvent builds the audit row, or nil when auditing is disabled.
func (h *RecordProgressHandler) auditEvent(rec *progress.Record, oldCount int, now time.Time) *progress.Event {
	if !h.auditEvents {
		return nil
	}
	return progress.NewEvent(uuid.NewString(), rec, oldCount, now)
}

// publishOutcome emits domain events after the write has committed.
func (h *RecordProgressHandler) publishOutcome(cmd RecordProgressCommand, result *RecordProgressResult) {
	switch result.Outcome {
	case progress.OutcomeCompleted:
		h.log.Info("objective completed",
			logger.MemberID(cmd.MemberID),
			logger.ObjectiveID(cmd.ObjectiveID),
			logger.PointsAmount(result.AwardedPoints),
		)
		if h.publisher != nil {
			_ = h.publisher.Publish(shared.NewObjectiveCompletedEvent(cmd.MemberID, cmd.ObjectiveID, result.AwardedPoints))
			_ = h.publisher.Publish(shared.NewPointsAwardedEvent(cmd.MemberID, result.AwardedPoints, string(ledger.SourceObjective), cmd.ObjectiveID))
		}

	case progress.OutcomeUpdated:
		h.log.Debug("progress recorded",
			logger.MemberID(cmd.MemberID),
			logger.ObjectiveID(cmd.ObjectiveID),
			logger.F("current_count", result.Record.CurrentCount),
		)
		if h.publisher != nil {
			_ = h.publisher.Publish(shared.NewGenericEvent(shared.EventProgressRecorded, result.Record.ID, map[string]interface{}{
				"member_id":     cmd.MemberID,
				"objective_id":  cmd.ObjectiveID,
				"current_count": result.Record.CurrentCount,
			}))
		}
	}
}
