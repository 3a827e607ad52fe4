package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPEND LEDGER ENTRY COMMAND
// Writes a point-earning event for sources other than the completion
// latch: activity participation, bonuses, manual adjustments. The ledger
// is append-only, so corrections are compensating entries, never edits.
// ══════════════════════════════════════════════════════════════════════════════

// AppendLedgerEntryCommand contains the data to append a ledger entry.
type AppendLedgerEntryCommand struct {
	// MemberID is the member earning (or losing) points.
	MemberID string

	// Points is the signed amount. Negative amounts are reserved for
	// manual adjustments.
	Points int

	// SourceType is the earning source (activity/objective/bonus/manual).
	SourceType ledger.SourceType

	// SourceID optionally links the entry to its source record.
	SourceID string

	// Description is free-form audit text.
	Description string
}

// AppendLedgerEntryResult contains the appended entry.
type AppendLedgerEntryResult struct {
	Entry *ledger.Entry
}

// AppendLedgerEntryHandler handles the AppendLedgerEntryCommand.
type AppendLedgerEntryHandler struct {
	ledgerRepo ledger.Repository
	publisher  shared.EventPublisher
	log        *logger.Logger
}

// NewAppendLedgerEntryHandler creates a new AppendLedgerEntryHandler.
func NewAppendLedgerEntryHandler(
	ledgerRepo ledger.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *AppendLedgerEntryHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AppendLedgerEntryHandler{
		ledgerRepo: ledgerRepo,
		publisher:  publisher,
		log:        log.With(logger.Component("command"), logger.Operation("append_ledger_entry")),
	}
}

// Handle validates and appends a ledger entry.
func (h *AppendLedgerEntryHandler) Handle(ctx context.Context, cmd AppendLedgerEntryCommand) (*AppendLedgerEntryResult, error) {
	now := time.Now().UTC()

	entry, err := ledger.NewEntry(
		uuid.NewString(),
		cmd.MemberID,
		cmd.Points,
		cmd.SourceType,
		cmd.SourceID,
		cmd.Description,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err := h.ledgerRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append_ledger_entry: %w", err)
	}

	h.log.Info("ledger entry appended",
		logger.MemberID(cmd.MemberID),
		logger.PointsAmount(cmd.Points),
		logger.F("source_type", string(cmd.SourceType)),
	)

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewPointsAwardedEvent(cmd.MemberID, cmd.Points, string(cmd.SourceType), cmd.SourceID))
	}

	return &AppendLedgerEntryResult{Entry: entry}, nil
}
