package query

import (
	"context"
	"errors"
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET POINTS HISTORY QUERY
// Returns a member's ledger entries in chronological order. The ledger is
// the canonical record: every displayed total must be derivable from it.
// ══════════════════════════════════════════════════════════════════════════════

// GetPointsHistoryQuery contains the history parameters.
type GetPointsHistoryQuery struct {
	// MemberID is the member whose history is requested.
	MemberID string

	// Limit caps the result to the most recent entries. Zero means all.
	Limit int

	// From/To optionally bound the window. Zero times mean unbounded.
	From time.Time
	To   time.Time
}

// Validate validates the query.
func (q GetPointsHistoryQuery) Validate() error {
	if q.MemberID == "" {
		return errors.New("get_points_history: member_id is required")
	}
	if q.Limit < 0 {
		return errors.New("get_points_history: limit cannot be negative")
	}
	return nil
}

// GetPointsHistoryResult contains the entries oldest-first and their sum.
type GetPointsHistoryResult struct {
	Entries []*ledger.Entry
	Total   int
}

// GetPointsHistoryHandler handles the GetPointsHistoryQuery.
type GetPointsHistoryHandler struct {
	ledgerRepo ledger.Repository
}

// NewGetPointsHistoryHandler creates a new GetPointsHistoryHandler.
func NewGetPointsHistoryHandler(ledgerRepo ledger.Repository) *GetPointsHistoryHandler {
	return &GetPointsHistoryHandler{ledgerRepo: ledgerRepo}
}

// Handle returns the member's entries, oldest first. With a limit, the
// most recent entries are kept and chronological order is preserved.
func (h *GetPointsHistoryHandler) Handle(ctx context.Context, q GetPointsHistoryQuery) (*GetPointsHistoryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	entries, err := h.ledgerRepo.Query(ctx, q.MemberID, q.From, q.To)
	if err != nil {
		return nil, err
	}

	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[len(entries)-q.Limit:]
	}

	total := 0
	for _, e := range entries {
		total += e.Points
	}

	return &GetPointsHistoryResult{Entries: entries, Total: total}, nil
}
