package query

import (
	"context"
	"errors"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST MEMBER PROGRESS QUERY
// Returns all of a member's assignments, newest first, with a completion
// tally for dashboard display.
// ══════════════════════════════════════════════════════════════════════════════

// ListMemberProgressQuery identifies the member.
type ListMemberProgressQuery struct {
	MemberID string
}

// Validate validates the query.
func (q ListMemberProgressQuery) Validate() error {
	if q.MemberID == "" {
		return errors.New("list_member_progress: member_id is required")
	}
	return nil
}

// ListMemberProgressResult contains the member's records.
type ListMemberProgressResult struct {
	Records   []*progress.Record
	Total     int
	Completed int
}

// ListMemberProgressHandler handles the ListMemberProgressQuery.
type ListMemberProgressHandler struct {
	progressRepo progress.Repository
}

// NewListMemberProgressHandler creates a new ListMemberProgressHandler.
func NewListMemberProgressHandler(progressRepo progress.Repository) *ListMemberProgressHandler {
	return &ListMemberProgressHandler{progressRepo: progressRepo}
}

// Handle lists the member's progress records.
func (h *ListMemberProgressHandler) Handle(ctx context.Context, q ListMemberProgressQuery) (*ListMemberProgressResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	records, err := h.progressRepo.ListByMember(ctx, q.MemberID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, rec := range records {
		if rec.IsCompleted {
			completed++
		}
	}

	return &ListMemberProgressResult{Records: records, Total: len(records), Completed: completed}, nil
}
