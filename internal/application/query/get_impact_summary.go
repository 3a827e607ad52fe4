package query

import (
	"context"
	"errors"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/engagement"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER IMPACT SUMMARY QUERY
// Aggregates a member's engagement log into totals and an action-type
// breakdown. Malformed rows are skipped and logged, never fatal: a single
// bad record must not hide a member's whole history.
// ══════════════════════════════════════════════════════════════════════════════

// GetImpactSummaryQuery identifies the member.
type GetImpactSummaryQuery struct {
	MemberID string
}

// Validate validates the query.
func (q GetImpactSummaryQuery) Validate() error {
	if q.MemberID == "" {
		return errors.New("get_impact_summary: member_id is required")
	}
	return nil
}

// GetImpactSummaryResult contains the aggregation.
type GetImpactSummaryResult struct {
	Summary engagement.ImpactSummary

	// SkippedEntries counts malformed rows excluded from the totals.
	SkippedEntries int
}

// GetImpactSummaryHandler handles the GetImpactSummaryQuery.
type GetImpactSummaryHandler struct {
	engagementRepo engagement.Repository
	log            *logger.Logger
}

// NewGetImpactSummaryHandler creates a new GetImpactSummaryHandler.
func NewGetImpactSummaryHandler(engagementRepo engagement.Repository, log *logger.Logger) *GetImpactSummaryHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetImpactSummaryHandler{
		engagementRepo: engagementRepo,
		log:            log.With(logger.Component("query"), logger.Operation("get_impact_summary")),
	}
}

// Handle aggregates the member's engagement entries.
func (h *GetImpactSummaryHandler) Handle(ctx context.Context, q GetImpactSummaryQuery) (*GetImpactSummaryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	entries, err := h.engagementRepo.QueryByMember(ctx, q.MemberID)
	if err != nil {
		return nil, err
	}

	summary, skipped := engagement.Summarize(q.MemberID, entries)
	if skipped > 0 {
		h.log.Warn("malformed engagement entries skipped",
			logger.MemberID(q.MemberID),
			logger.F("skipped", skipped),
		)
	}

	return &GetImpactSummaryResult{Summary: summary, SkippedEntries: skipped}, nil
}
