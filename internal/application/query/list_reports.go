package query

import (
	"context"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/report"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST IMPACT REPORTS QUERY
// Returns persisted report snapshots, newest first. Reports are never
// recomputed on read.
// ══════════════════════════════════════════════════════════════════════════════

// ListReportsQuery contains the listing parameters.
type ListReportsQuery struct {
	// OrganizationID filters to one organization. Empty returns all.
	OrganizationID string
}

// ListReportsResult contains the matching reports.
type ListReportsResult struct {
	Reports []*report.ImpactReport
	Total   int
}

// ListReportsHandler handles the ListReportsQuery.
type ListReportsHandler struct {
	reportRepo report.Repository
}

// NewListReportsHandler creates a new ListReportsHandler.
func NewListReportsHandler(reportRepo report.Repository) *ListReportsHandler {
	return &ListReportsHandler{reportRepo: reportRepo}
}

// Handle lists report snapshots.
func (h *ListReportsHandler) Handle(ctx context.Context, q ListReportsQuery) (*ListReportsResult, error) {
	reports, err := h.reportRepo.List(ctx, q.OrganizationID)
	if err != nil {
		return nil, err
	}
	return &ListReportsResult{Reports: reports, Total: len(reports)}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET IMPACT REPORT QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetReportQuery identifies a single report.
type GetReportQuery struct {
	ReportID string
}

// GetReportHandler handles the GetReportQuery.
type GetReportHandler struct {
	reportRepo report.Repository
}

// NewGetReportHandler creates a new GetReportHandler.
func NewGetReportHandler(reportRepo report.Repository) *GetReportHandler {
	return &GetReportHandler{reportRepo: reportRepo}
}

// Handle returns one report, or shared.ErrReportNotFound.
func (h *GetReportHandler) Handle(ctx context.Context, q GetReportQuery) (*report.ImpactReport, error) {
	return h.reportRepo.Get(ctx, q.ReportID)
}
