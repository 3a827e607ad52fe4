package report

import (
	"context"
)

// Repository defines the interface for report persistence. Reports are
// write-once: there is no update.
type Repository interface {
	// Save persists a generated report snapshot.
	Save(ctx context.Context, r *ImpactReport) error

	// Get returns a report by ID, or shared.ErrReportNotFound.
	Get(ctx context.Context, id string) (*ImpactReport, error)

	// List returns reports, optionally filtered by organization, newest
	// first. An empty organizationID returns all reports.
	List(ctx context.Context, organizationID string) ([]*ImpactReport, error)
}
