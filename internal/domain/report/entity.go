// Package report contains organization-level impact reports: persisted,
// point-in-time aggregation snapshots over the engagement log, with derived
// heuristic suggestions. Reports are historical records and are never
// recomputed in place. This is a pure domain layer with zero external dependencies.
package report

import (
	"strings"
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

// ImpactReport is one immutable report snapshot.
type ImpactReport struct {
	ID             string
	OrganizationID string
	ReportType     string
	Title          string

	// Optional period bounds. Nil means unbounded on that side.
	PeriodStart *time.Time
	PeriodEnd   *time.Time

	TotalHours          float64
	TotalVolunteers     int
	ActivitiesCompleted int

	// Metrics holds derived numeric and string values keyed by name.
	Metrics map[string]interface{}

	// Suggestions is an ordered list of heuristic recommendations.
	Suggestions []string

	GeneratedBy string
	CreatedAt   time.Time
}

// Validate checks the report fields before persistence.
func (r *ImpactReport) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return shared.ErrReportTitleEmpty
	}
	if r.GeneratedBy == "" {
		return shared.ErrMissingCaller
	}
	if r.PeriodStart != nil && r.PeriodEnd != nil && r.PeriodStart.After(*r.PeriodEnd) {
		return shared.ErrReportPeriod
	}
	return nil
}
