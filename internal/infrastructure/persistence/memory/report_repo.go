package memory

import (
	"context"
	"sort"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/report"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

// ReportRepository implements report.Repository in memory.
type ReportRepository struct {
	store *Store
}

// Save persists an impact report.
func (r *ReportRepository) Save(_ context.Context, rep *report.ImpactReport) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.reports[rep.ID] = cloneReport(rep)
	return nil
}

// Get returns a report by ID.
func (r *ReportRepository) Get(_ context.Context, id string) (*report.ImpactReport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rep, ok := r.store.reports[id]
	if !ok {
		return nil, shared.ErrReportNotFound
	}
	return cloneReport(rep), nil
}

// List returns reports, newest first, optionally filtered by organization.
func (r *ReportRepository) List(_ context.Context, organizationID string) ([]*report.ImpactReport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var reports []*report.ImpactReport
	for _, rep := range r.store.reports {
		if organizationID != "" && rep.OrganizationID != organizationID {
			continue
		}
		reports = append(reports, cloneReport(rep))
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

func cloneReport(rep *report.ImpactReport) *report.ImpactReport {
	cp := *rep
	if rep.Suggestions != nil {
		cp.Suggestions = append([]string(nil), rep.Suggestions...)
	}
	if rep.Metrics != nil {
		cp.Metrics = make(map[string]interface{}, len(rep.Metrics))
		for k, v := range rep.Metrics {
			cp.Metrics[k] = v
		}
	}
	return &cp
}
