package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/report"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ReportRepository implements report.Repository for PostgreSQL.
// Reports are write-once snapshots; there is no update.
type ReportRepository struct {
	conn *Connection
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(conn *Connection) *ReportRepository {
	return &ReportRepository{conn: conn}
}

// Save persists a generated report snapshot.
func (r *ReportRepository) Save(ctx context.Context, rep *report.ImpactReport) error {
	metricsJSON, err := json.Marshal(rep.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal report metrics: %w", err)
	}

	query := `
		INSERT INTO impact_reports (
			id, organization_id, report_type, title, period_start, period_end,
			total_hours, total_volunteers, activities_completed, metrics,
			suggestions, generated_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.conn.Exec(ctx, query,
		rep.ID,
		rep.OrganizationID,
		rep.ReportType,
		rep.Title,
		rep.PeriodStart,
		rep.PeriodEnd,
		rep.TotalHours,
		rep.TotalVolunteers,
		rep.ActivitiesCompleted,
		metricsJSON,
		rep.Suggestions,
		rep.GeneratedBy,
		rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Get returns a report by ID.
func (r *ReportRepository) Get(ctx context.Context, id string) (*report.ImpactReport, error) {
	query := `
		SELECT id, organization_id, report_type, title, period_start, period_end,
		       total_hours, total_volunteers, activities_completed, metrics,
		       suggestions, generated_by, created_at
		FROM impact_reports
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	rep, err := scanReport(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rep, nil
}

// List returns reports, optionally filtered by organization, newest first.
func (r *ReportRepository) List(ctx context.Context, organizationID string) ([]*report.ImpactReport, error) {
	query := `
		SELECT id, organization_id, report_type, title, period_start, period_end,
		       total_hours, total_volunteers, activities_completed, metrics,
		       suggestions, generated_by, created_at
		FROM impact_reports
	`
	args := []interface{}{}

	if organizationID != "" {
		args = append(args, organizationID)
		query += " WHERE organization_id = $1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*report.ImpactReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}

// scanReport scans one report from a row.
func scanReport(row pgx.Row) (*report.ImpactReport, error) {
	var rep report.ImpactReport
	var metricsJSON []byte

	err := row.Scan(
		&rep.ID,
		&rep.OrganizationID,
		&rep.ReportType,
		&rep.Title,
		&rep.PeriodStart,
		&rep.PeriodEnd,
		&rep.TotalHours,
		&rep.TotalVolunteers,
		&rep.ActivitiesCompleted,
		&metricsJSON,
		&rep.Suggestions,
		&rep.GeneratedBy,
		&rep.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metricsJSON) > 0 {
		if err := json.Unmarshal(metricsJSON, &rep.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report metrics: %w", err)
		}
	}
	return &rep, nil
}
