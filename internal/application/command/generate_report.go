package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/engagement"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/report"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GENERATE IMPACT REPORT COMMAND
// Aggregates the engagement log over a period into an immutable report
// snapshot with heuristic suggestions. Generation is deterministic:
// identical log contents and period yield identical aggregates and
// suggestions (timestamps and IDs differ).
// ══════════════════════════════════════════════════════════════════════════════

// Authorizer decides whether a caller may generate reports for an
// organization. Permission data lives outside the engine.
type Authorizer interface {
	// CanGenerateReport returns shared.ErrOrgAccessDenied (or another
	// error) to refuse. OrganizationID may be empty for global reports.
	CanGenerateReport(ctx context.Context, callerID, organizationID string) error
}

// AllowAllAuthorizer accepts every caller. Used when no permission
// collaborator is wired.
type AllowAllAuthorizer struct{}

// CanGenerateReport implements Authorizer.
func (AllowAllAuthorizer) CanGenerateReport(ctx context.Context, callerID, organizationID string) error {
	return nil
}

// GenerateReportCommand contains the data to generate an impact report.
type GenerateReportCommand struct {
	// ReportType labels the report (weekly/monthly/annual/ad-hoc).
	ReportType string

	// Title is the report headline. Required.
	Title string

	// PeriodStart/PeriodEnd bound the engagement window. Nil means open.
	PeriodStart *time.Time
	PeriodEnd   *time.Time

	// OrganizationID optionally scopes the report to an organization.
	OrganizationID string

	// CallerID identifies who requested the report. Required: anonymous
	// report generation is refused.
	CallerID string
}

// Validate validates the command.
func (c GenerateReportCommand) Validate() error {
	if c.CallerID == "" {
		return shared.ErrMissingCaller
	}
	if c.Title == "" {
		return shared.ErrReportTitleEmpty
	}
	if c.PeriodStart != nil && c.PeriodEnd != nil && c.PeriodStart.After(*c.PeriodEnd) {
		return shared.ErrReportPeriod
	}
	return nil
}

// GenerateReportResult contains the generated report.
type GenerateReportResult struct {
	Report *report.ImpactReport

	// SkippedEntries counts malformed engagement rows excluded from the
	// aggregation.
	SkippedEntries int
}

// GenerateReportHandler handles the GenerateReportCommand.
type GenerateReportHandler struct {
	engagementRepo engagement.Repository
	reportRepo     report.Repository
	authorizer     Authorizer
	publisher      shared.EventPublisher
	log            *logger.Logger
}

// NewGenerateReportHandler creates a new GenerateReportHandler. A nil
// authorizer allows every caller.
func NewGenerateReportHandler(
	engagementRepo engagement.Repository,
	reportRepo report.Repository,
	authorizer Authorizer,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *GenerateReportHandler {
	if authorizer == nil {
		authorizer = AllowAllAuthorizer{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &GenerateReportHandler{
		engagementRepo: engagementRepo,
		reportRepo:     reportRepo,
		authorizer:     authorizer,
		publisher:      publisher,
		log:            log.With(logger.Component("command"), logger.Operation("generate_report")),
	}
}

// Handle generates and persists an impact report. The caller identity is
// checked before any data is read.
func (h *GenerateReportHandler) Handle(ctx context.Context, cmd GenerateReportCommand) (*GenerateReportResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.authorizer.CanGenerateReport(ctx, cmd.CallerID, cmd.OrganizationID); err != nil {
		return nil, err
	}

	var from, to time.Time
	if cmd.PeriodStart != nil {
		from = *cmd.PeriodStart
	}
	if cmd.PeriodEnd != nil {
		to = *cmd.PeriodEnd
	}

	entries, err := h.engagementRepo.QueryPeriod(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("generate_report: %w", err)
	}

	agg := report.Aggregate(entries)
	suggestions := report.Suggest(agg)

	if agg.SkippedEntries > 0 {
		h.log.Warn("malformed engagement entries skipped during aggregation",
			logger.F("skipped", agg.SkippedEntries),
		)
	}

	now := time.Now().UTC()
	rep := &report.ImpactReport{
		ID:                  uuid.NewString(),
		OrganizationID:      cmd.OrganizationID,
		ReportType:          cmd.ReportType,
		Title:               cmd.Title,
		PeriodStart:         cmd.PeriodStart,
		PeriodEnd:           cmd.PeriodEnd,
		TotalHours:          agg.TotalHours,
		TotalVolunteers:     agg.UniqueVolunteers,
		ActivitiesCompleted: agg.UniqueActivities,
		Metrics: map[string]interface{}{
			"total_hours":             agg.TotalHours,
			"total_volunteers":        agg.UniqueVolunteers,
			"unique_activities":       agg.UniqueActivities,
			"total_impact_score":      agg.TotalImpactScore,
			"avg_hours_per_volunteer": agg.AvgHoursPerVolunteer,
		},
		Suggestions: suggestions,
		GeneratedBy: cmd.CallerID,
		CreatedAt:   now,
	}

	if err := rep.Validate(); err != nil {
		return nil, err
	}

	if err := h.reportRepo.Save(ctx, rep); err != nil {
		return nil, fmt.Errorf("generate_report: %w", err)
	}

	h.log.Info("impact report generated",
		logger.ReportID(rep.ID),
		logger.F("report_type", rep.ReportType),
		logger.Hours(rep.TotalHours),
		logger.F("volunteers", rep.TotalVolunteers),
	)

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewGenericEvent(shared.EventReportGenerated, rep.ID, map[string]interface{}{
			"report_id":    rep.ID,
			"report_type":  rep.ReportType,
			"generated_by": cmd.CallerID,
		}))
	}

	return &GenerateReportResult{Report: rep, SkippedEntries: agg.SkippedEntries}, nil
}
