package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/engagement"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/report"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/internal/infrastructure/persistence/memory"
)

func newReportHandler(store *memory.Store, auth Authorizer) *GenerateReportHandler {
	return NewGenerateReportHandler(store.Engagements(), store.Reports(), auth, nil, nil)
}

func seedEngagement(t *testing.T, store *memory.Store, id, memberID, activityID string, hours, impact float64, at time.Time) {
	t.Helper()
	entry, err := engagement.NewEntry(id, memberID, activityID, engagement.ActionAttendance, hours, 0, impact, nil, at)
	require.NoError(t, err)
	require.NoError(t, store.Engagements().Append(context.Background(), entry))
}

func TestGenerateReport_AggregatesPeriod(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	seedEngagement(t, store, "e1", "m1", "act-1", 10, 3.0, base)
	seedEngagement(t, store, "e2", "m2", "act-2", 20, 4.5, base.Add(24*time.Hour))
	seedEngagement(t, store, "e3", "m1", "act-1", 5, 1.0, base.Add(48*time.Hour))
	// Outside the period: must not be counted.
	seedEngagement(t, store, "e4", "m3", "act-3", 100, 9.0, base.AddDate(0, 2, 0))

	handler := newReportHandler(store, nil)
	from := base.Add(-time.Hour)
	to := base.Add(72 * time.Hour)

	res, err := handler.Handle(context.Background(), GenerateReportCommand{
		ReportType:  "monthly",
		Title:       "March drive recap",
		PeriodStart: &from,
		PeriodEnd:   &to,
		CallerID:    "coordinator-1",
	})

	require.NoError(t, err)
	rep := res.Report
	assert.InDelta(t, 35.0, rep.TotalHours, 1e-9)
	assert.Equal(t, 2, rep.TotalVolunteers)
	assert.Equal(t, 2, rep.ActivitiesCompleted)
	assert.Equal(t, "coordinator-1", rep.GeneratedBy)
	assert.InDelta(t, 8.5, rep.Metrics["total_impact_score"].(float64), 1e-9)
	assert.InDelta(t, 17.5, rep.Metrics["avg_hours_per_volunteer"].(float64), 1e-9)

	// 35h < 50 and 2 activities < 5: both low branches.
	require.Len(t, rep.Suggestions, 2)
	assert.Equal(t, report.SuggestionBoostHours, rep.Suggestions[0])
	assert.Equal(t, report.SuggestionDiversify, rep.Suggestions[1])

	stored, err := store.Reports().Get(context.Background(), rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.Title, stored.Title)
}

func TestGenerateReport_SkipsMalformedEntries(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()
	seedEngagement(t, store, "e1", "m1", "act-1", 12, 2.0, now)

	// Stored rows can be malformed (written before validation tightened);
	// aggregation excludes them instead of failing.
	require.NoError(t, store.Engagements().Append(context.Background(), &engagement.Entry{
		ID:               "e-bad",
		MemberID:         "m2",
		ActionType:       engagement.ActionAttendance,
		HoursContributed: -4,
		CreatedAt:        now,
	}))

	handler := newReportHandler(store, nil)
	res, err := handler.Handle(context.Background(), GenerateReportCommand{
		Title:    "integrity check",
		CallerID: "coordinator-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.SkippedEntries)
	assert.InDelta(t, 12.0, res.Report.TotalHours, 1e-9)
	assert.Equal(t, 1, res.Report.TotalVolunteers)
}

func TestGenerateReport_Deterministic(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	for i, member := range []string{"m1", "m2", "m3"} {
		seedEngagement(t, store, "e"+member, member, "act-1", float64(10*(i+1)), 2.0, base.Add(time.Duration(i)*time.Hour))
	}

	handler := newReportHandler(store, nil)
	cmd := GenerateReportCommand{Title: "repeatable", CallerID: "coordinator-1"}

	first, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, first.Report.TotalHours, second.Report.TotalHours)
	assert.Equal(t, first.Report.TotalVolunteers, second.Report.TotalVolunteers)
	assert.Equal(t, first.Report.Suggestions, second.Report.Suggestions)
	assert.NotEqual(t, first.Report.ID, second.Report.ID)
}

func TestGenerateReport_RequiresCaller(t *testing.T) {
	store := memory.NewStore()
	handler := newReportHandler(store, nil)

	_, err := handler.Handle(context.Background(), GenerateReportCommand{Title: "anonymous"})

	assert.ErrorIs(t, err, shared.ErrMissingCaller)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestGenerateReport_PeriodOrdering(t *testing.T) {
	store := memory.NewStore()
	handler := newReportHandler(store, nil)
	start := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)

	_, err := handler.Handle(context.Background(), GenerateReportCommand{
		Title:       "backwards window",
		PeriodStart: &start,
		PeriodEnd:   &end,
		CallerID:    "coordinator-1",
	})

	assert.ErrorIs(t, err, shared.ErrReportPeriod)
}

type denyAuthorizer struct{}

func (denyAuthorizer) CanGenerateReport(_ context.Context, _, _ string) error {
	return shared.ErrOrgAccessDenied
}

func TestGenerateReport_AuthorizerRefusal(t *testing.T) {
	store := memory.NewStore()
	seedEngagement(t, store, "e1", "m1", "act-1", 10, 2.0, time.Now().UTC())
	handler := newReportHandler(store, denyAuthorizer{})

	_, err := handler.Handle(context.Background(), GenerateReportCommand{
		Title:          "restricted",
		OrganizationID: "org-1",
		CallerID:       "outsider",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	// Refusal happens before anything is written.
	reports, listErr := store.Reports().List(context.Background(), "org-1")
	require.NoError(t, listErr)
	assert.Empty(t, reports)
}
