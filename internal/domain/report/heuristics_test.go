package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/engagement"
)

func makeEntry(member, activity string, hours, impact float64) *engagement.Entry {
	now := time.Now().UTC()
	return &engagement.Entry{
		ID:               member + "-" + activity,
		MemberID:         member,
		ActivityID:       activity,
		ActionType:       engagement.ActionAttendance,
		HoursContributed: hours,
		ImpactScore:      impact,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestAggregate_SmallPeriod(t *testing.T) {
	// Two volunteers, 30 hours total, 2 distinct activities: both the
	// low-hours and low-diversity branches should trip.
	entries := []*engagement.Entry{
		makeEntry("m1", "cleanup", 12, 4.0),
		makeEntry("m2", "cleanup", 8, 2.5),
		makeEntry("m1", "foodbank", 10, 3.0),
	}

	agg := Aggregate(entries)

	assert.Equal(t, 2, agg.UniqueVolunteers)
	assert.Equal(t, 2, agg.UniqueActivities)
	assert.InDelta(t, 30.0, agg.TotalHours, 1e-9)
	assert.InDelta(t, 9.5, agg.TotalImpactScore, 1e-9)
	assert.InDelta(t, 15.0, agg.AvgHoursPerVolunteer, 1e-9)
	assert.Equal(t, 0, agg.SkippedEntries)
}

func TestAggregate_SkipsMalformedEntries(t *testing.T) {
	bad := makeEntry("", "cleanup", 5, 1.0)
	negative := makeEntry("m1", "cleanup", -2, 1.0)
	entries := []*engagement.Entry{
		makeEntry("m1", "cleanup", 10, 2.0),
		bad,
		negative,
		nil,
	}

	agg := Aggregate(entries)

	assert.Equal(t, 1, agg.UniqueVolunteers)
	assert.InDelta(t, 10.0, agg.TotalHours, 1e-9)
	assert.Equal(t, 3, agg.SkippedEntries)
}

func TestAggregate_EmptyPeriod(t *testing.T) {
	agg := Aggregate(nil)

	assert.Equal(t, 0, agg.UniqueVolunteers)
	assert.Equal(t, 0, agg.UniqueActivities)
	assert.Zero(t, agg.TotalHours)
	// No volunteers: the average must be zero, not NaN.
	assert.Zero(t, agg.AvgHoursPerVolunteer)
}

func TestSuggest_LowHoursLowDiversity(t *testing.T) {
	suggestions := Suggest(Aggregates{TotalHours: 30, UniqueActivities: 2})

	assert.Equal(t, []string{SuggestionBoostHours, SuggestionDiversify}, suggestions)
}

func TestSuggest_HighHoursHighDiversity(t *testing.T) {
	suggestions := Suggest(Aggregates{TotalHours: 200, UniqueActivities: 8})

	assert.Equal(t, []string{SuggestionLeadership, SuggestionMonitorBurnout}, suggestions)
}

func TestSuggest_ThresholdBoundaries(t *testing.T) {
	// Exactly at the thresholds: neither "low" branch trips.
	suggestions := Suggest(Aggregates{TotalHours: LowHoursThreshold, UniqueActivities: LowDiversityThreshold})
	assert.Equal(t, []string{SuggestionLeadership, SuggestionMonitorBurnout}, suggestions)

	// Just below both.
	suggestions = Suggest(Aggregates{TotalHours: LowHoursThreshold - 0.01, UniqueActivities: LowDiversityThreshold - 1})
	assert.Equal(t, []string{SuggestionBoostHours, SuggestionDiversify}, suggestions)
}

func TestSuggest_MixedBranches(t *testing.T) {
	suggestions := Suggest(Aggregates{TotalHours: 200, UniqueActivities: 2})
	assert.Equal(t, []string{SuggestionLeadership, SuggestionDiversify}, suggestions)

	suggestions = Suggest(Aggregates{TotalHours: 10, UniqueActivities: 9})
	assert.Equal(t, []string{SuggestionBoostHours, SuggestionMonitorBurnout}, suggestions)
}

func TestAggregate_Deterministic(t *testing.T) {
	entries := []*engagement.Entry{
		makeEntry("m1", "cleanup", 12, 4.0),
		makeEntry("m2", "foodbank", 8, 2.5),
		makeEntry("m3", "mentoring", 40, 9.0),
	}

	first := Aggregate(entries)
	second := Aggregate(entries)

	assert.Equal(t, first, second)
	assert.Equal(t, Suggest(first), Suggest(second))
}
