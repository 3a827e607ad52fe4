package report

import (
	"math"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/engagement"
)

// Fixed heuristic thresholds. Both suggestion branches are evaluated
// independently, so a report always carries exactly two suggestions.
const (
	// LowHoursThreshold is the community-hours floor below which a
	// volunteering drive is suggested.
	LowHoursThreshold = 50.0

	// LowDiversityThreshold is the distinct-activity floor below which
	// portfolio diversification is suggested.
	LowDiversityThreshold = 5
)

// Suggestion texts. Stable strings: downstream consumers match on them.
const (
	SuggestionBoostHours     = "organize a major volunteering drive to boost community hours"
	SuggestionLeadership     = "retention is strong; invest in leadership training for top contributors"
	SuggestionDiversify      = "diversify activity portfolio to attract varied skills/interests"
	SuggestionMonitorBurnout = "high activity volume; monitor for volunteer burnout and ensure quality"
)

// Aggregates holds the derived figures for a period's engagement set.
type Aggregates struct {
	UniqueVolunteers     int
	UniqueActivities     int
	TotalHours           float64
	TotalImpactScore     float64
	AvgHoursPerVolunteer float64
	SkippedEntries       int
}

// Aggregate computes report aggregates over a filtered engagement set.
// Malformed entries are counted and excluded rather than failing the
// computation. Pure function: identical inputs yield identical outputs.
func Aggregate(entries []*engagement.Entry) Aggregates {
	volunteers := make(map[string]struct{})
	activities := make(map[string]struct{})

	agg := Aggregates{}
	for _, e := range entries {
		if e == nil || e.Malformed() {
			agg.SkippedEntries++
			continue
		}
		volunteers[e.MemberID] = struct{}{}
		if e.ActivityID != "" {
			activities[e.ActivityID] = struct{}{}
		}
		agg.TotalHours += e.HoursContributed
		agg.TotalImpactScore += e.ImpactScore
	}

	agg.UniqueVolunteers = len(volunteers)
	agg.UniqueActivities = len(activities)
	if agg.UniqueVolunteers > 0 {
		agg.AvgHoursPerVolunteer = round2(agg.TotalHours / float64(agg.UniqueVolunteers))
	}
	return agg
}

// Suggest derives the ordered suggestion list from aggregates using the
// fixed thresholds. Hours branch first, then diversity branch.
func Suggest(agg Aggregates) []string {
	suggestions := make([]string, 0, 2)

	if agg.TotalHours < LowHoursThreshold {
		suggestions = append(suggestions, SuggestionBoostHours)
	} else {
		suggestions = append(suggestions, SuggestionLeadership)
	}

	if agg.UniqueActivities < LowDiversityThreshold {
		suggestions = append(suggestions, SuggestionDiversify)
	} else {
		suggestions = append(suggestions, SuggestionMonitorBurnout)
	}

	return suggestions
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
