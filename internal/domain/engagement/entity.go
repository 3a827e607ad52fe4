// Package engagement contains the append-only engagement log: volunteering
// and contribution actions carrying hours and an impact score. The log is
// independent of the points ledger and feeds impact reporting.
// This is a pure domain layer with zero external dependencies.
package engagement

import (
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

// ActionType categorizes an engagement action.
type ActionType string

const (
	ActionAttendance   ActionType = "attendance"
	ActionContribution ActionType = "contribution"
	ActionInteraction  ActionType = "interaction"
	ActionOrganizing   ActionType = "organizing"
	ActionDonation     ActionType = "donation"
)

// IsValid checks the action type value.
func (a ActionType) IsValid() bool {
	switch a {
	case ActionAttendance, ActionContribution, ActionInteraction, ActionOrganizing, ActionDonation:
		return true
	}
	return false
}

// Entry is one logged engagement action for one member.
type Entry struct {
	ID       string
	MemberID string

	// ActivityID links the action to an activity, if any. Empty for
	// standalone actions.
	ActivityID string

	ActionType       ActionType
	HoursContributed float64
	PointsEarned     int
	ImpactScore      float64

	// Metadata carries free-form collaborator data; the engine never
	// interprets it.
	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEntry creates an engagement entry with validation.
func NewEntry(id, memberID, activityID string, actionType ActionType, hours float64, points int, impact float64, metadata map[string]string, now time.Time) (*Entry, error) {
	if memberID == "" {
		return nil, shared.NewDomainError("engagement", "Validate", shared.ErrEmptyValue,
			"member ID is required")
	}
	if !actionType.IsValid() {
		return nil, shared.ErrInvalidActionType
	}
	if hours < 0 {
		return nil, shared.ErrNegativeHours
	}
	return &Entry{
		ID:               id,
		MemberID:         memberID,
		ActivityID:       activityID,
		ActionType:       actionType,
		HoursContributed: hours,
		PointsEarned:     points,
		ImpactScore:      impact,
		Metadata:         metadata,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Malformed reports whether a stored entry should be excluded from
// aggregation. Aggregation skips such rows (logging them) rather than
// aborting the whole computation.
func (e *Entry) Malformed() bool {
	return e.MemberID == "" || e.HoursContributed < 0 || !e.ActionType.IsValid()
}

// ImpactSummary is the per-member aggregation over the engagement log.
type ImpactSummary struct {
	MemberID         string
	TotalHours       float64
	TotalPoints      int
	TotalImpactScore float64
	ActionsCount     int
	ByType           map[ActionType]int
}

// Summarize aggregates entries into an ImpactSummary, skipping malformed
// rows and reporting how many were skipped. Pure function, no side effects.
func Summarize(memberID string, entries []*Entry) (ImpactSummary, int) {
	summary := ImpactSummary{
		MemberID: memberID,
		ByType:   make(map[ActionType]int),
	}
	skipped := 0
	for _, e := range entries {
		if e == nil || e.Malformed() {
			skipped++
			continue
		}
		summary.TotalHours += e.HoursContributed
		summary.TotalPoints += e.PointsEarned
		summary.TotalImpactScore += e.ImpactScore
		summary.ActionsCount++
		summary.ByType[e.ActionType]++
	}
	return summary, skipped
}
