package ledger

import (
	"context"
	"time"
)

// StatsSummary is a per-member view derived from the ledger: the lifetime
// total plus calendar-bucketed totals for the current year. It is always
// recomputable from the entries; caches hold TTL'd copies only.
type StatsSummary struct {
	// MemberID is the member the stats belong to.
	MemberID string `json:"member_id"`

	// Total is the lifetime point total over all entries.
	Total int `json:"total"`

	// ThisWeek is the total since the start of the current week
	// (Sunday-aligned, 00:00 UTC).
	ThisWeek int `json:"this_week"`

	// ThisMonth is the total since the first of the current month.
	ThisMonth int `json:"this_month"`

	// ThisYear is the total since January 1.
	ThisYear int `json:"this_year"`

	// WeeklyBuckets maps week labels ("W1".."W53") to current-year totals.
	WeeklyBuckets map[string]int `json:"weekly_buckets"`

	// MonthlyBuckets maps short month names ("Jan".."Dec") to
	// current-year totals.
	MonthlyBuckets map[string]int `json:"monthly_buckets"`

	// ComputedAt is when the summary was derived from the ledger.
	ComputedAt time.Time `json:"computed_at"`
}

// StatsCache caches per-member stats summaries. Implementations signal a
// miss with their own error; callers treat any failed Get as a miss and
// recompute from the ledger.
type StatsCache interface {
	Get(ctx context.Context, memberID string) (*StatsSummary, error)
	Set(ctx context.Context, summary *StatsSummary) error
	Invalidate(ctx context.Context, memberID string) error
}

// LeaderboardCache caches the members-by-total ranking. Callers treat any
// failed Top as a miss, recompute via Repository.Totals and Rebuild.
type LeaderboardCache interface {
	Top(ctx context.Context, limit int) ([]TotalRow, error)
	Rebuild(ctx context.Context, totals []TotalRow) error
	Invalidate(ctx context.Context) error
}
