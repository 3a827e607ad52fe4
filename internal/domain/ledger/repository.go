package ledger

import (
	"context"
	"time"
)

// TotalRow is one member's summed points, used by leaderboard queries.
type TotalRow struct {
	MemberID string
	Total    int
}

// Repository defines the interface for ledger persistence. The ledger is
// append-only: there is no update or delete.
type Repository interface {
	// Append persists a new entry. It fails only when the storage layer
	// is unavailable.
	Append(ctx context.Context, entry *Entry) error

	// Query returns a member's entries ordered by CreatedAt ascending,
	// optionally bounded by [from, to]. Zero times mean unbounded.
	Query(ctx context.Context, memberID string, from, to time.Time) ([]*Entry, error)

	// History returns the most recent entries for a member, newest first.
	// limit <= 0 means no limit.
	History(ctx context.Context, memberID string, limit int) ([]*Entry, error)

	// Total returns the sum of points over the (optionally bounded) entry
	// set. The computed total is canonical; any cache must agree with it.
	Total(ctx context.Context, memberID string, from, to time.Time) (int, error)

	// Totals returns summed points per member, highest first, at most
	// limit rows. Backs the leaderboard.
	Totals(ctx context.Context, limit int) ([]TotalRow, error)
}
