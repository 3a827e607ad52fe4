package engagement

import (
	"context"
	"time"
)

// Repository defines the interface for engagement log persistence.
// The log is append-only.
type Repository interface {
	// Append persists a new engagement entry.
	Append(ctx context.Context, entry *Entry) error

	// QueryByMember returns all entries for a member, oldest first.
	QueryByMember(ctx context.Context, memberID string) ([]*Entry, error)

	// QueryPeriod returns entries with CreatedAt inside [from, to],
	// oldest first. Zero times mean unbounded on that side.
	QueryPeriod(ctx context.Context, from, to time.Time) ([]*Entry, error)
}
