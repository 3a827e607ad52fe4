// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// MemberID represents a unique identifier of an organization member.
type MemberID string

// IsValid checks if the member ID is non-empty.
func (m MemberID) IsValid() bool {
	return strings.TrimSpace(string(m)) != ""
}

// String returns the string representation.
func (m MemberID) String() string {
	return string(m)
}

// NewMemberID creates a new MemberID with validation.
func NewMemberID(id string) (MemberID, error) {
	m := MemberID(strings.TrimSpace(id))
	if !m.IsValid() {
		return "", ErrInvalidID
	}
	return m, nil
}

// OrganizationID represents a unique identifier of an organization.
// Reports may be scoped to an organization or cover the whole deployment.
type OrganizationID string

// IsValid checks if the organization ID is non-empty.
func (o OrganizationID) IsValid() bool {
	return strings.TrimSpace(string(o)) != ""
}

// String returns the string representation.
func (o OrganizationID) String() string {
	return string(o)
}

// ═══════════════════════════════════════════════════════════════════════════
// Points
// ═══════════════════════════════════════════════════════════════════════════

// Points represents a signed point amount. Ledger entries may be negative
// (manual corrections); objective rewards are always non-negative.
type Points int

// Int returns the underlying int value.
func (p Points) Int() int {
	return int(p)
}

// IsReward returns true for non-negative amounts.
func (p Points) IsReward() bool {
	return p >= 0
}

// ═══════════════════════════════════════════════════════════════════════════
// Period
// ═══════════════════════════════════════════════════════════════════════════

// Period is an optionally-bounded time range. A nil bound means open-ended
// on that side.
type Period struct {
	Start *time.Time
	End   *time.Time
}

// NewPeriod creates a period and validates the bounds ordering.
func NewPeriod(start, end *time.Time) (Period, error) {
	if start != nil && end != nil && start.After(*end) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the period (inclusive bounds).
func (p Period) Contains(t time.Time) bool {
	if p.Start != nil && t.Before(*p.Start) {
		return false
	}
	if p.End != nil && t.After(*p.End) {
		return false
	}
	return true
}

// IsBounded returns true when both bounds are set.
func (p Period) IsBounded() bool {
	return p.Start != nil && p.End != nil
}
