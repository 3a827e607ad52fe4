// Package objective contains domain entities and business logic for the
// objective catalog: reusable achievement definitions with a numeric target
// and a point reward. This is a pure domain layer with zero external dependencies.
package objective

import (
	"strings"
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
)

// Difficulty grades an objective for catalog presentation. Optional;
// the empty value means ungraded.
type Difficulty string

const (
	DifficultyBasic   Difficulty = "basic"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExtreme Difficulty = "extreme"
)

// IsValid checks the difficulty value. The empty string is allowed.
func (d Difficulty) IsValid() bool {
	switch d {
	case "", DifficultyBasic, DifficultyMedium, DifficultyHard, DifficultyExtreme:
		return true
	}
	return false
}

// Privacy controls catalog visibility. Optional; empty means public.
type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyPrivate Privacy = "private"
)

// IsValid checks the privacy value. The empty string is allowed.
func (p Privacy) IsValid() bool {
	switch p {
	case "", PrivacyPublic, PrivacyPrivate:
		return true
	}
	return false
}

// Definition is an objective definition in the catalog. Definitions are
// created and edited by catalog administrators and never mutated by the
// progress tracker.
type Definition struct {
	ID          string
	Title       string
	GroupTag    string
	ActionType  string
	FeatureTag  string
	TargetCount int
	Points      int
	Difficulty  Difficulty
	Privacy     Privacy
	Audience    []string
	IsActive    bool

	// Optional validity window. Nil bounds mean always valid on that side.
	ValidFrom  *time.Time
	ValidUntil *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate enforces the catalog invariants: target count at least 1,
// non-negative points, a title, and recognized enum values.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return shared.ErrObjectiveTitleEmpty
	}
	if d.TargetCount < 1 {
		return shared.ErrInvalidTargetCount
	}
	if d.Points < 0 {
		return shared.ErrNegativePoints
	}
	if !d.Difficulty.IsValid() {
		return shared.ErrInvalidDifficulty
	}
	if !d.Privacy.IsValid() {
		return shared.ErrInvalidPrivacy
	}
	if d.ValidFrom != nil && d.ValidUntil != nil && d.ValidFrom.After(*d.ValidUntil) {
		return shared.NewDomainError("objective", "Validate", shared.ErrInvalidPeriod,
			"validity window start is after end")
	}
	return nil
}

// IsVisibleAt reports whether the definition is active and inside its
// validity window at the given time.
func (d *Definition) IsVisibleAt(t time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.ValidFrom != nil && t.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidUntil != nil && t.After(*d.ValidUntil) {
		return false
	}
	return true
}
