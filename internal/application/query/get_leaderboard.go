package query

import (
	"context"
	"errors"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Ranks members by their summed ledger points. The sorted-set cache
// shortcuts repeated reads; any cache failure falls back to a full
// recompute from the ledger, which is always correct.
// ══════════════════════════════════════════════════════════════════════════════

// Leaderboard size bounds.
const (
	defaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
)

// GetLeaderboardQuery contains the leaderboard parameters.
type GetLeaderboardQuery struct {
	// Limit is the number of entries (default 20, max 100).
	Limit int
}

// Validate validates and normalizes the query.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("get_leaderboard: limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = defaultLeaderboardLimit
	}
	if q.Limit > maxLeaderboardLimit {
		q.Limit = maxLeaderboardLimit
	}
	return nil
}

// LeaderboardEntryDTO is one ranked leaderboard row.
type LeaderboardEntryDTO struct {
	// Rank is the 1-based position.
	Rank int `json:"rank"`

	// MemberID is the ranked member.
	MemberID string `json:"member_id"`

	// Points is the summed ledger total.
	Points int `json:"points"`
}

// GetLeaderboardResult contains the ranked entries.
type GetLeaderboardResult struct {
	Entries []LeaderboardEntryDTO `json:"entries"`

	// FromCache reports whether the ranking came from the cache.
	FromCache bool `json:"from_cache"`
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	ledgerRepo       ledger.Repository
	leaderboardCache ledger.LeaderboardCache
	log              *logger.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler. A nil
// cache disables caching entirely.
func NewGetLeaderboardHandler(ledgerRepo ledger.Repository, leaderboardCache ledger.LeaderboardCache, log *logger.Logger) *GetLeaderboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetLeaderboardHandler{
		ledgerRepo:       ledgerRepo,
		leaderboardCache: leaderboardCache,
		log:              log.With(logger.Component("query"), logger.Operation("get_leaderboard")),
	}
}

// Handle returns the top members by points.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.leaderboardCache != nil {
		if rows, err := h.leaderboardCache.Top(ctx, q.Limit); err == nil {
			return &GetLeaderboardResult{Entries: toLeaderboardDTOs(rows), FromCache: true}, nil
		}
	}

	// Cache miss or no cache: derive from the ledger and rebuild.
	totals, err := h.ledgerRepo.Totals(ctx, 0)
	if err != nil {
		return nil, err
	}

	if h.leaderboardCache != nil {
		if err := h.leaderboardCache.Rebuild(ctx, totals); err != nil {
			h.log.Debug("leaderboard cache rebuild failed", logger.Err(err))
		}
	}

	if len(totals) > q.Limit {
		totals = totals[:q.Limit]
	}
	return &GetLeaderboardResult{Entries: toLeaderboardDTOs(totals)}, nil
}

func toLeaderboardDTOs(rows []ledger.TotalRow) []LeaderboardEntryDTO {
	entries := make([]LeaderboardEntryDTO, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntryDTO{
			Rank:     i + 1,
			MemberID: row.MemberID,
			Points:   row.Total,
		})
	}
	return entries
}
