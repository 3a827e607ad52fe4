package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/engagement"

	"github.com/jackc/pgx/v5"
)

// EngagementRepository implements engagement.Repository for PostgreSQL.
// The user_engagements table is append-only.
type EngagementRepository struct {
	conn *Connection
}

// NewEngagementRepository creates a new EngagementRepository.
func NewEngagementRepository(conn *Connection) *EngagementRepository {
	return &EngagementRepository{conn: conn}
}

// Append persists a new engagement entry.
func (r *EngagementRepository) Append(ctx context.Context, entry *engagement.Entry) error {
	metadataJSON, err := json.Marshal(metadataOrEmpty(entry.Metadata))
	if err != nil {
		return fmt.Errorf("failed to marshal engagement metadata: %w", err)
	}

	query := `
		INSERT INTO user_engagements (
			id, member_id, activity_id, action_type, hours_contributed,
			points_earned, impact_score, metadata, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.conn.Exec(ctx, query,
		entry.ID,
		entry.MemberID,
		entry.ActivityID,
		string(entry.ActionType),
		entry.HoursContributed,
		entry.PointsEarned,
		entry.ImpactScore,
		metadataJSON,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append engagement: %w", err)
	}

	return nil
}

// QueryByMember returns all entries for a member, oldest first.
func (r *EngagementRepository) QueryByMember(ctx context.Context, memberID string) ([]*engagement.Entry, error) {
	query := `
		SELECT id, member_id, activity_id, action_type, hours_contributed,
		       points_earned, impact_score, metadata, created_at, updated_at
		FROM user_engagements
		WHERE member_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.conn.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query engagements: %w", err)
	}
	defer rows.Close()

	return scanEngagements(rows)
}

// QueryPeriod returns entries with created_at inside [from, to], oldest first.
func (r *EngagementRepository) QueryPeriod(ctx context.Context, from, to time.Time) ([]*engagement.Entry, error) {
	query := `
		SELECT id, member_id, activity_id, action_type, hours_contributed,
		       points_earned, impact_score, metadata, created_at, updated_at
		FROM user_engagements
		WHERE TRUE
	`
	args := []interface{}{}

	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query engagements by period: %w", err)
	}
	defer rows.Close()

	return scanEngagements(rows)
}

// scanEngagements drains rows into entries.
func scanEngagements(rows pgx.Rows) ([]*engagement.Entry, error) {
	var entries []*engagement.Entry
	for rows.Next() {
		var e engagement.Entry
		var actionType string
		var metadataJSON []byte

		if err := rows.Scan(
			&e.ID,
			&e.MemberID,
			&e.ActivityID,
			&actionType,
			&e.HoursContributed,
			&e.PointsEarned,
			&e.ImpactScore,
			&metadataJSON,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}

		e.ActionType = engagement.ActionType(actionType)
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal engagement metadata: %w", err)
			}
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func metadataOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
