package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"

	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements ledger.Repository for PostgreSQL.
// The points_ledger table is append-only; this repository exposes no
// update or delete.
type LedgerRepository struct {
	conn *Connection
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(conn *Connection) *LedgerRepository {
	return &LedgerRepository{conn: conn}
}

// Append persists a new ledger entry.
func (r *LedgerRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	query := `
		INSERT INTO points_ledger (id, member_id, points, source_type, source_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		entry.ID,
		entry.MemberID,
		entry.Points,
		string(entry.SourceType),
		entry.SourceID,
		entry.Description,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// Query returns a member's entries ordered by created_at ascending,
// optionally bounded by [from, to].
func (r *LedgerRepository) Query(ctx context.Context, memberID string, from, to time.Time) ([]*ledger.Entry, error) {
	query := `
		SELECT id, member_id, points, source_type, source_id, description, created_at
		FROM points_ledger
		WHERE member_id = $1
	`
	args := []interface{}{memberID}

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
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// History returns the most recent entries for a member, newest first.
func (r *LedgerRepository) History(ctx context.Context, memberID string, limit int) ([]*ledger.Entry, error) {
	query := `
		SELECT id, member_id, points, source_type, source_id, description, created_at
		FROM points_ledger
		WHERE member_id = $1
		ORDER BY created_at DESC
	`
	args := []interface{}{memberID}

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger history: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// Total returns the canonical point total over the (optionally bounded)
// entry set.
func (r *LedgerRepository) Total(ctx context.Context, memberID string, from, to time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(points), 0)
		FROM points_ledger
		WHERE member_id = $1
	`
	args := []interface{}{memberID}

	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	var total int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return total, nil
}

// Totals returns summed points per member, highest first.
func (r *LedgerRepository) Totals(ctx context.Context, limit int) ([]ledger.TotalRow, error) {
	query := `
		SELECT member_id, COALESCE(SUM(points), 0) AS total
		FROM points_ledger
		GROUP BY member_id
		ORDER BY total DESC
	`
	args := []interface{}{}

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger totals: %w", err)
	}
	defer rows.Close()

	var totals []ledger.TotalRow
	for rows.Next() {
		var row ledger.TotalRow
		if err := rows.Scan(&row.MemberID, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan total row: %w", err)
		}
		totals = append(totals, row)
	}

	return totals, rows.Err()
}

// scanLedgerEntries drains rows into entries.
func scanLedgerEntries(rows pgx.Rows) ([]*ledger.Entry, error) {
	var entries []*ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		var sourceType string
		if err := rows.Scan(
			&e.ID,
			&e.MemberID,
			&e.Points,
			&sourceType,
			&e.SourceID,
			&e.Description,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.SourceType = ledger.SourceType(sourceType)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
