package postgres

import (
	"context"
	"fmt"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/progress"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ProgressRepository implements progress.Repository for PostgreSQL.
//
// The completion latch is enforced here: CompleteAndAward runs the record
// update and the ledger insert in one transaction, and the update matches
// on both the optimistic version and is_completed = FALSE. Two racing
// completions therefore commit at most one ledger entry; the loser's
// update touches zero rows, the transaction rolls back, and the caller
// sees shared.ErrConcurrencyConflict.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

const progressColumns = `
	id, member_id, objective_id, current_count, is_completed, completed_at,
	points_awarded, version, created_at, updated_at
`

// Create persists a new assignment at count zero.
func (r *ProgressRepository) Create(ctx context.Context, rec *progress.Record) error {
	query := `
		INSERT INTO member_objective_progress (
			id, member_id, objective_id, current_count, is_completed, completed_at,
			points_awarded, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.Exec(ctx, query,
		rec.ID,
		rec.MemberID,
		rec.ObjectiveID,
		rec.CurrentCount,
		rec.IsCompleted,
		rec.CompletedAt,
		rec.PointsAwarded,
		rec.Version,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyAssigned
		}
		return fmt.Errorf("failed to create progress record: %w", err)
	}

	return nil
}

// Get returns the record for a (member, objective) pair.
func (r *ProgressRepository) Get(ctx context.Context, memberID, objectiveID string) (*progress.Record, error) {
	query := `SELECT ` + progressColumns + `
		FROM member_objective_progress
		WHERE member_id = $1 AND objective_id = $2`

	row := r.conn.QueryRow(ctx, query, memberID, objectiveID)
	rec, err := scanProgress(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}
	return rec, nil
}

// ListByMember returns all records for a member, newest first.
func (r *ProgressRepository) ListByMember(ctx context.Context, memberID string) ([]*progress.Record, error) {
	query := `SELECT ` + progressColumns + `
		FROM member_objective_progress
		WHERE member_id = $1
		ORDER BY created_at DESC`

	rows, err := r.conn.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}
	defer rows.Close()

	var recs []*progress.Record
	for rows.Next() {
		rec, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress record: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// Update persists a non-completing mutation under the optimistic version
// check, together with its audit event.
func (r *ProgressRepository) Update(ctx context.Context, rec *progress.Record, event *progress.Event) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if err := updateProgressRow(ctx, tx, rec); err != nil {
			return err
		}
		if event != nil {
			if err := insertProgressEvent(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

// CompleteAndAward persists a completion transition atomically: the
// latched record, the ledger entry and the audit event commit together
// or not at all.
func (r *ProgressRepository) CompleteAndAward(ctx context.Context, rec *progress.Record, entry *ledger.Entry, event *progress.Event) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if err := updateProgressRow(ctx, tx, rec); err != nil {
			return err
		}

		insertEntry := `
			INSERT INTO points_ledger (id, member_id, points, source_type, source_id, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, insertEntry,
			entry.ID,
			entry.MemberID,
			entry.Points,
			string(entry.SourceType),
			entry.SourceID,
			entry.Description,
			entry.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}

		if event != nil {
			if err := insertProgressEvent(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the record for a pair. Awarded ledger entries survive.
func (r *ProgressRepository) Delete(ctx context.Context, memberID, objectiveID string) error {
	result, err := r.conn.Exec(ctx,
		`DELETE FROM member_objective_progress WHERE member_id = $1 AND objective_id = $2`,
		memberID, objectiveID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete progress record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrProgressNotFound
	}

	return nil
}

// updateProgressRow applies the optimistic update. The version predicate
// rejects stale writers; the is_completed predicate keeps the latch
// one-way even against a writer holding the current version.
func updateProgressRow(ctx context.Context, tx pgx.Tx, rec *progress.Record) error {
	query := `
		UPDATE member_objective_progress SET
			current_count = $1,
			is_completed = $2,
			completed_at = $3,
			points_awarded = $4,
			version = version + 1,
			updated_at = $5
		WHERE member_id = $6 AND objective_id = $7
		  AND version = $8 AND is_completed = FALSE
	`

	result, err := tx.Exec(ctx, query,
		rec.CurrentCount,
		rec.IsCompleted,
		rec.CompletedAt,
		rec.PointsAwarded,
		rec.UpdatedAt,
		rec.MemberID,
		rec.ObjectiveID,
		rec.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrConcurrencyConflict
	}

	rec.Version++
	return nil
}

// insertProgressEvent appends one audit row inside the caller's transaction.
func insertProgressEvent(ctx context.Context, tx pgx.Tx, event *progress.Event) error {
	query := `
		INSERT INTO progress_events (id, member_id, objective_id, old_count, new_count, delta, completed, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.Exec(ctx, query,
		event.ID,
		event.MemberID,
		event.ObjectiveID,
		event.OldCount,
		event.NewCount,
		event.Delta,
		event.Completed,
		event.RecordedAt,
	); err != nil {
		return fmt.Errorf("failed to insert progress event: %w", err)
	}
	return nil
}

// scanProgress scans a progress record from a row.
func scanProgress(row pgx.Row) (*progress.Record, error) {
	var rec progress.Record
	err := row.Scan(
		&rec.ID,
		&rec.MemberID,
		&rec.ObjectiveID,
		&rec.CurrentCount,
		&rec.IsCompleted,
		&rec.CompletedAt,
		&rec.PointsAwarded,
		&rec.Version,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
