package postgres

import (
	"context"
	"fmt"

	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/objective"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ObjectiveRepository implements objective.Repository for PostgreSQL.
type ObjectiveRepository struct {
	conn *Connection
}

// NewObjectiveRepository creates a new ObjectiveRepository.
func NewObjectiveRepository(conn *Connection) *ObjectiveRepository {
	return &ObjectiveRepository{conn: conn}
}

const objectiveColumns = `
	id, title, group_tag, action_type, feature_tag, target_count, points,
	difficulty, privacy, audience, is_active, valid_from, valid_until,
	created_at, updated_at
`

// Create persists a new objective definition.
func (r *ObjectiveRepository) Create(ctx context.Context, def *objective.Definition) error {
	query := `
		INSERT INTO objective_definitions (
			id, title, group_tag, action_type, feature_tag, target_count, points,
			difficulty, privacy, audience, is_active, valid_from, valid_until,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.conn.Exec(ctx, query,
		def.ID,
		def.Title,
		def.GroupTag,
		def.ActionType,
		def.FeatureTag,
		def.TargetCount,
		def.Points,
		string(def.Difficulty),
		string(def.Privacy),
		def.Audience,
		def.IsActive,
		def.ValidFrom,
		def.ValidUntil,
		def.CreatedAt,
		def.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("objective", "Create", shared.ErrAlreadyExists,
				"objective already exists", err)
		}
		return fmt.Errorf("failed to create objective: %w", err)
	}

	return nil
}

// Get returns an objective definition by ID.
func (r *ObjectiveRepository) Get(ctx context.Context, id string) (*objective.Definition, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objective_definitions WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	def, err := scanObjective(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrObjectiveNotFound
		}
		return nil, fmt.Errorf("failed to get objective: %w", err)
	}
	return def, nil
}

// List returns objective definitions, optionally only active ones.
func (r *ObjectiveRepository) List(ctx context.Context, activeOnly bool) ([]*objective.Definition, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objective_definitions`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	defer rows.Close()

	var defs []*objective.Definition
	for rows.Next() {
		def, err := scanObjective(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan objective: %w", err)
		}
		defs = append(defs, def)
	}

	return defs, rows.Err()
}

// Update persists changes to an existing definition.
func (r *ObjectiveRepository) Update(ctx context.Context, def *objective.Definition) error {
	query := `
		UPDATE objective_definitions SET
			title = $1,
			group_tag = $2,
			action_type = $3,
			feature_tag = $4,
			target_count = $5,
			points = $6,
			difficulty = $7,
			privacy = $8,
			audience = $9,
			is_active = $10,
			valid_from = $11,
			valid_until = $12,
			updated_at = $13
		WHERE id = $14
	`

	result, err := r.conn.Exec(ctx, query,
		def.Title,
		def.GroupTag,
		def.ActionType,
		def.FeatureTag,
		def.TargetCount,
		def.Points,
		string(def.Difficulty),
		string(def.Privacy),
		def.Audience,
		def.IsActive,
		def.ValidFrom,
		def.ValidUntil,
		def.UpdatedAt,
		def.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update objective: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrObjectiveNotFound
	}

	return nil
}

// Delete permanently removes a definition. Progress rows and ledger entries
// referencing it are left untouched so history survives.
func (r *ObjectiveRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM objective_definitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete objective: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrObjectiveNotFound
	}

	return nil
}

// scanObjective scans a definition from a row.
func scanObjective(row pgx.Row) (*objective.Definition, error) {
	var def objective.Definition
	var difficulty, privacy string

	err := row.Scan(
		&def.ID,
		&def.Title,
		&def.GroupTag,
		&def.ActionType,
		&def.FeatureTag,
		&def.TargetCount,
		&def.Points,
		&difficulty,
		&privacy,
		&def.Audience,
		&def.IsActive,
		&def.ValidFrom,
		&def.ValidUntil,
		&def.CreatedAt,
		&def.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	def.Difficulty = objective.Difficulty(difficulty)
	def.Privacy = objective.Privacy(privacy)
	return &def, nil
}
