package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION SUPPORT
// ══════════════════════════════════════════════════════════════════════════════

// Migration represents a database migration.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	AppliedAt time.Time
	IsApplied bool
}

// Migrator handles database migrations.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a new migrator with embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// EnsureMigrationTable creates the migration tracking table if it doesn't exist.
func (m *Migrator) EnsureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	_, err := m.conn.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

// GetAppliedMigrations returns all applied migrations.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	query := fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName)

	rows, err := m.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time

		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}

		applied[version] = appliedAt
	}

	return applied, rows.Err()
}

// Migrate applies all pending migrations.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, isApplied := applied[mig.Version]; isApplied {
			continue
		}

		if mig.UpSQL == "" {
			return fmt.Errorf("%w: missing up SQL for migration %d", ErrMigrationFailed, mig.Version)
		}

		// Apply migration in transaction
		err := m.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
			}

			insertQuery := fmt.Sprintf(
				"INSERT INTO %s (version, name) VALUES ($1, $2)",
				m.tableName,
			)
			_, err := tx.Exec(ctx, insertQuery, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_objective_definitions",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_member_objective_progress",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_points_ledger",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
		{
			Version: 4,
			Name:    "create_user_engagements",
			UpSQL:   migration004Up,
			DownSQL: migration004Down,
		},
		{
			Version: 5,
			Name:    "create_impact_reports",
			UpSQL:   migration005Up,
			DownSQL: migration005Down,
		},
	}
}

const migration001Up = `
CREATE TABLE objective_definitions (
	id            UUID PRIMARY KEY,
	title         TEXT NOT NULL,
	group_tag     TEXT NOT NULL DEFAULT '',
	action_type   TEXT NOT NULL DEFAULT '',
	feature_tag   TEXT NOT NULL DEFAULT '',
	target_count  INTEGER NOT NULL CHECK (target_count >= 1),
	points        INTEGER NOT NULL CHECK (points >= 0),
	difficulty    TEXT NOT NULL DEFAULT '',
	privacy       TEXT NOT NULL DEFAULT '',
	audience      TEXT[] NOT NULL DEFAULT '{}',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	valid_from    TIMESTAMPTZ,
	valid_until   TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_objective_definitions_active ON objective_definitions (is_active);
`

const migration001Down = `DROP TABLE objective_definitions;`

const migration002Up = `
CREATE TABLE member_objective_progress (
	id             UUID PRIMARY KEY,
	member_id      TEXT NOT NULL,
	objective_id   UUID NOT NULL,
	current_count  INTEGER NOT NULL DEFAULT 0 CHECK (current_count >= 0),
	is_completed   BOOLEAN NOT NULL DEFAULT FALSE,
	completed_at   TIMESTAMPTZ,
	points_awarded INTEGER NOT NULL DEFAULT 0,
	version        INTEGER NOT NULL DEFAULT 1,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (member_id, objective_id)
);

CREATE INDEX idx_progress_member ON member_objective_progress (member_id);

CREATE TABLE progress_events (
	id           UUID PRIMARY KEY,
	member_id    TEXT NOT NULL,
	objective_id UUID NOT NULL,
	old_count    INTEGER NOT NULL,
	new_count    INTEGER NOT NULL,
	delta        INTEGER NOT NULL,
	completed    BOOLEAN NOT NULL,
	recorded_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_progress_events_pair ON progress_events (member_id, objective_id, recorded_at);
`

const migration002Down = `
DROP TABLE progress_events;
DROP TABLE member_objective_progress;
`

const migration003Up = `
CREATE TABLE points_ledger (
	id          UUID PRIMARY KEY,
	member_id   TEXT NOT NULL,
	points      INTEGER NOT NULL,
	source_type TEXT NOT NULL,
	source_id   TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_points_ledger_member_time ON points_ledger (member_id, created_at);
`

const migration003Down = `DROP TABLE points_ledger;`

const migration004Up = `
CREATE TABLE user_engagements (
	id                UUID PRIMARY KEY,
	member_id         TEXT NOT NULL,
	activity_id       TEXT NOT NULL DEFAULT '',
	action_type       TEXT NOT NULL,
	hours_contributed DOUBLE PRECISION NOT NULL DEFAULT 0,
	points_earned     INTEGER NOT NULL DEFAULT 0,
	impact_score      DOUBLE PRECISION NOT NULL DEFAULT 0,
	metadata          JSONB NOT NULL DEFAULT '{}',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_user_engagements_member ON user_engagements (member_id, created_at);
CREATE INDEX idx_user_engagements_time ON user_engagements (created_at);
`

const migration004Down = `DROP TABLE user_engagements;`

const migration005Up = `
CREATE TABLE impact_reports (
	id                   UUID PRIMARY KEY,
	organization_id      TEXT NOT NULL DEFAULT '',
	report_type          TEXT NOT NULL,
	title                TEXT NOT NULL,
	period_start         TIMESTAMPTZ,
	period_end           TIMESTAMPTZ,
	total_hours          DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_volunteers     INTEGER NOT NULL DEFAULT 0,
	activities_completed INTEGER NOT NULL DEFAULT 0,
	metrics              JSONB NOT NULL DEFAULT '{}',
	suggestions          TEXT[] NOT NULL DEFAULT '{}',
	generated_by         TEXT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_impact_reports_org_time ON impact_reports (organization_id, created_at DESC);
`

const migration005Down = `DROP TABLE impact_reports;`
