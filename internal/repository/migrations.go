package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// migration is one schema step. Statements must be idempotent: the runner is
// executed on every startup and tracks applied versions in schema_migrations.
type migration struct {
	Version    int
	Name       string
	Statements []string
}

// migrations is the ordered schema history. Later entries only ever add
// columns with empty defaults so existing rows survive upgrades.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create students table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS students (
				record_id TEXT PRIMARY KEY,
				student_name TEXT NOT NULL,
				father_name TEXT NOT NULL DEFAULT '',
				mother_name TEXT NOT NULL DEFAULT '',
				course_name TEXT NOT NULL,
				fees_payment_mode TEXT NOT NULL DEFAULT '',
				date_of_birth TEXT NOT NULL DEFAULT '',
				address TEXT NOT NULL DEFAULT '',
				aadhar_no TEXT NOT NULL DEFAULT '',
				mobile_no TEXT NOT NULL,
				email TEXT NOT NULL DEFAULT '',
				total_fees DOUBLE PRECISION NOT NULL DEFAULT 0,
				fees_paid DOUBLE PRECISION NOT NULL DEFAULT 0,
				balance_fees DOUBLE PRECISION NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		},
	},
	{
		Version: 2,
		Name:    "create audit logs table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS audit_logs (
				log_id BIGSERIAL PRIMARY KEY,
				timestamp TIMESTAMPTZ NOT NULL,
				action TEXT NOT NULL,
				record_id TEXT NOT NULL DEFAULT 'N/A',
				details TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs (timestamp DESC)`,
		},
	},
	{
		Version: 3,
		Name:    "add course enrollment date",
		Statements: []string{
			`ALTER TABLE students ADD COLUMN IF NOT EXISTS course_enrollment_date TEXT NOT NULL DEFAULT ''`,
		},
	},
	{
		Version: 4,
		Name:    "add enrollment number",
		Statements: []string{
			`ALTER TABLE students ADD COLUMN IF NOT EXISTS enrollment_no TEXT NOT NULL DEFAULT ''`,
		},
	},
}

// RunMigrations applies any pending schema migrations. Safe to call on every
// startup.
func RunMigrations(db *sqlx.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	var versions []int
	if err := db.Select(&versions, `SELECT version FROM schema_migrations`); err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		for _, stmt := range m.Statements {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
		logger.Info("applied schema migration", zap.Int("version", m.Version), zap.String("name", m.Name))
	}

	return nil
}
