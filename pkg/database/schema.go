package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Constraint names referenced by the access layer when translating driver errors.
const (
	ConstraintStudentEmail   = "students_email_key"
	ConstraintMentorEmail    = "mentors_email_key"
	ConstraintEmployerEmail  = "employers_email_key"
	ConstraintPlacementEmpl  = "placements_employer_id_fkey"
	ConstraintPlacementMent  = "placements_mentor_id_fkey"
	ConstraintLinkStudent    = "student_placement_links_student_id_fkey"
	ConstraintMentorLinkStud = "mentor_student_links_student_id_fkey"

	ConstraintEvalPlacement = "evaluations_placement_id_fkey"
	ConstraintEvalSubject   = "evaluations_subject_id_fkey"
	ConstraintEvalMentor    = "evaluations_mentor_evaluator_id_fkey"
	ConstraintEvalEmployer  = "evaluations_employer_evaluator_id_fkey"
	ConstraintEvalStudent   = "evaluations_student_evaluator_id_fkey"
)

type migration struct {
	Version    string
	Statements []string
}

// Evaluations carry three nullable evaluator columns; the exactly-one rule is
// enforced by the service layer before insert, not by a CHECK constraint.
var migrations = []migration{
	{
		Version: "001_initial_schema",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS students (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL,
	major TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	CONSTRAINT students_email_key UNIQUE (email)
)`,
			`CREATE TABLE IF NOT EXISTS mentors (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL,
	field TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	CONSTRAINT mentors_email_key UNIQUE (email)
)`,
			`CREATE TABLE IF NOT EXISTS employers (
	id BIGSERIAL PRIMARY KEY,
	company_name TEXT NOT NULL,
	email TEXT NOT NULL,
	contact_person TEXT NOT NULL,
	industry TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	CONSTRAINT employers_email_key UNIQUE (email)
)`,
			`CREATE TABLE IF NOT EXISTS placements (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	status TEXT NOT NULL,
	employer_id BIGINT NOT NULL,
	mentor_id BIGINT NOT NULL,
	CONSTRAINT placements_employer_id_fkey FOREIGN KEY (employer_id) REFERENCES employers (id),
	CONSTRAINT placements_mentor_id_fkey FOREIGN KEY (mentor_id) REFERENCES mentors (id)
)`,
			`CREATE TABLE IF NOT EXISTS evaluations (
	id BIGSERIAL PRIMARY KEY,
	feedback TEXT NOT NULL,
	rating INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	placement_id BIGINT NOT NULL,
	subject_id BIGINT NOT NULL,
	mentor_evaluator_id BIGINT,
	employer_evaluator_id BIGINT,
	student_evaluator_id BIGINT,
	CONSTRAINT evaluations_placement_id_fkey FOREIGN KEY (placement_id) REFERENCES placements (id),
	CONSTRAINT evaluations_subject_id_fkey FOREIGN KEY (subject_id) REFERENCES students (id),
	CONSTRAINT evaluations_mentor_evaluator_id_fkey FOREIGN KEY (mentor_evaluator_id) REFERENCES mentors (id),
	CONSTRAINT evaluations_employer_evaluator_id_fkey FOREIGN KEY (employer_evaluator_id) REFERENCES employers (id),
	CONSTRAINT evaluations_student_evaluator_id_fkey FOREIGN KEY (student_evaluator_id) REFERENCES students (id)
)`,
			`CREATE TABLE IF NOT EXISTS student_placement_links (
	student_id BIGINT NOT NULL,
	placement_id BIGINT NOT NULL,
	PRIMARY KEY (student_id, placement_id),
	CONSTRAINT student_placement_links_student_id_fkey FOREIGN KEY (student_id) REFERENCES students (id),
	CONSTRAINT student_placement_links_placement_id_fkey FOREIGN KEY (placement_id) REFERENCES placements (id)
)`,
			`CREATE TABLE IF NOT EXISTS mentor_student_links (
	mentor_id BIGINT NOT NULL,
	student_id BIGINT NOT NULL,
	PRIMARY KEY (mentor_id, student_id),
	CONSTRAINT mentor_student_links_mentor_id_fkey FOREIGN KEY (mentor_id) REFERENCES mentors (id),
	CONSTRAINT mentor_student_links_student_id_fkey FOREIGN KEY (student_id) REFERENCES students (id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_student_placement_links_placement ON student_placement_links (placement_id)`,
			`CREATE INDEX IF NOT EXISTS idx_evaluations_placement ON evaluations (placement_id)`,
			`CREATE INDEX IF NOT EXISTS idx_placements_employer ON placements (employer_id)`,
		},
	},
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrate applies every schema version not yet recorded in schema_migrations.
// Each version runs in its own transaction.
func Migrate(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		if err := db.GetContext(ctx, &applied, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version); err != nil {
			return fmt.Errorf("check migration %s: %w", m.Version, err)
		}
		if applied {
			logger.Debug("migration already applied", zap.String("version", m.Version))
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return err
		}
		logger.Info("migration applied", zap.String("version", m.Version))
	}
	return nil
}

func apply(ctx context.Context, db *sqlx.DB, m migration) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range m.Statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %s: %w", m.Version, err)
		}
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
		return fmt.Errorf("record migration %s: %w", m.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.Version, err)
	}
	return nil
}
