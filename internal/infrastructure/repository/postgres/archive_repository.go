package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

// ArchiveRepository journals archive attempts so operators can audit
// which uploads were verified and which stalled.
type ArchiveRepository struct {
	db *sql.DB
}

func NewArchiveRepository(db *sql.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ArchiveRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS archive_attempts (
	id TEXT PRIMARY KEY,
	job_id TEXT NOT NULL,
	file_path TEXT NOT NULL,
	title TEXT NOT NULL,
	task_id TEXT,
	document_id BIGINT,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_archive_attempts_job_id ON archive_attempts(job_id);
CREATE INDEX IF NOT EXISTS idx_archive_attempts_status ON archive_attempts(status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ArchiveRepository) Create(ctx context.Context, attempt *domain.ArchiveAttempt) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO archive_attempts (
	id, job_id, file_path, title, task_id, document_id, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		attempt.ID, attempt.JobID, attempt.FilePath, attempt.Title, attempt.TaskID,
		attempt.DocumentID, string(attempt.Status), attempt.Error, attempt.CreatedAt, attempt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert archive attempt: %w", err)
	}
	return nil
}

func (r *ArchiveRepository) MarkUploaded(ctx context.Context, id, taskID string) error {
	return r.update(ctx, "mark uploaded", `
UPDATE archive_attempts
SET status = $2, task_id = $3, updated_at = $4
WHERE id = $1
`, id, string(domain.AttemptUploaded), taskID, time.Now().UTC())
}

func (r *ArchiveRepository) MarkVerified(ctx context.Context, id string, documentID int) error {
	return r.update(ctx, "mark verified", `
UPDATE archive_attempts
SET status = $2, document_id = $3, updated_at = $4
WHERE id = $1
`, id, string(domain.AttemptVerified), documentID, time.Now().UTC())
}

func (r *ArchiveRepository) MarkFailed(ctx context.Context, id, reason string) error {
	return r.update(ctx, "mark failed", `
UPDATE archive_attempts
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(domain.AttemptFailed), reason, time.Now().UTC())
}

func (r *ArchiveRepository) update(ctx context.Context, operation, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: attempt not found", operation)
	}
	return nil
}

func (r *ArchiveRepository) GetByJobID(ctx context.Context, jobID string) (*domain.ArchiveAttempt, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, job_id, file_path, title, task_id, document_id, status, error_message, created_at, updated_at
FROM archive_attempts
WHERE job_id = $1
ORDER BY created_at DESC
LIMIT 1
`, jobID)

	var attempt domain.ArchiveAttempt
	var taskID sql.NullString
	var documentID sql.NullInt64
	var errMessage sql.NullString
	var status string

	err := row.Scan(
		&attempt.ID, &attempt.JobID, &attempt.FilePath, &attempt.Title, &taskID,
		&documentID, &status, &errMessage, &attempt.CreatedAt, &attempt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("archive attempt not found: job=%s", jobID)
		}
		return nil, fmt.Errorf("scan archive attempt: %w", err)
	}

	attempt.Status = domain.AttemptStatus(status)
	attempt.TaskID = taskID.String
	attempt.Error = errMessage.String
	if documentID.Valid {
		id := int(documentID.Int64)
		attempt.DocumentID = &id
	}
	return &attempt, nil
}
