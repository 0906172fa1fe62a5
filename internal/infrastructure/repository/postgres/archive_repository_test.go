package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

func TestCreateInsertsAttempt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	attempt := &domain.ArchiveAttempt{
		ID:        "a1",
		JobID:     "job-1",
		FilePath:  "spool/report.pdf",
		Title:     "Quarterly Report",
		Status:    domain.AttemptPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO archive_attempts").
		WithArgs("a1", "job-1", "spool/report.pdf", "Quarterly Report", "", nil,
			string(domain.AttemptPending), "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewArchiveRepository(db)
	if err := repo.Create(context.Background(), attempt); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkUploadedUpdatesStatusAndTask(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE archive_attempts").
		WithArgs("a1", string(domain.AttemptUploaded), "task-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewArchiveRepository(db)
	if err := repo.MarkUploaded(context.Background(), "a1", "task-1"); err != nil {
		t.Fatalf("MarkUploaded() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkVerifiedMissingAttemptFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE archive_attempts").
		WithArgs("ghost", string(domain.AttemptVerified), 456, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewArchiveRepository(db)
	err = repo.MarkVerified(context.Background(), "ghost", 456)
	if err == nil || !strings.Contains(err.Error(), "attempt not found") {
		t.Fatalf("expected not-found error for zero affected rows, got %v", err)
	}
}

func TestGetByJobIDScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "job_id", "file_path", "title", "task_id",
		"document_id", "status", "error_message", "created_at", "updated_at",
	}).AddRow("a1", "job-1", "spool/report.pdf", "Quarterly Report", "task-1",
		int64(456), string(domain.AttemptVerified), nil, now, now)

	mock.ExpectQuery("FROM archive_attempts").WithArgs("job-1").WillReturnRows(rows)

	repo := NewArchiveRepository(db)
	attempt, err := repo.GetByJobID(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetByJobID() error = %v", err)
	}
	if attempt.Status != domain.AttemptVerified {
		t.Fatalf("unexpected status: %s", attempt.Status)
	}
	if attempt.DocumentID == nil || *attempt.DocumentID != 456 {
		t.Fatalf("expected document id 456, got %v", attempt.DocumentID)
	}
	if attempt.Error != "" {
		t.Fatalf("expected empty error for null column, got %q", attempt.Error)
	}
}

func TestGetByJobIDMissingJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM archive_attempts").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewArchiveRepository(db)
	if _, err := repo.GetByJobID(context.Background(), "ghost"); err == nil {
		t.Fatalf("expected error for missing job")
	}
}
