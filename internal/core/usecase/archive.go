package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
	"github.com/kirillkom/paperless-archiver/internal/core/ports"
)

// ArchiveDocumentUseCase performs one archival call: resolve taxonomy
// names to remote ids, upload the file, and journal the attempt.
// Taxonomy failures are non-fatal; the affected field is omitted. A
// failed upload or missing task handle fails the call.
type ArchiveDocumentUseCase struct {
	store   ports.DocumentStore
	files   ports.FileSource
	journal ports.ArchiveJournal
	logger  *slog.Logger
}

func NewArchiveDocumentUseCase(
	store ports.DocumentStore,
	files ports.FileSource,
	journal ports.ArchiveJournal,
	logger *slog.Logger,
) *ArchiveDocumentUseCase {
	return &ArchiveDocumentUseCase{
		store:   store,
		files:   files,
		journal: journal,
		logger:  logger,
	}
}

func (uc *ArchiveDocumentUseCase) Archive(ctx context.Context, req domain.ArchiveRequest) (domain.ArchiveResult, error) {
	if req.FilePath == "" {
		err := domain.WrapError(domain.ErrInvalid, "archive", errors.New("file path is empty"))
		return domain.ArchiveResult{Err: err.Error()}, err
	}

	native := buildNativeFields(req)
	if native.Title == "" {
		native.Title = filepath.Base(req.FilePath)
	}

	now := time.Now().UTC()
	attempt := &domain.ArchiveAttempt{
		ID:        uuid.NewString(),
		JobID:     req.JobID,
		FilePath:  req.FilePath,
		Title:     native.Title,
		Status:    domain.AttemptPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.journal.Create(ctx, attempt); err != nil {
		uc.logger.Warn("journal_create_failed", "attempt_id", attempt.ID, "error", err)
	}

	payload := domain.UploadPayload{
		Filename: filepath.Base(req.FilePath),
		Title:    native.Title,
		Created:  native.Created,
	}
	if native.Correspondent != "" {
		if id, err := uc.store.ResolveCorrespondent(ctx, native.Correspondent); err != nil {
			uc.logger.Warn("correspondent_resolution_failed", "name", native.Correspondent, "error", err)
		} else {
			payload.CorrespondentID = id
		}
	}
	if native.DocumentType != "" {
		if id, err := uc.store.ResolveDocumentType(ctx, native.DocumentType); err != nil {
			uc.logger.Warn("document_type_resolution_failed", "name", native.DocumentType, "error", err)
		} else {
			payload.DocumentTypeID = id
		}
	}
	if len(native.Tags) > 0 {
		ids, err := uc.store.ResolveTags(ctx, native.Tags)
		if err != nil {
			return uc.fail(ctx, attempt.ID, err)
		}
		payload.TagIDs = ids
	}

	content, err := uc.readFile(ctx, req.FilePath)
	if err != nil {
		return uc.fail(ctx, attempt.ID, err)
	}
	payload.Content = content

	taskID, err := uc.store.Upload(ctx, payload)
	if err != nil {
		return uc.fail(ctx, attempt.ID, err)
	}
	if err := uc.journal.MarkUploaded(ctx, attempt.ID, taskID); err != nil {
		uc.logger.Warn("journal_update_failed", "attempt_id", attempt.ID, "error", err)
	}

	uc.logger.Info("document_uploaded", "attempt_id", attempt.ID, "job_id", req.JobID, "title", native.Title, "task_id", taskID)
	return domain.ArchiveResult{
		Success:   true,
		AttemptID: attempt.ID,
		TaskID:    taskID,
	}, nil
}

func (uc *ArchiveDocumentUseCase) readFile(ctx context.Context, path string) ([]byte, error) {
	rc, err := uc.files.Open(ctx, path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalid, "archive", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalid, "archive", err)
	}
	return content, nil
}

func (uc *ArchiveDocumentUseCase) fail(ctx context.Context, attemptID string, cause error) (domain.ArchiveResult, error) {
	if err := uc.journal.MarkFailed(ctx, attemptID, cause.Error()); err != nil {
		uc.logger.Warn("journal_update_failed", "attempt_id", attemptID, "error", err)
	}
	return domain.ArchiveResult{AttemptID: attemptID, Err: cause.Error()}, cause
}
