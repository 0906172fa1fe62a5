package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
	"github.com/kirillkom/paperless-archiver/internal/core/ports"
)

// ArchiveJobUseCase runs one queued job end to end: archive, verify the
// upload task, then apply custom-field enrichment to the stored
// document.
type ArchiveJobUseCase struct {
	archiver ports.DocumentArchiver
	verifier ports.UploadVerifier
	fields   ports.CustomFieldApplier
	journal  ports.ArchiveJournal
	logger   *slog.Logger

	verifyTimeout time.Duration
	pollInterval  time.Duration
}

func NewArchiveJobUseCase(
	archiver ports.DocumentArchiver,
	verifier ports.UploadVerifier,
	fields ports.CustomFieldApplier,
	journal ports.ArchiveJournal,
	logger *slog.Logger,
	verifyTimeout, pollInterval time.Duration,
) *ArchiveJobUseCase {
	if verifyTimeout <= 0 {
		verifyTimeout = 3 * time.Minute
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &ArchiveJobUseCase{
		archiver:      archiver,
		verifier:      verifier,
		fields:        fields,
		journal:       journal,
		logger:        logger,
		verifyTimeout: verifyTimeout,
		pollInterval:  pollInterval,
	}
}

func (uc *ArchiveJobUseCase) Run(ctx context.Context, req domain.ArchiveRequest) (domain.ArchiveResult, error) {
	result, err := uc.archiver.Archive(ctx, req)
	if err != nil {
		return result, err
	}

	docID, verified, err := uc.verifier.Verify(ctx, result.TaskID, uc.verifyTimeout, uc.pollInterval)
	if err != nil {
		uc.markFailed(ctx, result.AttemptID, err.Error())
		result.Success = false
		result.Err = err.Error()
		return result, err
	}
	if !verified {
		uc.markFailed(ctx, result.AttemptID, "upload not verified")
		result.Success = false
		result.Err = "upload not verified"
		return result, nil
	}

	result.DocumentID = docID
	if err := uc.journal.MarkVerified(ctx, result.AttemptID, docID); err != nil {
		uc.logger.Warn("journal_update_failed", "attempt_id", result.AttemptID, "error", err)
	}

	if len(req.Metadata) > 0 {
		if !uc.fields.Apply(ctx, docID, req.Metadata) {
			uc.logger.Warn("custom_fields_not_applied", "job_id", req.JobID, "document_id", docID)
		}
	}

	uc.logger.Info("archive_job_done", "job_id", req.JobID, "document_id", docID, "task_id", result.TaskID)
	return result, nil
}

func (uc *ArchiveJobUseCase) markFailed(ctx context.Context, attemptID, reason string) {
	if err := uc.journal.MarkFailed(ctx, attemptID, reason); err != nil {
		uc.logger.Warn("journal_update_failed", "attempt_id", attemptID, "error", err)
	}
}
