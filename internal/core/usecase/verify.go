package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
	"github.com/kirillkom/paperless-archiver/internal/core/ports"
)

// VerifyUploadUseCase polls the remote task list until the upload task
// reaches a terminal state or the timeout elapses. The loop blocks the
// calling goroutine; callers needing non-blocking behavior run it on a
// worker of their own.
type VerifyUploadUseCase struct {
	store  ports.DocumentStore
	logger *slog.Logger
}

func NewVerifyUploadUseCase(store ports.DocumentStore, logger *slog.Logger) *VerifyUploadUseCase {
	return &VerifyUploadUseCase{store: store, logger: logger}
}

// Verify resolves the final document id for taskID. The returned error
// is non-nil only for synchronous validation failures; a task failure,
// an anomalous success without a document, or a timeout all yield
// verified=false with a nil error so callers can decide to retry or
// alert.
func (uc *VerifyUploadUseCase) Verify(ctx context.Context, taskID string, timeout, pollInterval time.Duration) (int, bool, error) {
	const operation = "verify"

	if _, err := uuid.Parse(taskID); err != nil {
		return 0, false, domain.WrapError(domain.ErrInvalid, operation, err)
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	start := time.Now()
	for {
		if time.Since(start) >= timeout {
			uc.logger.Warn("verification_timed_out", "task_id", taskID, "timeout", timeout)
			return 0, false, nil
		}

		task, err := uc.store.FindTask(ctx, taskID)
		switch {
		case err == nil:
			switch task.Status {
			case domain.TaskStatusSuccess:
				if task.RelatedDocument != nil {
					return *task.RelatedDocument, true, nil
				}
				// Terminal but unusable: the service accepted the task yet
				// reported no stored document.
				uc.logger.Error("task_succeeded_without_document", "task_id", taskID)
				return 0, false, nil
			case domain.TaskStatusFailure:
				uc.logger.Warn("task_failed", "task_id", taskID)
				return 0, false, nil
			}
			// PENDING or STARTED: keep polling.
		case domain.IsKind(err, domain.ErrNotFound):
			// The task may simply not have appeared in the list yet.
		default:
			if ctx.Err() != nil {
				return 0, false, nil
			}
			uc.logger.Warn("task_poll_failed", "task_id", taskID, "error", err)
		}

		timer := time.NewTimer(pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, false, nil
		case <-timer.C:
		}
	}
}
