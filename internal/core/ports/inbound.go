package ports

import (
	"context"
	"time"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

// DocumentArchiver is the inbound contract for one archival call.
type DocumentArchiver interface {
	Archive(ctx context.Context, req domain.ArchiveRequest) (domain.ArchiveResult, error)
}

// CustomFieldApplier attaches coerced custom-field values after upload.
type CustomFieldApplier interface {
	Apply(ctx context.Context, documentID int, record domain.MetadataRecord) bool
}

// UploadVerifier blocks until the upload task reaches a terminal state or
// the timeout elapses. verified=false with a nil error means the upload
// could not be confirmed (failure, timeout, or success without a document).
type UploadVerifier interface {
	Verify(ctx context.Context, taskID string, timeout, pollInterval time.Duration) (documentID int, verified bool, err error)
}

// ArchiveJobRunner is the worker-facing contract: archive, verify and
// enrich one queued job end to end.
type ArchiveJobRunner interface {
	Run(ctx context.Context, req domain.ArchiveRequest) (domain.ArchiveResult, error)
}
