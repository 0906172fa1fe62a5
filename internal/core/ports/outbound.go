package ports

import (
	"context"
	"io"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

// DocumentStore is the remote document-management service boundary.
// Resolve* calls translate free-text taxonomy names to remote numeric
// identifiers, creating entries when they do not exist yet.
type DocumentStore interface {
	ResolveCorrespondent(ctx context.Context, name string) (int, error)
	ResolveDocumentType(ctx context.Context, name string) (int, error)
	ResolveTags(ctx context.Context, names []string) ([]int, error)
	ResolveCustomField(ctx context.Context, name, dataType string) (int, error)

	// Upload performs the multipart document POST and returns the
	// asynchronous task handle. It is never auto-retried.
	Upload(ctx context.Context, payload domain.UploadPayload) (string, error)

	// ApplyCustomFields patches custom-field values onto a stored document.
	ApplyCustomFields(ctx context.Context, documentID int, assignments []domain.CustomFieldAssignment) error

	// FindTask scans the remote task list for taskID. A task that has not
	// appeared yet is reported as a domain.ErrNotFound kind.
	FindTask(ctx context.Context, taskID string) (*domain.UploadTask, error)
}

// FileSource opens document content for upload.
type FileSource interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// ArchiveJournal persists archive attempt state transitions.
type ArchiveJournal interface {
	Create(ctx context.Context, attempt *domain.ArchiveAttempt) error
	MarkUploaded(ctx context.Context, id, taskID string) error
	MarkVerified(ctx context.Context, id string, documentID int) error
	MarkFailed(ctx context.Context, id, reason string) error
	GetByJobID(ctx context.Context, jobID string) (*domain.ArchiveAttempt, error)
}

// MessageQueue carries archive job requests from the upstream scheduler.
type MessageQueue interface {
	PublishArchiveRequested(ctx context.Context, req domain.ArchiveRequest) error
	SubscribeArchiveRequested(ctx context.Context, handler func(context.Context, domain.ArchiveRequest) error) error
}
